package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/solarlink-recon/middleware"
	"github.com/yourusername/solarlink-recon/reconcile"
)

type BundleHandler struct {
	svc *reconcile.Service
}

func NewBundleHandler(svc *reconcile.Service) *BundleHandler {
	return &BundleHandler{svc: svc}
}

// CreateBundleRequest is the body of POST /invoice-bundles. Members bundle their own invoices;
// staff name the member.
type CreateBundleRequest struct {
	MemberID   uint   `json:"member_id"`
	InvoiceIDs []uint `json:"invoice_ids" binding:"required,min=2"`
}

func (h *BundleHandler) CreateBundle(c *gin.Context) {
	op, ok := middleware.CurrentOperator(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req CreateBundleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "ValidationFailed"})
		return
	}

	memberID := req.MemberID
	if !op.IsStaff() {
		if op.MemberID == nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is not linked to a member", "code": "Forbidden"})
			return
		}
		if memberID != 0 && memberID != *op.MemberID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Cannot bundle another member's invoices", "code": "Forbidden"})
			return
		}
		memberID = *op.MemberID
	}

	bundle, err := h.svc.CreateBundle(c.Request.Context(), memberID, req.InvoiceIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, bundle)
}
