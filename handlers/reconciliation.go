package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/yourusername/solarlink-recon/middleware"
	"github.com/yourusername/solarlink-recon/reconcile"
)

const defaultCandidateLimit = 10

type ReconciliationHandler struct {
	svc *reconcile.Service
}

func NewReconciliationHandler(svc *reconcile.Service) *ReconciliationHandler {
	return &ReconciliationHandler{svc: svc}
}

// CreatePaymentRequest is the body of POST /payments. Exactly one of invoice_id or bundle_id.
type CreatePaymentRequest struct {
	InvoiceID *uint            `json:"invoice_id"`
	BundleID  *uint            `json:"bundle_id"`
	BankTxnID *uint            `json:"bank_txn_id"`
	Amount    *decimal.Decimal `json:"amount" binding:"required"`
	Note      string           `json:"note"`
}

type ReviewPaymentRequest struct {
	Note string `json:"note"`
}

type RejectPaymentRequest struct {
	Reason string `json:"reason"`
}

func (h *ReconciliationHandler) AutoMatch(c *gin.Context) {
	op, ok := middleware.CurrentOperator(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	summary, err := h.svc.RunAutoMatch(c.Request.Context(), &op.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *ReconciliationHandler) GetRun(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid run id", "code": "ValidationFailed"})
		return
	}
	run, err := h.svc.Run(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

func (h *ReconciliationHandler) CreatePayment(c *gin.Context) {
	op, ok := middleware.CurrentOperator(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "ValidationFailed"})
		return
	}

	res, err := h.svc.CreateManualPayment(c.Request.Context(), reconcile.ManualPaymentInput{
		InvoiceID:  req.InvoiceID,
		BundleID:   req.BundleID,
		BankTxnID:  req.BankTxnID,
		Amount:     req.Amount,
		Note:       req.Note,
		OperatorID: op.UserID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *ReconciliationHandler) GetPayment(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	payment, err := h.svc.Payment(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

func (h *ReconciliationHandler) ApprovePayment(c *gin.Context) {
	op, ok := middleware.CurrentOperator(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req ReviewPaymentRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	payment, err := h.svc.ApprovePayment(c.Request.Context(), id, op.UserID, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

func (h *ReconciliationHandler) RejectPayment(c *gin.Context) {
	op, ok := middleware.CurrentOperator(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req RejectPaymentRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	payment, err := h.svc.RejectPayment(c.Request.Context(), id, op.UserID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

func (h *ReconciliationHandler) ListUnmatchedTransactions(c *gin.Context) {
	txns, err := h.svc.UnmatchedTransactions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": txns, "count": len(txns)})
}

func (h *ReconciliationHandler) ListCandidates(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	limit := defaultCandidateLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer", "code": "ValidationFailed"})
			return
		}
		limit = n
	}

	suggestions, err := h.svc.SuggestCandidates(c.Request.Context(), id, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": suggestions, "count": len(suggestions)})
}

func (h *ReconciliationHandler) ListUnpaidInvoices(c *gin.Context) {
	invoices, err := h.svc.UnpaidInvoices(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": invoices, "count": len(invoices)})
}

func (h *ReconciliationHandler) ListUnpaidBundles(c *gin.Context) {
	bundles, err := h.svc.UnpaidBundles(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": bundles, "count": len(bundles)})
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name, "code": "ValidationFailed"})
		return 0, false
	}
	return uint(v), true
}

// bindOptionalJSON accepts an empty body.
func bindOptionalJSON(c *gin.Context, dst interface{}) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "ValidationFailed"})
		return false
	}
	return true
}
