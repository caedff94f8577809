package cmd

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/solarlink-recon/config"
	"github.com/yourusername/solarlink-recon/handlers"
	"github.com/yourusername/solarlink-recon/middleware"
	"github.com/yourusername/solarlink-recon/models"
	"github.com/yourusername/solarlink-recon/reconcile"
	"gorm.io/gorm"
)

// newRouter wires the HTTP API. cache may be nil.
func newRouter(conf *config.Config, db *gorm.DB, svc *reconcile.Service, cache middleware.OperatorCache) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "solarlink-recon",
		})
	})

	authHandler := handlers.NewAuthHandler(db, conf)
	router.POST("/api/v1/auth/refresh", authHandler.Refresh)

	api := router.Group("/api/v1")
	api.Use(middleware.JwtAuthMiddleware(conf), middleware.ResolveOperator(db, cache))
	{
		recon := handlers.NewReconciliationHandler(svc)
		staff := api.Group("", middleware.RequireRole(models.RoleAdmin, models.RoleOperator))
		staff.POST("/reconciliation/auto-match", recon.AutoMatch)
		staff.GET("/reconciliation/runs/:id", recon.GetRun)

		staff.POST("/payments", recon.CreatePayment)
		staff.GET("/payments/:id", recon.GetPayment)
		staff.POST("/payments/:id/approve", recon.ApprovePayment)
		staff.POST("/payments/:id/reject", recon.RejectPayment)

		staff.GET("/bank-transactions/unmatched", recon.ListUnmatchedTransactions)
		staff.GET("/bank-transactions/:id/candidates", recon.ListCandidates)
		staff.GET("/invoices/unpaid", recon.ListUnpaidInvoices)
		staff.GET("/invoice-bundles/unpaid", recon.ListUnpaidBundles)

		bundles := handlers.NewBundleHandler(svc)
		api.POST("/invoice-bundles", middleware.RequireRole(models.RoleMember, models.RoleAdmin), bundles.CreateBundle)
	}

	return router
}
