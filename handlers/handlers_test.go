package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/solarlink-recon/config"
	"github.com/yourusername/solarlink-recon/ledger"
	"github.com/yourusername/solarlink-recon/ledger/ledgertest"
	"github.com/yourusername/solarlink-recon/middleware"
	"github.com/yourusername/solarlink-recon/models"
	"github.com/yourusername/solarlink-recon/reconcile"
	"github.com/yourusername/solarlink-recon/settings"
	"gorm.io/gorm"
)

var txnDate = time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC)

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
	fx     *ledgertest.Fixtures
	cfg    *config.Config
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{JWTSecret: "access-secret", JWTRefreshSecret: "refresh-secret"}
	db := ledgertest.NewDB(t)
	prefs := settings.NewStore(db, settings.Defaults{
		PaymentTolerance: ledgertest.Yen(1000),
		TaxRate:          decimal.RequireFromString("0.10"),
	})
	svc := reconcile.NewService(ledger.NewStore(db), prefs, nil)

	router := gin.New()
	router.POST("/auth/refresh", NewAuthHandler(db, cfg).Refresh)

	api := router.Group("/api/v1")
	api.Use(middleware.JwtAuthMiddleware(cfg), middleware.ResolveOperator(db, nil))

	recon := NewReconciliationHandler(svc)
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

	bundles := NewBundleHandler(svc)
	api.POST("/invoice-bundles", middleware.RequireRole(models.RoleMember, models.RoleAdmin), bundles.CreateBundle)

	return &testServer{router: router, db: db, fx: ledgertest.NewFixtures(t, db), cfg: cfg}
}

func (s *testServer) token(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := middleware.GenerateToken(user.ID, user.Role, s.cfg.JWTSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst), w.Body.String())
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	decode(t, w, &body)
	return body.Code
}
