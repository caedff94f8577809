package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/solarlink-recon/ledger/ledgertest"
	"github.com/yourusername/solarlink-recon/models"
)

type mapCache struct {
	ops  map[uint]Operator
	hits int
}

func (m *mapCache) Get(_ context.Context, userID uint) (*Operator, error) {
	op, ok := m.ops[userID]
	if !ok {
		return nil, nil
	}
	m.hits++
	return &op, nil
}

func (m *mapCache) Set(_ context.Context, op Operator) error {
	m.ops[op.UserID] = op
	return nil
}

func TestOperatorIsStaff(t *testing.T) {
	tests := []struct {
		role string
		want bool
	}{
		{models.RoleAdmin, true},
		{models.RoleOperator, true},
		{models.RoleMember, false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			assert.Equal(t, tt.want, Operator{UserID: 1, Role: tt.role}.IsStaff())
		})
	}
}

func TestResolveOperator(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := ledgertest.NewDB(t)
	fx := ledgertest.NewFixtures(t, db)

	member := fx.Member("山田工務店", "", "")
	staff := fx.User(models.RoleOperator, nil)
	buyer := fx.User(models.RoleMember, &member.ID)
	inactive := fx.User(models.RoleAdmin, nil)
	require.NoError(t, db.Model(inactive).Update("is_active", false).Error)

	cache := &mapCache{ops: map[uint]Operator{}}

	tests := []struct {
		name           string
		userID         uint
		expectedStatus int
		expectedRole   string
	}{
		{"staff user", staff.ID, http.StatusOK, models.RoleOperator},
		{"member user", buyer.ID, http.StatusOK, models.RoleMember},
		{"inactive user", inactive.ID, http.StatusForbidden, ""},
		{"unknown user", 9999, http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(func(c *gin.Context) {
				c.Set("userID", tt.userID)
				c.Set("role", models.RoleAdmin)
				c.Next()
			})
			router.Use(ResolveOperator(db, cache))
			router.GET("/me", func(c *gin.Context) {
				op, ok := CurrentOperator(c)
				require.True(t, ok)
				role, _ := c.Get("role")
				c.JSON(http.StatusOK, gin.H{"user_id": op.UserID, "role": role, "member_id": op.MemberID})
			})

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/me", nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus != http.StatusOK {
				return
			}
			var body struct {
				UserID   uint   `json:"user_id"`
				Role     string `json:"role"`
				MemberID *uint  `json:"member_id"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.userID, body.UserID)
			assert.Equal(t, tt.expectedRole, body.Role)
		})
	}

	assert.Len(t, cache.ops, 2)
	require.NotNil(t, cache.ops[buyer.ID].MemberID)
	assert.Equal(t, member.ID, *cache.ops[buyer.ID].MemberID)

	// A second request is answered from the cache.
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userID", staff.ID)
		c.Next()
	})
	router.Use(ResolveOperator(db, cache))
	router.GET("/me", func(c *gin.Context) { c.Status(http.StatusOK) })
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/me", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, cache.hits)
}

func TestResolveOperatorWithoutUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := ledgertest.NewDB(t)

	router := gin.New()
	router.Use(ResolveOperator(db, nil))
	router.GET("/me", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/me", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestLogger())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
	router.ServeHTTP(w, req)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}
