package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/solarlink-recon/middleware"
	"github.com/yourusername/solarlink-recon/models"
)

func TestRefresh(t *testing.T) {
	s := newTestServer(t)
	active := s.fx.User(models.RoleOperator, nil)
	inactive := s.fx.User(models.RoleOperator, nil)
	require.NoError(t, s.db.Model(inactive).Update("is_active", false).Error)

	refreshFor := func(u *models.User, secret string) string {
		token, err := middleware.GenerateToken(u.ID, u.Role, secret, time.Hour)
		require.NoError(t, err)
		return token
	}

	tests := []struct {
		name           string
		refreshToken   string
		expectedStatus int
	}{
		{"valid refresh token", refreshFor(active, s.cfg.JWTRefreshSecret), http.StatusOK},
		{"access token is not a refresh token", refreshFor(active, s.cfg.JWTSecret), http.StatusUnauthorized},
		{"inactive user", refreshFor(inactive, s.cfg.JWTRefreshSecret), http.StatusForbidden},
		{"unknown user", refreshFor(&models.User{ID: 9999, Role: models.RoleAdmin}, s.cfg.JWTRefreshSecret), http.StatusUnauthorized},
		{"garbage", "not.a.token", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/auth/refresh", "", map[string]string{"refresh_token": tt.refreshToken})
			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedStatus != http.StatusOK {
				return
			}
			var body struct {
				AccessToken string `json:"access_token"`
				Role        string `json:"role"`
			}
			decode(t, w, &body)
			assert.Equal(t, models.RoleOperator, body.Role)

			claims, err := middleware.ParseToken(body.AccessToken, s.cfg.JWTSecret)
			require.NoError(t, err)
			assert.Equal(t, active.ID, claims.UserID)
		})
	}

	w := s.do(t, http.MethodPost, "/auth/refresh", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
