package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/yourusername/solarlink-recon/logger"
	"github.com/yourusername/solarlink-recon/models"
	"gorm.io/gorm"
)

// Operator is the authenticated user acting on the ledger. MemberID is set for member accounts.
type Operator struct {
	UserID   uint   `json:"user_id"`
	Role     string `json:"role"`
	MemberID *uint  `json:"member_id,omitempty"`
}

// IsStaff reports whether the operator may reconcile payments.
func (o Operator) IsStaff() bool {
	return o.Role == models.RoleAdmin || o.Role == models.RoleOperator
}

// OperatorCache keeps resolved operators between requests.
type OperatorCache interface {
	Get(ctx context.Context, userID uint) (*Operator, error)
	Set(ctx context.Context, op Operator) error
}

const operatorCacheTTL = 5 * time.Minute

// RedisOperatorCache stores operators as JSON under user:<id>:operator.
type RedisOperatorCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisOperatorCache(client *redis.Client) *RedisOperatorCache {
	return &RedisOperatorCache{client: client, ttl: operatorCacheTTL}
}

func operatorKey(userID uint) string {
	return fmt.Sprintf("user:%d:operator", userID)
}

// Get returns nil, nil on a cache miss.
func (r *RedisOperatorCache) Get(ctx context.Context, userID uint) (*Operator, error) {
	raw, err := r.client.Get(ctx, operatorKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var op Operator
	if err := json.Unmarshal([]byte(raw), &op); err != nil {
		return nil, err
	}
	return &op, nil
}

func (r *RedisOperatorCache) Set(ctx context.Context, op Operator) error {
	raw, err := json.Marshal(op)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, operatorKey(op.UserID), raw, r.ttl).Err()
}

// ResolveOperator loads the user named by the token and rejects unknown or inactive accounts.
// The role stored on the user wins over the role in the token. cache may be nil.
func ResolveOperator(db *gorm.DB, cache OperatorCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.WithComponent("auth")
		rawID, exists := c.Get(ctxUserID)
		userID, ok := rawID.(uint)
		if !exists || !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
			return
		}

		ctx := c.Request.Context()
		if cache != nil {
			op, err := cache.Get(ctx, userID)
			if err != nil {
				log.Warn().Err(err).Uint("user_id", userID).Msg("Operator cache read failed")
			}
			if op != nil {
				setOperator(c, *op)
				c.Next()
				return
			}
		}

		var user models.User
		if err := db.WithContext(ctx).First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found", "code": "InvalidToken"})
				return
			}
			log.Error().Err(err).Uint("user_id", userID).Msg("Could not load user")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not load user"})
			return
		}
		if !user.IsActive {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "User account is inactive", "code": "Inactive"})
			return
		}

		op := Operator{UserID: user.ID, Role: user.Role, MemberID: user.MemberID}
		if cache != nil {
			if err := cache.Set(ctx, op); err != nil {
				log.Warn().Err(err).Uint("user_id", userID).Msg("Operator cache write failed")
			}
		}
		setOperator(c, op)
		c.Next()
	}
}

func setOperator(c *gin.Context, op Operator) {
	c.Set(ctxOperator, op)
	c.Set(ctxRole, op.Role)
}

// CurrentOperator returns the operator set by ResolveOperator.
func CurrentOperator(c *gin.Context) (Operator, bool) {
	v, exists := c.Get(ctxOperator)
	if !exists {
		return Operator{}, false
	}
	op, ok := v.(Operator)
	return op, ok
}
