package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/aaraaapps/aaraa.app/config"
	"github.com/aaraaapps/aaraa.app/model"
	"github.com/aaraaapps/aaraa.app/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const sessionKey = "session"

// Claims represents the JWT claims. RegisteredClaims.ID is the session id.
type Claims struct {
	EmployeeID string     `json:"employee_id"`
	Role       model.Role `json:"role"`
	Department string     `json:"department"`
	jwt.RegisteredClaims
}

// EmployeeLookup resolves the employee behind a token
type EmployeeLookup interface {
	FindEmployee(ctx context.Context, id string) (*model.Employee, error)
}

// GenerateToken issues a session token for an employee and returns the
// token, its session id and its expiry.
func GenerateToken(e *model.Employee, cfg *config.AuthConfig) (string, string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(time.Duration(cfg.TokenExpireHours) * time.Hour)
	sessionID := uuid.NewString()

	claims := Claims{
		EmployeeID: e.ID,
		Role:       e.Role,
		Department: e.Department,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Subject:   e.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		return "", "", time.Time{}, err
	}

	return tokenString, sessionID, expiresAt, nil
}

// ParseToken validates a token string and returns its claims
func ParseToken(tokenString string, cfg *config.AuthConfig) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.ID == "" {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// Revocations remembers logged-out session ids until their tokens expire
type Revocations struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewRevocations() *Revocations {
	return &Revocations{revoked: make(map[string]time.Time), now: time.Now}
}

func (r *Revocations) Revoke(sessionID string, until time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[sessionID] = until
}

func (r *Revocations) IsRevoked(sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for id, until := range r.revoked {
		if now.After(until) {
			delete(r.revoked, id)
		}
	}
	_, ok := r.revoked[sessionID]
	return ok
}

func bearerToken(c *gin.Context) (string, string) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", "Authorization header required"
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", "Invalid authorization header format"
	}
	return parts[1], ""
}

// AuthMiddleware validates the bearer token, resolves the employee and
// stores the session in the gin context.
func AuthMiddleware(cfg *config.AuthConfig, employees EmployeeLookup, revoked *Revocations) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, problem := bearerToken(c)
		if problem != "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": problem})
			return
		}

		claims, err := ParseToken(tokenString, cfg)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		if revoked != nil && revoked.IsRevoked(claims.ID) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session has ended"})
			return
		}

		employee, err := employees.FindEmployee(c.Request.Context(), claims.EmployeeID)
		if err != nil {
			slog.Warn("token for unknown employee",
				"employee_id", claims.EmployeeID,
				"request_id", GetRequestID(c),
				"error", err,
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(sessionKey, &model.Session{ID: claims.ID, Employee: *employee})
		c.Set("token_expiry", claims.ExpiresAt.Time)
		c.Request = c.Request.WithContext(logger.WithEmployee(c.Request.Context(), employee.ID, claims.ID))

		c.Next()
	}
}

// RequireFeature lets the request through only when the session's role may
// reach the feature.
func RequireFeature(key string) gin.HandlerFunc {
	feature, ok := model.FindFeature(key)
	if !ok {
		panic(fmt.Sprintf("unknown feature %q", key))
	}

	return func(c *gin.Context) {
		session := GetSession(c)
		if session == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}
		if !feature.Allows(session.Employee.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: " + feature.Label + " is not available for your role"})
			return
		}
		c.Next()
	}
}

// GetSession gets the authenticated session from context
func GetSession(c *gin.Context) *model.Session {
	if v, exists := c.Get(sessionKey); exists {
		if s, ok := v.(*model.Session); ok {
			return s
		}
	}
	return nil
}

// GetTokenExpiry gets the expiry of the token that authenticated the request
func GetTokenExpiry(c *gin.Context) time.Time {
	if v, exists := c.Get("token_expiry"); exists {
		if t, ok := v.(time.Time); ok {
			return t
		}
	}
	return time.Time{}
}
