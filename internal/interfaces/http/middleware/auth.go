package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eridehero/eridehero/internal/infrastructure/auth"
	"github.com/eridehero/eridehero/internal/shared/logger"
	"github.com/eridehero/eridehero/internal/shared/utils"
)

// Context keys set by the auth middleware.
const (
	ContextKeyUserID    = "user_id"
	ContextKeySessionID = "session_id"
	ContextKeyUserRole  = "user_role"
)

type AuthMiddleware struct {
	jwtService *auth.JWTService
	logger     logger.Interface
}

func NewAuthMiddleware(jwtService *auth.JWTService, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		logger:     logger,
	}
}

// RequireAuth rejects requests without a valid access token. The token is
// read from the HttpOnly cookie first, with a Bearer header fallback.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := m.verify(c)
		if !ok {
			utils.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeySessionID, claims.SessionID)
		c.Set(ContextKeyUserRole, claims.Role)

		c.Next()
	}
}

// OptionalAuth populates user context when a valid token is present but
// never rejects.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := m.verify(c); ok {
			c.Set(ContextKeyUserID, claims.UserID)
			c.Set(ContextKeySessionID, claims.SessionID)
			c.Set(ContextKeyUserRole, claims.Role)
		}
		c.Next()
	}
}

func (m *AuthMiddleware) verify(c *gin.Context) (*auth.Claims, bool) {
	token := utils.GetTokenFromCookie(c, utils.AccessTokenCookie)

	if token == "" {
		authHeader := c.GetHeader("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			token = parts[1]
		}
	}
	if token == "" {
		return nil, false
	}

	claims, err := m.jwtService.Verify(token)
	if err != nil {
		m.logger.Debugw("token verification failed", "error", err)
		return nil, false
	}
	if claims.TokenType != auth.TokenTypeAccess {
		return nil, false
	}

	return claims, true
}

// GuestOnly rejects callers that already hold a valid session. Chained
// after OptionalAuth on login and register so a signed-in browser cannot
// re-enter the credential flows.
func GuestOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUserID(c) != 0 {
			utils.ErrorResponse(c, http.StatusBadRequest, "You are already signed in.")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUserID reads the authenticated user ID, 0 when anonymous.
func CurrentUserID(c *gin.Context) uint {
	if v, exists := c.Get(ContextKeyUserID); exists {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// CurrentSessionID reads the session ID bound to the access token.
func CurrentSessionID(c *gin.Context) string {
	if v, exists := c.Get(ContextKeySessionID); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// CurrentUserRole reads the authenticated user's role, "" when anonymous.
func CurrentUserRole(c *gin.Context) string {
	if v, exists := c.Get(ContextKeyUserRole); exists {
		if role, ok := v.(string); ok {
			return role
		}
	}
	return ""
}
