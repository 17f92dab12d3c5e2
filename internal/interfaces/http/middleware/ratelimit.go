package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eridehero/eridehero/internal/infrastructure/ratelimit"
	"github.com/eridehero/eridehero/internal/shared/logger"
	"github.com/eridehero/eridehero/internal/shared/utils"
)

type RateLimitMiddleware struct {
	limiter ratelimit.RateLimiter
	logger  logger.Interface
}

func NewRateLimitMiddleware(limiter ratelimit.RateLimiter, logger logger.Interface) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: limiter,
		logger:  logger,
	}
}

// ForAction limits the wrapped route per client IP. Limiter failures pass
// the request through rather than locking users out.
func (m *RateLimitMiddleware) ForAction(action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identifier := utils.ClientIP(c.Request)

		result, err := m.limiter.CheckAndRecord(c.Request.Context(), action, identifier)
		if err != nil {
			m.logger.Warnw("rate limiter unavailable", "action", action, "error", err)
			c.Next()
			return
		}

		if !result.Allowed {
			m.logger.Infow("rate limit exceeded",
				"action", action,
				"identifier", identifier,
				"attempts", result.Attempts)
			utils.ErrorResponse(c, http.StatusTooManyRequests, result.Message)
			c.Abort()
			return
		}

		c.Next()
	}
}
