package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/credgate/credgate"
	"github.com/credgate/credgate/ratelimit"
)

// GinUserIDKey is the gin context key under which [GinGuard] stores the
// authenticated user ID.
const GinUserIDKey = "credgate.user_id"

// GinGuard is the gin flavor of [Guard].
func GinGuard(engine *credgate.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok || engine == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		userID, err := engine.Validate(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(GinUserIDKey, userID)
		c.Next()
	}
}

// GinThrottle is the gin flavor of [Throttle]. Deny decisions are logged;
// backend failures still deny and still answer 429.
func GinThrottle(limiter *ratelimit.Limiter, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		clientID := ratelimit.ClientIdentifier(
			c.GetHeader("X-User-ID"),
			c.GetHeader("X-Forwarded-For"),
		)

		if limiter == nil || !limiter.Admit(c.Request.Context(), c.Request.URL.Path, clientID) {
			logger.Warn("request throttled",
				zap.String("path", c.Request.URL.Path),
				zap.String("client", clientID),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}

		c.Next()
	}
}
