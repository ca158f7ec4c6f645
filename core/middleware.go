package core

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const sessionCookieName = "Noise"
const sessionCookieMaxAge = 15 * 24 * 60 * 60 // 15 days

const ctxUserIDKey = "userID"

// RequireAuth resolves the caller identity from the session cookie and
// stores it in the request context. Requests without a valid token are
// rejected before the handler body runs; codec internals never reach the
// client.
func RequireAuth(codec *TokenCodec) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(sessionCookieName)
		if err != nil || token == "" {
			abortWithError(c, Unauthenticated("Please login to access this route"))
			return
		}

		userID, err := codec.Verify(token)
		if err != nil {
			abortWithError(c, Unauthenticated("Please login to access this route"))
			return
		}

		c.Set(ctxUserIDKey, userID)
		c.Next()
	}
}

// currentUserID returns the identity resolved by RequireAuth.
func currentUserID(c *gin.Context) string {
	v, _ := c.Get(ctxUserIDKey)
	id, _ := v.(string)
	return id
}

// ErrorMiddleware is the single funnel turning any recorded failure into the
// uniform {"success": false, "message": ...} envelope. Handlers report
// failures with abortWithError and never write error responses themselves.
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 {
			return
		}
		status, message := classify(c.Errors[0].Err)
		c.JSON(status, gin.H{"success": false, "message": message})
	}
}

func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// CORSMiddleware reflects configured origins with credentials enabled; the
// session cookie is SameSite=None, so browsers require an explicit origin
// grant before they will send it cross-site.
func CORSMiddleware(cfg Config) gin.HandlerFunc {
	allowed := map[string]struct{}{}
	for _, o := range cfg.AllowedOrigins {
		allowed[strings.ToLower(o)] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := allowed[strings.ToLower(origin)]; ok {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
				c.Header("Access-Control-Allow-Credentials", "true")
				c.Header("Access-Control-Allow-Headers", "Content-Type")
				c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
