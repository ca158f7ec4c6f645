package core

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// NewRouter constructs the Gin engine with routes wired. db and redisClient
// feed the /status endpoint only and may be nil in tests.
func NewRouter(cfg Config, codec *TokenCodec, authService AuthService, users UserRepository, records RecordRepository, cache *RecordCache, db *pgxpool.Pool, redisClient *redis.Client) *gin.Engine {
	startedAt := time.Now()
	r := gin.Default()

	// Global middleware: error funnel first so it wraps everything.
	r.Use(ErrorMiddleware())
	r.Use(CORSMiddleware(cfg))

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Hello World")
	})

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/status", func(c *gin.Context) {
		st := CollectServiceStatus(c.Request.Context(), db, redisClient, startedAt)
		c.JSON(http.StatusOK, st)
	})

	user := r.Group("/user")
	{
		user.POST("/new", func(c *gin.Context) {
			var req struct {
				Name     string `json:"name"`
				Username string `json:"username"`
				Password string `json:"password"`
			}
			if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" || req.Username == "" || req.Password == "" {
				abortWithError(c, Validation("Please fill in all fields"))
				return
			}

			ctx := c.Request.Context()
			existing, err := users.FindByUsername(ctx, req.Username)
			if err != nil {
				abortWithError(c, err)
				return
			}
			if existing != nil {
				// Registering an already-taken username silently logs the
				// caller in as that user, with no password check. Kept for
				// client compatibility.
				sendToken(c, cfg, codec, existing, http.StatusOK, "Welcome Back, "+existing.Name)
				return
			}

			digest, err := hashPassword(req.Password)
			if err != nil {
				abortWithError(c, err)
				return
			}
			created, err := users.Create(ctx, req.Name, req.Username, digest)
			if err != nil {
				abortWithError(c, err)
				return
			}
			sendToken(c, cfg, codec, created, http.StatusCreated, "User created")
		})

		user.POST("/login", func(c *gin.Context) {
			var req struct {
				Username string `json:"username"`
				Password string `json:"password"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				abortWithError(c, Validation("Please fill in all fields"))
				return
			}

			u, err := authService.Authenticate(c.Request.Context(), req.Username, req.Password)
			if err != nil {
				if errors.Is(err, ErrInvalidCredentials) {
					abortWithError(c, NotFound("Invalid Username or Password"))
					return
				}
				abortWithError(c, err)
				return
			}
			sendToken(c, cfg, codec, u, http.StatusOK, "Welcome Back, "+u.Name)
		})

		authed := user.Group("", RequireAuth(codec))

		authed.GET("/logout", func(c *gin.Context) {
			clearSessionCookie(c, cfg)
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out successfully"})
		})

		authed.DELETE("/sleep/:userId", func(c *gin.Context) {
			ctx := c.Request.Context()
			u, err := users.FindByID(ctx, c.Param("userId"))
			if err != nil {
				abortWithError(c, err)
				return
			}
			if u == nil {
				abortWithError(c, NotFound("User does not exists"))
				return
			}
			if err := users.Delete(ctx, u.ID); err != nil {
				abortWithError(c, err)
				return
			}
			// Records go with the user (cascade); drop any cached list.
			cache.Invalidate(ctx, u.ID)
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "User deleted successfully"})
		})

		authed.PUT("/sleep/:userId", func(c *gin.Context) {
			ctx := c.Request.Context()
			u, err := users.FindByID(ctx, c.Param("userId"))
			if err != nil {
				abortWithError(c, err)
				return
			}
			if u == nil {
				abortWithError(c, NotFound("User does not exists"))
				return
			}

			var req struct {
				Name     string `json:"name"`
				Username string `json:"username"`
				Password string `json:"password"`
			}
			if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" || req.Username == "" || req.Password == "" {
				abortWithError(c, Validation("Please fill in all fields"))
				return
			}

			taken, err := users.FindByUsername(ctx, req.Username)
			if err != nil {
				abortWithError(c, err)
				return
			}
			if taken != nil {
				abortWithError(c, Conflict("This username is already taken"))
				return
			}

			digest, err := hashPassword(req.Password)
			if err != nil {
				abortWithError(c, err)
				return
			}
			if err := users.Update(ctx, u.ID, req.Name, req.Username, digest); err != nil {
				abortWithError(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "User updated successfully"})
		})

		authed.GET("/sleep/:userId", func(c *gin.Context) {
			ctx := c.Request.Context()
			u, err := users.FindByID(ctx, c.Param("userId"))
			if err != nil {
				abortWithError(c, err)
				return
			}
			if u == nil {
				abortWithError(c, NotFound("User does not exists"))
				return
			}

			if cached, ok := cache.Get(ctx, u.ID); ok {
				c.JSON(http.StatusOK, gin.H{"success": true, "message": "User records fetched successfully", "data": cached})
				return
			}

			list, err := records.FindByUser(ctx, u.ID)
			if err != nil {
				abortWithError(c, err)
				return
			}
			cache.Put(ctx, u.ID, list)
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "User records fetched successfully", "data": list})
		})
	}

	record := r.Group("/record", RequireAuth(codec))
	{
		record.POST("/sleep", func(c *gin.Context) {
			var req struct {
				Hours          float64 `json:"hours"`
				StartTimestamp string  `json:"startTimestamp"`
			}
			if err := c.ShouldBindJSON(&req); err != nil || req.Hours == 0 || req.StartTimestamp == "" {
				abortWithError(c, Validation("Please fill in all fields"))
				return
			}

			start, end, err := deriveInterval(req.Hours, req.StartTimestamp)
			if err != nil {
				abortWithError(c, err)
				return
			}

			ctx := c.Request.Context()
			rec, err := records.Create(ctx, currentUserID(c), req.Hours, start, end)
			if err != nil {
				abortWithError(c, err)
				return
			}
			cache.Invalidate(ctx, rec.UserID)
			c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Record created successfully", "record": rec})
		})

		record.GET("/sleep/:recordId", func(c *gin.Context) {
			rec, err := records.FindByID(c.Request.Context(), c.Param("recordId"))
			if err != nil {
				abortWithError(c, err)
				return
			}
			if rec == nil {
				abortWithError(c, NotFound("No record with such ID exists"))
				return
			}
			if err := authorizeOwner(currentUserID(c), rec.UserID); err != nil {
				abortWithError(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"success": true, "record": rec})
		})

		record.PUT("/sleep/:recordId", func(c *gin.Context) {
			ctx := c.Request.Context()
			rec, err := records.FindByID(ctx, c.Param("recordId"))
			if err != nil {
				abortWithError(c, err)
				return
			}
			if rec == nil {
				abortWithError(c, NotFound("No record with such ID exists"))
				return
			}
			if err := authorizeOwner(currentUserID(c), rec.UserID); err != nil {
				abortWithError(c, err)
				return
			}

			// Both fields must be re-supplied on update; partial updates of
			// only one are not supported.
			var req struct {
				Hours          float64 `json:"hours"`
				StartTimestamp string  `json:"startTimestamp"`
			}
			if err := c.ShouldBindJSON(&req); err != nil || req.Hours == 0 || req.StartTimestamp == "" {
				abortWithError(c, Validation("Please fill in all fields"))
				return
			}

			start, end, err := deriveInterval(req.Hours, req.StartTimestamp)
			if err != nil {
				abortWithError(c, err)
				return
			}

			updated, err := records.Update(ctx, rec.ID, req.Hours, start, end)
			if err != nil {
				abortWithError(c, err)
				return
			}
			if updated == nil {
				abortWithError(c, NotFound("No record with such ID exists"))
				return
			}
			cache.Invalidate(ctx, rec.UserID)
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "Record updated successfully", "record": updated})
		})

		record.DELETE("/sleep/:recordId", func(c *gin.Context) {
			ctx := c.Request.Context()
			rec, err := records.FindByID(ctx, c.Param("recordId"))
			if err != nil {
				abortWithError(c, err)
				return
			}
			if rec == nil {
				abortWithError(c, NotFound("No record with such ID exists"))
				return
			}
			if err := authorizeOwner(currentUserID(c), rec.UserID); err != nil {
				abortWithError(c, err)
				return
			}
			if err := records.Delete(ctx, rec.ID); err != nil {
				abortWithError(c, err)
				return
			}
			cache.Invalidate(ctx, rec.UserID)
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "Record deleted successfully"})
		})
	}

	return r
}

// sendToken issues a session token for the user, sets it as the session
// cookie, and writes the auth success envelope.
func sendToken(c *gin.Context, cfg Config, codec *TokenCodec, u *User, status int, message string) {
	token, err := codec.Issue(u.ID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	setSessionCookie(c, cfg, token, sessionCookieMaxAge)
	c.JSON(status, gin.H{"success": true, "user": u, "message": message})
}

// setSessionCookie applies the fixed cookie attributes: HttpOnly, Secure
// (configurable for local development), SameSite=None for cross-site use.
func setSessionCookie(c *gin.Context, cfg Config, value string, maxAge int) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(sessionCookieName, value, maxAge, "/", "", cfg.CookieSecure, true)
}

// clearSessionCookie reissues the cookie with an empty value and no lifetime.
func clearSessionCookie(c *gin.Context, cfg Config) {
	setSessionCookie(c, cfg, "", -1)
}
