package httpx

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/teetananch67-commits/Tanny/internal/auth"
)

const (
	AccessCookie  = "access_token"
	RefreshCookie = "refresh_token"

	ctxUserID = "userID"
	ctxRole   = "role"
)

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set("rid", rid)
		c.Writer.Header().Set("X-Request-ID", rid)
		c.Next()
	}
}

func Logger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		rid, _ := c.Get("rid")
		log.WithFields(logrus.Fields{
			"rid":    rid,
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": c.Writer.Status(),
			"dur":    time.Since(start).String(),
		}).Info("http request")
	}
}

// Auth resolves (userID, role) from the access_token cookie. Handlers never
// authenticate; they only consume the identity set here.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(AccessCookie)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		claims, err := auth.VerifyToken(token, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			return
		}
		SetIdentity(c, claims.UserID, claims.Role)
		c.Next()
	}
}

func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got, ok := c.Get(ctxRole)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		if got != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user id set by Auth.
func UserID(c *gin.Context) int64 {
	v, _ := c.Get(ctxUserID)
	id, _ := v.(int64)
	return id
}

func Role(c *gin.Context) string {
	v, _ := c.Get(ctxRole)
	r, _ := v.(string)
	return r
}

// SetIdentity stores the resolved identity on the request context.
func SetIdentity(c *gin.Context, userID int64, role string) {
	c.Set(ctxUserID, userID)
	c.Set(ctxRole, role)
}
