package middlewares

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const headerUserID = "X-User-Id"

// RequireIdentity extracts the caller id from the X-User-Id header set
// by the gateway. This service trusts the header; it issues no tokens.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(headerUserID)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":  "Missing " + headerUserID + " header",
				"status": http.StatusUnauthorized,
			})
			return
		}

		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":  "Invalid " + headerUserID + " header",
				"status": http.StatusUnauthorized,
			})
			return
		}

		c.Set(CtxUserID, id)

		c.Next()
	}
}

// UserIDFromContext so handlers don't need to know the magic key.
func UserIDFromContext(c *gin.Context) (int64, bool) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
