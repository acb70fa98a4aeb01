package middleware

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"expensetrack.backend/pkg/redis"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	// LockDuration is the time we hold the lock while processing
	LockDuration = 30 * time.Second
	// RetentionDuration is how long we keep the stored response
	RetentionDuration = 24 * time.Hour
)

var (
	redisGet   = redis.Get
	redisSet   = redis.Set
	redisSetNX = redis.SetNX
	redisDel   = redis.Del
)

type bodyCaptureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w bodyCaptureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// IdempotencyMiddleware replays the stored response for a repeated
// Idempotency-Key instead of running the mutation again. Keys are scoped
// per principal so users cannot collide with each other.
func IdempotencyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		var principalID int64
		if principal, ok := GetPrincipal(c); ok {
			principalID = principal.ID
		}
		storageKey := fmt.Sprintf("idempotency:%d:%s", principalID, key)

		ctx := c.Request.Context()
		val, err := redisGet(ctx, storageKey)
		if err == nil {
			if val == "processing" {
				c.AbortWithStatusJSON(http.StatusConflict, gin.H{
					"code":    http.StatusConflict,
					"message": "request already in progress",
				})
				return
			}
			c.Header("Content-Type", "application/json")
			c.Header("X-Idempotency-Hit", "true")
			c.String(http.StatusOK, val)
			c.Abort()
			return
		}

		acquired, err := redisSetNX(ctx, storageKey, "processing", LockDuration)
		if err != nil || !acquired {
			// redis down degrades to non-idempotent processing; a lost race
			// means someone else holds the lock
			if err == nil {
				c.AbortWithStatusJSON(http.StatusConflict, gin.H{
					"code":    http.StatusConflict,
					"message": "request already in progress",
				})
				return
			}
			c.Next()
			return
		}

		w := &bodyCaptureWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = w

		c.Next()

		if c.Writer.Status() >= 200 && c.Writer.Status() < 300 {
			_ = redisSet(ctx, storageKey, w.body.String(), RetentionDuration)
		} else {
			// failed requests may be retried
			_ = redisDel(ctx, storageKey)
		}
	}
}
