package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyHeader = "Idempotency-Key"
	idempotencyTTL    = 24 * time.Hour
)

// storedReply is the replayable part of a response.
type storedReply struct {
	Status      int             `json:"status"`
	ContentType string          `json:"content_type"`
	Body        json.RawMessage `json:"body"`
}

type captureWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response when a mutating request repeats
// the same Idempotency-Key. The key is scoped to method and path so reusing
// a key across endpoints does not cross-replay. A client that retries a
// dispatch because of a timeout gets the first response back, not a 409.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
		default:
			c.Next()
			return
		}

		key := c.GetHeader(idempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		storeKey := "idempotency:" + c.Request.Method + ":" + c.Request.URL.Path + ":" + key

		data, err := rdb.Get(ctx, storeKey).Bytes()
		if err == nil {
			var reply storedReply
			if json.Unmarshal(data, &reply) == nil {
				c.Data(reply.Status, reply.ContentType, reply.Body)
				c.Abort()
				return
			}
		} else if err != redis.Nil {
			// Redis unavailable, serve the request without the guarantee.
			c.Next()
			return
		}

		w := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = w

		c.Next()

		status := c.Writer.Status()
		if status >= 200 && status < 500 {
			reply := storedReply{
				Status:      status,
				ContentType: c.Writer.Header().Get("Content-Type"),
				Body:        w.buf.Bytes(),
			}
			if encoded, err := json.Marshal(reply); err == nil {
				_ = rdb.Set(ctx, storeKey, encoded, idempotencyTTL).Err()
			}
		}
	}
}
