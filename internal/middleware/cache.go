package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"customer-svc/internal/loaders"
	"customer-svc/internal/utils"
)

// CacheVersion namespaces cache keys. Bumping it at deploy time is the only
// invalidation mechanism, mirroring a cache-name version bump.
const CacheVersion = "customer-api-v2"

// ReadThrough is a best-effort availability cache for GET responses: every
// successful body is stored under the request URI, and when the backend fails
// with a 5xx the last stored body for that URI is served instead. There is no
// staleness bound beyond the TTL. A nil client disables the middleware.
func ReadThrough(rdb *loaders.RedisClient, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := CacheVersion + ":" + c.Request.URL.RequestURI()
		w := &bufferedWriter{ResponseWriter: c.Writer, status: http.StatusOK}
		c.Writer = w
		c.Next()
		c.Writer = w.ResponseWriter

		ctx := c.Request.Context()

		if w.status >= http.StatusInternalServerError {
			if body, err := rdb.Get(ctx, key).Bytes(); err == nil {
				utils.Zlog.Warn("Serving cached response after backend failure",
					zap.String("key", key),
					zap.Int("failedStatus", w.status))
				w.ResponseWriter.Header().Set("Content-Type", "application/json")
				w.ResponseWriter.WriteHeader(http.StatusOK)
				_, _ = w.ResponseWriter.Write(body)
				return
			}
		}

		if w.status == http.StatusOK {
			if err := rdb.Set(ctx, key, w.body, ttl).Err(); err != nil {
				utils.Zlog.Warn("Failed to store response in cache",
					zap.String("key", key),
					zap.Error(err))
			}
		}

		w.ResponseWriter.WriteHeader(w.status)
		_, _ = w.ResponseWriter.Write(w.body)
	}
}

// bufferedWriter holds back the response so the middleware can decide between
// the handler's output and a cached copy after the handler returns.
type bufferedWriter struct {
	gin.ResponseWriter
	status int
	body   []byte
}

func (w *bufferedWriter) WriteHeader(status int) {
	w.status = status
}

func (w *bufferedWriter) WriteHeaderNow() {}

func (w *bufferedWriter) Write(b []byte) (int, error) {
	w.body = append(w.body, b...)
	return len(b), nil
}

func (w *bufferedWriter) WriteString(s string) (int, error) {
	w.body = append(w.body, s...)
	return len(s), nil
}

func (w *bufferedWriter) Status() int {
	return w.status
}

func (w *bufferedWriter) Size() int {
	return len(w.body)
}

func (w *bufferedWriter) Written() bool {
	return len(w.body) > 0
}
