package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go-zampay/internal/shared/apperror"
	"go-zampay/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	idempotencyPendingTTL  = 1 * time.Hour
	idempotencyReplayTTL   = 24 * time.Hour
	idempotencyPendingMark = "__pending__"
)

type idempotentResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

type bodyCaptureWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyCaptureWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response for a repeated Idempotency-Key so
// retried payroll mutations do not run twice. Requests without the header
// pass through untouched.
func Idempotency(rdb *redis.Client, logger *zap.Logger) gin.HandlerFunc {
	l := logger.Named("middleware.idempotency")
	return func(c *gin.Context) {
		key := c.GetHeader("Idempotency-Key")
		if key == "" || rdb == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		redisKey := "idempotency:" + c.GetString("company_id") + ":" +
			c.Request.Method + ":" + c.FullPath() + ":" + key

		stored, err := rdb.Get(ctx, redisKey).Result()
		if err == nil {
			if stored == idempotencyPendingMark {
				response.Error(c, http.StatusConflict, apperror.CodeConflict,
					"A request with this idempotency key is still in flight", nil)
				c.Abort()
				return
			}
			var cached idempotentResponse
			if err := json.Unmarshal([]byte(stored), &cached); err == nil {
				c.Header("X-Idempotent-Replay", "true")
				c.Data(cached.Status, "application/json; charset=utf-8", cached.Body)
				c.Abort()
				return
			}
		} else if !errors.Is(err, redis.Nil) {
			// Redis down: let the request through rather than block mutations.
			l.Warn("idempotency lookup failed", zap.Error(err))
			c.Next()
			return
		}

		ok, err := rdb.SetNX(ctx, redisKey, idempotencyPendingMark, idempotencyPendingTTL).Result()
		if err != nil {
			l.Warn("idempotency reserve failed", zap.Error(err))
			c.Next()
			return
		}
		if !ok {
			response.Error(c, http.StatusConflict, apperror.CodeConflict,
				"A request with this idempotency key is still in flight", nil)
			c.Abort()
			return
		}

		writer := &bodyCaptureWriter{ResponseWriter: c.Writer}
		c.Writer = writer

		c.Next()

		status := c.Writer.Status()
		if status >= http.StatusInternalServerError {
			// Do not pin a server failure; the client may retry.
			if err := rdb.Del(ctx, redisKey).Err(); err != nil {
				l.Warn("idempotency release failed", zap.Error(err))
			}
			return
		}

		body := writer.buf.Bytes()
		if len(body) == 0 {
			body = []byte("null")
		}
		payload, err := json.Marshal(idempotentResponse{
			Status: status,
			Body:   json.RawMessage(body),
		})
		if err != nil {
			return
		}
		if err := rdb.Set(ctx, redisKey, payload, idempotencyReplayTTL).Err(); err != nil {
			l.Warn("idempotency store failed", zap.Error(err))
		}
	}
}
