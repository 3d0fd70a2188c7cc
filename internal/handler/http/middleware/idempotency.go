package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/leave-management-go/internal/handler/http/response"
	"github.com/redis/go-redis/v9"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	ReplayedHeader    = "Idempotent-Replayed"

	idempotencyLockTTL   = 30 * time.Second
	idempotencyResultTTL = 24 * time.Hour
)

type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// captureWriter tees the response so it can be stored after the handler returns.
type captureWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (c *captureWriter) WriteHeader(status int) {
	c.status = status
	c.ResponseWriter.WriteHeader(status)
}

func (c *captureWriter) Write(b []byte) (int, error) {
	if c.status == 0 {
		c.status = http.StatusOK
	}
	c.body.Write(b)
	return c.ResponseWriter.Write(b)
}

func idempotencyKeys(r *http.Request, key string) (cacheKey, lockKey string) {
	userID := ""
	if sub, ok := SubjectFromContext(r.Context()); ok {
		userID = sub.UserID
	}
	cacheKey = "idemp:" + r.URL.Path + ":" + userID + ":" + key
	return cacheKey, cacheKey + ":lock"
}

// Idempotency replays the stored response of a POST carrying an Idempotency-Key that was
// already processed for the same caller, and answers 409 while the first attempt is in flight.
// A nil client disables it. 5xx responses are not stored so the client may retry.
func Idempotency(rdb *redis.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if rdb == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(IdempotencyHeader)
			if key == "" || r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()
			cacheKey, lockKey := idempotencyKeys(r, key)

			cached, err := rdb.Get(ctx, cacheKey).Bytes()
			if err == nil {
				var stored storedResponse
				if err := json.Unmarshal(cached, &stored); err == nil {
					w.Header().Set("Content-Type", stored.ContentType)
					w.Header().Set(ReplayedHeader, "true")
					w.WriteHeader(stored.Status)
					_, _ = w.Write(stored.Body)
					return
				}
				slog.Warn("discarding undecodable idempotent response", "key", cacheKey)
			} else if !errors.Is(err, redis.Nil) {
				// Redis trouble must not block submissions.
				slog.Warn("idempotency lookup failed", "key", cacheKey, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			acquired, err := rdb.SetNX(ctx, lockKey, "locked", idempotencyLockTTL).Result()
			if err != nil {
				slog.Warn("idempotency lock failed", "key", lockKey, "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !acquired {
				response.Conflict(w, r, "A request with this Idempotency-Key is still being processed")
				return
			}

			capture := &captureWriter{ResponseWriter: w}
			next.ServeHTTP(capture, r)

			if capture.status > 0 && capture.status < http.StatusInternalServerError {
				data, err := json.Marshal(storedResponse{
					Status:      capture.status,
					ContentType: capture.Header().Get("Content-Type"),
					Body:        capture.body.Bytes(),
				})
				if err == nil {
					if err := rdb.Set(ctx, cacheKey, data, idempotencyResultTTL).Err(); err != nil {
						slog.Warn("failed to store idempotent response", "key", cacheKey, "error", err)
					}
				}
			}
			if err := rdb.Del(ctx, lockKey).Err(); err != nil {
				slog.Warn("failed to release idempotency lock", "key", lockKey, "error", err)
			}
		})
	}
}
