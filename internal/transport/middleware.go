package transport

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/alanyang/taskboard/internal/cerr"
	portidempotency "github.com/alanyang/taskboard/internal/port/idempotency"
	portlocker "github.com/alanyang/taskboard/internal/port/locker"
	"github.com/alanyang/taskboard/internal/transport/httperr"
)

const (
	HeaderRequestID      = "X-Request-ID"
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderReplayed       = "Idempotent-Replayed"

	ctxKeyRequestID = "request_id"
)

// noisyPaths are high-frequency read paths logged at Debug to keep Info clean.
var noisyPaths = map[string]bool{
	"/healthz": true,
}

// RequestID propagates the caller's X-Request-ID or assigns a fresh one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxKeyRequestID, id)
		c.Writer.Header().Set(HeaderRequestID, id)
		c.Next()
	}
}

func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if c.Request.Method == http.MethodOptions {
			return
		}

		level := slog.LevelInfo
		if c.Request.Method == http.MethodGet && noisyPaths[c.Request.URL.Path] {
			level = slog.LevelDebug
		}

		slog.Log(c.Request.Context(), level, "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"request_id", c.GetString(ctxKeyRequestID),
		)
	}
}

func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS, PUT")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Idempotency-Key, X-Request-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// IdempotencyMiddleware replays the stored reply of a successful POST that carried the
// same Idempotency-Key. Failed attempts are not stored, so a client may retry them.
// Reusing a key with a different body is rejected with 422. Requests sharing a key
// run one at a time on this instance, so the second one sees the first one's reply.
func IdempotencyMiddleware(store portidempotency.Store, inflight portlocker.AdvisoryLocker, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if c.Request.Method != http.MethodPost || key == "" {
			c.Next()
			return
		}
		cacheKey := c.Request.URL.Path + "\x00" + key

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			httperr.BadRequest(c, "unreadable request body", err.Error())
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		sum := sha256.Sum256(body)
		hash := hex.EncodeToString(sum[:])

		err = inflight.WithLock(c.Request.Context(), portlocker.Key("idempotency", cacheKey), func(ctx context.Context) error {
			replayOrRecord(ctx, c, store, cacheKey, hash, ttl)
			return nil
		})
		if err != nil {
			httperr.Write(c, cerr.NewError(cerr.Internal, "idempotency lock", err))
		}
	}
}

func replayOrRecord(ctx context.Context, c *gin.Context, store portidempotency.Store, cacheKey, hash string, ttl time.Duration) {
	resp, err := store.Get(ctx, cacheKey)
	switch {
	case err == nil && resp.RequestHash != "" && resp.RequestHash != hash:
		httperr.Unprocessable(c, "idempotency key reused with a different request body")
		return
	case err == nil:
		c.Header(HeaderReplayed, "true")
		c.Data(resp.Status, resp.ContentType, resp.Body)
		c.Abort()
		return
	case !errors.Is(err, portidempotency.ErrNotFound):
		slog.WarnContext(ctx, "idempotency lookup failed", "error", err)
	}

	rec := &bodyRecorder{ResponseWriter: c.Writer}
	c.Writer = rec
	c.Next()

	status := rec.Status()
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return
	}
	stored := portidempotency.Response{
		Status:      status,
		ContentType: rec.Header().Get("Content-Type"),
		Body:        rec.body.Bytes(),
		RequestHash: hash,
	}
	if err := store.Set(ctx, cacheKey, stored, ttl); err != nil {
		slog.WarnContext(ctx, "idempotency store failed", "error", err)
	}
}

type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
