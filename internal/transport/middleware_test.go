package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyang/taskboard/internal/adapter/memory"
	portidempotency "github.com/alanyang/taskboard/internal/port/idempotency"
	"github.com/alanyang/taskboard/internal/transport/httperr"
)

func init() { gin.SetMode(gin.TestMode) }

func serve(r *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequestWithContext(context.Background(), method, path, strings.NewReader(`{}`))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(ctxKeyRequestID)) })

	t.Run("assigns an id", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/ping", nil)
		id := w.Header().Get(HeaderRequestID)
		assert.Len(t, id, 36)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("keeps the caller's id", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/ping", map[string]string{HeaderRequestID: "abc-123"})
		assert.Equal(t, "abc-123", w.Header().Get(HeaderRequestID))
		assert.Equal(t, "abc-123", w.Body.String())
	})
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware())
	r.POST("/tasks", func(c *gin.Context) { c.Status(http.StatusCreated) })

	w := serve(r, http.MethodOptions, "/tasks", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), HeaderIdempotencyKey)
}

func newIdempotentRouter(cache *memory.ResponseCache, status *int, calls *int) *gin.Engine {
	r := gin.New()
	r.Use(IdempotencyMiddleware(cache, memory.NewLocker(), time.Hour))
	r.POST("/tasks", func(c *gin.Context) {
		*calls++
		c.JSON(*status, gin.H{"call": *calls})
	})
	r.GET("/tasks", func(c *gin.Context) {
		*calls++
		c.JSON(http.StatusOK, gin.H{"call": *calls})
	})
	return r
}

func postBody(r *gin.Engine, body, key string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequestWithContext(context.Background(), http.MethodPost, "/tasks", strings.NewReader(body))
	req.Header.Set(HeaderIdempotencyKey, key)
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotencyMiddleware(t *testing.T) {
	t.Run("replays a successful POST", func(t *testing.T) {
		cache := memory.NewResponseCache()
		status, calls := http.StatusCreated, 0
		r := newIdempotentRouter(cache, &status, &calls)
		h := map[string]string{HeaderIdempotencyKey: "k1"}

		first := serve(r, http.MethodPost, "/tasks", h)
		second := serve(r, http.MethodPost, "/tasks", h)

		assert.Equal(t, 1, calls)
		assert.Equal(t, http.StatusCreated, second.Code)
		assert.JSONEq(t, first.Body.String(), second.Body.String())
		assert.Equal(t, "true", second.Header().Get(HeaderReplayed))
		assert.Contains(t, second.Header().Get("Content-Type"), "application/json")
	})

	t.Run("different keys are independent", func(t *testing.T) {
		cache := memory.NewResponseCache()
		status, calls := http.StatusCreated, 0
		r := newIdempotentRouter(cache, &status, &calls)

		serve(r, http.MethodPost, "/tasks", map[string]string{HeaderIdempotencyKey: "a"})
		serve(r, http.MethodPost, "/tasks", map[string]string{HeaderIdempotencyKey: "b"})

		assert.Equal(t, 2, calls)
	})

	t.Run("same key with a different body is rejected", func(t *testing.T) {
		cache := memory.NewResponseCache()
		status, calls := http.StatusCreated, 0
		r := newIdempotentRouter(cache, &status, &calls)

		first := postBody(r, `{"title":"a"}`, "k1")
		second := postBody(r, `{"title":"b"}`, "k1")
		third := postBody(r, `{"title":"a"}`, "k1")

		assert.Equal(t, 1, calls)
		require.Equal(t, http.StatusCreated, first.Code)
		require.Equal(t, http.StatusUnprocessableEntity, second.Code)
		assert.Empty(t, second.Header().Get(HeaderReplayed))
		var body httperr.Response
		require.NoError(t, json.Unmarshal(second.Body.Bytes(), &body))
		assert.Equal(t, "idempotency key reused with a different request body", body.Message)
		assert.Equal(t, "/tasks", body.Path)

		assert.Equal(t, "true", third.Header().Get(HeaderReplayed))
		assert.JSONEq(t, first.Body.String(), third.Body.String())
	})

	t.Run("handler sees the original body", func(t *testing.T) {
		r := gin.New()
		r.Use(IdempotencyMiddleware(memory.NewResponseCache(), memory.NewLocker(), time.Hour))
		r.POST("/tasks", func(c *gin.Context) {
			b, _ := io.ReadAll(c.Request.Body)
			c.String(http.StatusCreated, string(b))
		})

		w := postBody(r, `{"title":"a"}`, "k1")
		assert.Equal(t, `{"title":"a"}`, w.Body.String())
	})

	t.Run("concurrent requests with one key run the handler once", func(t *testing.T) {
		var calls atomic.Int32
		r := gin.New()
		r.Use(IdempotencyMiddleware(memory.NewResponseCache(), memory.NewLocker(), time.Hour))
		r.POST("/tasks", func(c *gin.Context) {
			n := calls.Add(1)
			time.Sleep(10 * time.Millisecond)
			c.JSON(http.StatusCreated, gin.H{"call": n})
		})

		const attempts = 6
		bodies := make([]string, attempts)
		var wg sync.WaitGroup
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				bodies[i] = postBody(r, `{}`, "k1").Body.String()
			}(i)
		}
		wg.Wait()

		assert.Equal(t, int32(1), calls.Load())
		for _, b := range bodies {
			assert.JSONEq(t, `{"call":1}`, b)
		}
	})

	t.Run("failed POST is not stored", func(t *testing.T) {
		cache := memory.NewResponseCache()
		status, calls := http.StatusConflict, 0
		r := newIdempotentRouter(cache, &status, &calls)
		h := map[string]string{HeaderIdempotencyKey: "k1"}

		serve(r, http.MethodPost, "/tasks", h)
		w := serve(r, http.MethodPost, "/tasks", h)

		assert.Equal(t, 2, calls)
		assert.Empty(t, w.Header().Get(HeaderReplayed))
		_, err := cache.Get(context.Background(), "/tasks\x00k1")
		assert.ErrorIs(t, err, portidempotency.ErrNotFound)
	})

	t.Run("requests without a key or not POST pass through", func(t *testing.T) {
		cache := memory.NewResponseCache()
		status, calls := http.StatusCreated, 0
		r := newIdempotentRouter(cache, &status, &calls)

		serve(r, http.MethodPost, "/tasks", nil)
		serve(r, http.MethodPost, "/tasks", nil)
		serve(r, http.MethodGet, "/tasks", map[string]string{HeaderIdempotencyKey: "k1"})
		serve(r, http.MethodGet, "/tasks", map[string]string{HeaderIdempotencyKey: "k1"})

		assert.Equal(t, 4, calls)
		_, err := cache.Get(context.Background(), "/tasks\x00k1")
		assert.ErrorIs(t, err, portidempotency.ErrNotFound)
	})
}

func TestHealthz(t *testing.T) {
	t.Run("store reachable", func(t *testing.T) {
		r := NewRouter(nil, nil, memory.NewResponseCache(), memory.NewLocker(), time.Hour, func(context.Context) error { return nil })

		w := serve(r, http.MethodGet, "/healthz", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	})

	t.Run("store unreachable", func(t *testing.T) {
		r := NewRouter(nil, nil, memory.NewResponseCache(), memory.NewLocker(), time.Hour, func(context.Context) error {
			return errors.New("dial tcp: connection refused")
		})

		w := serve(r, http.MethodGet, "/healthz", nil)

		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.JSONEq(t, `{"status":"unavailable"}`, w.Body.String())
	})
}
