package transport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portidempotency "github.com/alanyang/taskboard/internal/port/idempotency"
	portlocker "github.com/alanyang/taskboard/internal/port/locker"
	projectsvc "github.com/alanyang/taskboard/internal/service/project"
	tasksvc "github.com/alanyang/taskboard/internal/service/task"

	projecthandler "github.com/alanyang/taskboard/internal/transport/project"
	taskhandler "github.com/alanyang/taskboard/internal/transport/task"
)

// HealthCheck reports whether the backing store is reachable.
type HealthCheck func(ctx context.Context) error

func NewRouter(
	projectSvc *projectsvc.Service,
	taskSvc *tasksvc.Service,
	replies portidempotency.Store,
	inflight portlocker.AdvisoryLocker,
	idempotencyTTL time.Duration,
	health HealthCheck,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger())
	r.Use(CORSMiddleware())
	r.Use(IdempotencyMiddleware(replies, inflight, idempotencyTTL))

	r.GET("/healthz", healthz(health))

	projecthandler.Register(r.Group("/projects"), projectSvc)
	taskhandler.Register(r.Group("/tasks"), taskSvc)

	return r
}

func healthz(check HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := check(ctx); err != nil {
			slog.WarnContext(ctx, "health check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
