package wire

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/alanyang/taskboard/internal/adapter/memory"
	"github.com/alanyang/taskboard/internal/config"

	projectsvc "github.com/alanyang/taskboard/internal/service/project"
	tasksvc "github.com/alanyang/taskboard/internal/service/task"

	"github.com/alanyang/taskboard/internal/transport"
)

// App holds the top-level resources needed to run and gracefully stop the server.
type App struct {
	Store      *Store
	Server     *http.Server
	ProjectSvc *projectsvc.Service
	TaskSvc    *tasksvc.Service
}

// Build is the composition root: the only place concrete types are wired to their
// interface dependencies.
func Build(ctx context.Context, env *config.Env) (*App, error) {
	// ── Storage ──────────────────────────────────────────────────────────────
	store, err := OpenStore(ctx, env)
	if err != nil {
		return nil, err
	}

	// ── Services ─────────────────────────────────────────────────────────────
	projectSvcInstance := projectsvc.NewService(store.Projects, store.Locker)
	taskSvcInstance := tasksvc.NewService(store.Tasks, store.Projects, store.Locker)

	// ── Transport ─────────────────────────────────────────────────────────────
	router := transport.NewRouter(
		projectSvcInstance,
		taskSvcInstance,
		store.Replies,
		// Separate from store.Locker: the create handlers take that one while this is held.
		memory.NewLocker(),
		env.IdempotencyTTL,
		store.Ping,
	)

	server := &http.Server{
		Addr:              env.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	slog.Info("application wired", "addr", server.Addr, "storage", env.Driver)

	return &App{
		Store:      store,
		Server:     server,
		ProjectSvc: projectSvcInstance,
		TaskSvc:    taskSvcInstance,
	}, nil
}

func (a *App) Close() {
	a.Store.Close()
}
