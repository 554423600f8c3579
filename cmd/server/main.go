package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/gin-gonic/gin"

	"github.com/alanyang/taskboard/internal/config"
	"github.com/alanyang/taskboard/internal/wire"
)

var (
	app = kingpin.New("taskboard", "Project and task tracking API")

	serveCmd   = app.Command("serve", "Run the HTTP server").Default()
	migrateCmd = app.Command("migrate", "Apply the storage schema and exit")
)

func main() {
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	env, err := config.LoadEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	setupLogger(env)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch command {
	case serveCmd.FullCommand():
		err = serve(ctx, env)
	case migrateCmd.FullCommand():
		err = migrate(ctx, env)
	}
	if err != nil {
		slog.Error("command failed", "command", command, "error", err)
		os.Exit(1)
	}
}

func setupLogger(env *config.Env) {
	opts := &slog.HandlerOptions{Level: env.SlogLevel()}
	var handler slog.Handler
	if env.LogFormat == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))

	if env.Env == "local" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
}

func migrate(ctx context.Context, env *config.Env) error {
	store, err := wire.OpenStore(ctx, env)
	if err != nil {
		return err
	}
	store.Close()
	slog.Info("schema up to date", "storage", env.Driver)
	return nil
}

func serve(ctx context.Context, env *config.Env) error {
	a, err := wire.Build(ctx, env)
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}
	defer a.Close()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", a.Server.Addr)
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), env.ShutdownTimeout)
	defer shutdownCancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("taskboard server stopped")
	return nil
}
