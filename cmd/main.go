package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yungbote/courseforge-backend/internal/app"
)

func main() {
	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	if err := application.Start(); err != nil {
		application.Log.Error("Start failed", "error", err)
		return
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- application.Run(":" + application.Cfg.Port)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		if err != nil {
			application.Log.Error("Server failed", "error", err)
		}
	case s := <-sig:
		application.Log.Info("Shutting down", "signal", s.String())
		// In-flight generations get a bounded window to commit.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := application.Shutdown(ctx); err != nil {
			application.Log.Warn("Graceful shutdown incomplete", "error", err)
		}
	}
}
