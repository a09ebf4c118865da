package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"fc-roster-parser/internal/observability"
)

// GracefulShutdown отменяет context по SIGINT/SIGTERM.
// Второй сигнал не перехватывается и завершает процесс сразу.
func GracefulShutdown(parent context.Context, logger *observability.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}
