package shutdown

import (
	"context"
	"io"
	"net/http"
	"strings"

	"zimage_power/core"

	"go.uber.org/zap"
)

// Closer adapts an io.Closer to a ShutdownFunc.
func Closer(c io.Closer) core.ShutdownFunc {
	return func(context.Context) error {
		return c.Close()
	}
}

// HTTPServer stops srv gracefully within the hook deadline.
func HTTPServer(srv *http.Server) core.ShutdownFunc {
	return func(ctx context.Context) error {
		if err := srv.Shutdown(ctx); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}
}

// CancelFunc adapts a context.CancelFunc, used to stop background workers.
func CancelFunc(cancel context.CancelFunc) core.ShutdownFunc {
	return func(context.Context) error {
		cancel()
		return nil
	}
}

// SyncLogger flushes logger. Errors from syncing a terminal are ignored.
func SyncLogger(logger *zap.Logger) core.ShutdownFunc {
	return func(context.Context) error {
		err := logger.Sync()
		if err != nil && (strings.Contains(err.Error(), "invalid argument") ||
			strings.Contains(err.Error(), "inappropriate ioctl")) {
			return nil
		}
		return err
	}
}
