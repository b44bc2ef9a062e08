package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

const shutdownGrace = 10 * time.Second

// Run maps handlers and serves until ctx is cancelled, then shuts the
// listener down gracefully. Core subsystem lifecycles are owned by main.
func (srv *HTTPServer) Run(ctx context.Context) error {
	srv.mapHandlers()

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", srv.port),
		Handler: srv.gin,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	srv.logger.Infof(ctx, "HTTP server started on port: %d", srv.port)

	select {
	case err := <-errCh:
		srv.logger.Errorf(ctx, "HTTP server error: %v", err)
		return err
	case <-ctx.Done():
	}

	srv.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		srv.logger.Errorf(ctx, "HTTP server shutdown error: %v", err)
		return err
	}
	return nil
}
