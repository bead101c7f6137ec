package runner

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"
)

// shutdownTimeout bounds graceful HTTP shutdown after the context ends.
const shutdownTimeout = 5 * time.Second

// Worker is a long-running task driven by a context.
type Worker interface {
	Start(ctx context.Context) error
}

// HTTPServer is the subset of *http.Server the runner needs.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// Run starts every worker and server concurrently and blocks until the
// context is cancelled or one of them fails. The first failure shuts the
// rest down and is returned; context cancellation is a normal exit, not
// an error.
func Run(ctx context.Context, workers []Worker, servers []HTTPServer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errCh := make(chan error, 1)

	sendError := func(err error) {
		select {
		case errCh <- err:
		default:
		}
	}

	for _, w := range workers {
		wg.Add(1)
		go func(w Worker) {
			defer wg.Done()
			if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				sendError(err)
			}
		}(w)
	}

	for _, srv := range servers {
		wg.Add(1)
		go func(srv HTTPServer) {
			defer wg.Done()

			serveErr := make(chan error, 1)
			go func() {
				serveErr <- srv.ListenAndServe()
			}()

			select {
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					sendError(err)
				}
			case err := <-serveErr:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					sendError(err)
				}
			}
		}(srv)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case err := <-errCh:
		cancel()
		<-done
		return err
	case <-done:
		select {
		case err := <-errCh:
			return err
		default:
			return nil
		}
	}
}
