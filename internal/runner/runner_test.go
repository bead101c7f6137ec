package runner

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubWorker struct {
	started atomic.Bool
	err     error
}

func (w *stubWorker) Start(ctx context.Context) error {
	w.started.Store(true)
	if w.err != nil {
		return w.err
	}
	<-ctx.Done()
	return ctx.Err()
}

type stubServer struct {
	listenErr   error
	shutdownErr error
	shutdowns   atomic.Int32
	release     chan struct{}
}

func newStubServer() *stubServer {
	return &stubServer{release: make(chan struct{})}
}

func (s *stubServer) ListenAndServe() error {
	if s.listenErr != nil {
		return s.listenErr
	}
	<-s.release
	return http.ErrServerClosed
}

func (s *stubServer) Shutdown(ctx context.Context) error {
	s.shutdowns.Add(1)
	close(s.release)
	return s.shutdownErr
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	worker := &stubWorker{}
	server := newStubServer()

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	err := Run(ctx, []Worker{worker}, []HTTPServer{server})
	require.NoError(t, err)
	assert.True(t, worker.started.Load())
	assert.Equal(t, int32(1), server.shutdowns.Load())
}

func TestRun_WorkerErrorPropagates(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	wantErr := errors.New("worker failed")
	err := Run(ctx, []Worker{&stubWorker{err: wantErr}}, nil)
	assert.ErrorIs(t, err, wantErr)
}

func TestRun_WorkerErrorShutsDownServer(t *testing.T) {
	ctx := context.Background()

	wantErr := errors.New("worker failed")
	server := newStubServer()

	errCh := make(chan error, 1)
	go func() {
		errCh <- Run(ctx, []Worker{&stubWorker{err: wantErr}}, []HTTPServer{server})
	}()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, wantErr)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after the worker failed")
	}
	assert.Equal(t, int32(1), server.shutdowns.Load())
}

func TestRun_ServerErrorPropagates(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	wantErr := errors.New("listen failed")
	server := newStubServer()
	server.listenErr = wantErr

	err := Run(ctx, nil, []HTTPServer{server})
	assert.ErrorIs(t, err, wantErr)
}

func TestRun_ContextCancelIsNotAnError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Run(ctx, []Worker{&stubWorker{}}, nil)
	assert.NoError(t, err)
}

func TestRun_NothingToRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, Run(ctx, nil, nil))
}
