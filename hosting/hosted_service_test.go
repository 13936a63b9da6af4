package hosting

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gocrud/inject/logging"
)

func testLogger() logging.Logger {
	return logging.NewLoggingBuilder().SetOutput(io.Discard).Build().CreateLogger("test")
}

type stubService struct {
	started  atomic.Int32
	stopped  atomic.Int32
	startErr error
	block    chan struct{}
}

func newStubService() *stubService {
	return &stubService{block: make(chan struct{})}
}

func (s *stubService) Start(ctx context.Context) error {
	s.started.Add(1)
	if s.startErr != nil {
		return s.startErr
	}
	select {
	case <-s.block:
	case <-ctx.Done():
	}
	return nil
}

func (s *stubService) Stop(ctx context.Context) error {
	s.stopped.Add(1)
	select {
	case <-s.block:
	default:
		close(s.block)
	}
	return nil
}

func TestManager_StartStopAll(t *testing.T) {
	manager := NewHostedServiceManager(testLogger())
	first := newStubService()
	second := newStubService()
	manager.Add(first)
	manager.Add(second)

	ctx := context.Background()
	errCh := manager.StartAll(ctx)

	assert.Eventually(t, func() bool {
		return first.started.Load() == 1 && second.started.Load() == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, manager.StopAll(ctx))
	manager.Wait()

	assert.Equal(t, int32(1), first.stopped.Load())
	assert.Equal(t, int32(1), second.stopped.Load())

	select {
	case err := <-errCh:
		t.Fatalf("unexpected error: %v", err)
	default:
	}
}

func TestManager_StartErrorReported(t *testing.T) {
	manager := NewHostedServiceManager(testLogger())
	failing := newStubService()
	failing.startErr = errors.New("bind failed")
	manager.Add(failing)

	errCh := manager.StartAll(context.Background())

	select {
	case err := <-errCh:
		assert.EqualError(t, err, "bind failed")
	case <-time.After(time.Second):
		t.Fatal("expected start error")
	}
}

func TestManager_ContextCancelNotAnError(t *testing.T) {
	manager := NewHostedServiceManager(testLogger())
	svc := newStubService()
	svc.startErr = context.Canceled
	manager.Add(svc)

	errCh := manager.StartAll(context.Background())
	manager.Wait()

	select {
	case err := <-errCh:
		t.Fatalf("context cancellation should not be reported: %v", err)
	default:
	}
}

func TestBackgroundService_StopBeforeTimeout(t *testing.T) {
	svc := NewBackgroundService("worker", testLogger())

	startDone := make(chan error, 1)
	go func() { startDone <- svc.Start(context.Background()) }()

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, svc.Stop(context.Background()))

	select {
	case err := <-startDone:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Start did not return after Stop")
	}
}

func TestTimedHostedService_ExecutesTask(t *testing.T) {
	var runs atomic.Int32
	svc := NewTimedHostedService("ticker", 10*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}, testLogger())

	go svc.Start(context.Background())

	assert.Eventually(t, func() bool {
		return runs.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, svc.Stop(context.Background()))
}
