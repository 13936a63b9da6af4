package cron

import (
	"context"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gocrud/inject/di"
	"github.com/gocrud/inject/logging"
)

func testLogger() logging.Logger {
	return logging.NewLoggingBuilder().SetOutput(io.Discard).Build().CreateLogger("cron")
}

type jobCounter struct {
	runs atomic.Int32
}

func TestService_SimpleJob(t *testing.T) {
	var runs atomic.Int32

	builder := NewBuilder().WithSeconds()
	builder.AddJob("* * * * * *", "tick", func() {
		runs.Add(1)
	})

	svc := builder.build(testLogger())
	require.NoError(t, svc.Start(context.Background()))
	defer svc.Stop(context.Background())

	assert.Eventually(t, func() bool {
		return runs.Load() >= 1
	}, 3*time.Second, 50*time.Millisecond)
}

func TestService_JobWithInjection(t *testing.T) {
	container := di.NewContainer()
	counter := &jobCounter{}
	require.NoError(t, container.AddInstance(counter))

	builder := NewBuilder().WithSeconds()
	builder.AddJobWithDI("* * * * * *", "count", func(c *jobCounter) {
		c.runs.Add(1)
	})

	svc := builder.build(testLogger())
	svc.Inject(container, nil)
	require.NoError(t, svc.Start(context.Background()))
	defer svc.Stop(context.Background())

	assert.Eventually(t, func() bool {
		return counter.runs.Load() >= 1
	}, 3*time.Second, 50*time.Millisecond)
}

func TestService_DIJobWithoutContainer(t *testing.T) {
	builder := NewBuilder().WithSeconds()
	builder.AddJobWithDI("* * * * * *", "needs-di", func(c *jobCounter) {})

	svc := builder.build(testLogger())
	err := svc.Start(context.Background())
	require.Error(t, err)
}

func TestService_InvalidSpec(t *testing.T) {
	builder := NewBuilder()
	builder.AddJob("not a spec", "broken", func() {})

	svc := builder.build(testLogger())
	assert.Error(t, svc.Start(context.Background()))
}

func TestService_RemoveJob(t *testing.T) {
	builder := NewBuilder().WithSeconds()
	builder.AddJob("* * * * * *", "removable", func() {})

	svc := builder.build(testLogger())
	require.NoError(t, svc.Start(context.Background()))
	defer svc.Stop(context.Background())

	svc.RemoveJob("removable")

	svc.mu.RLock()
	_, exists := svc.jobs["removable"]
	svc.mu.RUnlock()
	assert.False(t, exists)
}
