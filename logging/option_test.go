package logging_test

import (
	"testing"

	"github.com/gocrud/inject/core"
	"github.com/gocrud/inject/di"
	"github.com/gocrud/inject/logging"
)

func TestNew_RegistersLoggerAndFactory(t *testing.T) {
	rt := core.NewRuntime()

	if err := rt.Apply(logging.New(logging.WithMinimumLevel(logging.LogLevelDebug))); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	logger, err := di.Resolve[logging.Logger](rt.Container)
	if err != nil {
		t.Fatalf("Logger not registered: %v", err)
	}
	if logger == nil {
		t.Fatal("Logger is nil")
	}

	factory, err := di.Resolve[logging.LoggerFactory](rt.Container)
	if err != nil {
		t.Fatalf("LoggerFactory not registered: %v", err)
	}
	if factory == nil {
		t.Fatal("LoggerFactory is nil")
	}

	if core.GetFeature[logging.LoggerFactory](rt) == nil {
		t.Fatal("LoggerFactory feature not set")
	}
}
