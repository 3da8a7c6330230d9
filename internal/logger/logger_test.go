package logger

import (
	"context"
	"errors"
	"testing"
)

// The package is used as a library; callers are not required to run
// Init before the first log call.
func TestLogBeforeInitDoesNotPanic(t *testing.T) {
	saved := globalLogger
	globalLogger = nil
	defer func() { globalLogger = saved }()

	ctx := context.Background()
	Debug(ctx, "debug before init")
	Info(ctx, "info before init", "key", "value")
	Warn(ctx, "warn before init")
	Error(ctx, "error before init")
	ErrorWithErr(ctx, "wrapped", errors.New("boom"))
	Import(ctx, "oanda", "api", 1, 1, 0)
	Mapping(ctx, "EUR_USD", "EURUSD", "direct", 1.0)
}

func TestOperationTimerBeforeInit(t *testing.T) {
	saved := globalLogger
	globalLogger = nil
	defer func() { globalLogger = saved }()

	timer := StartOperation(context.Background(), "test_operation", "key", "value")
	timer.End()
}
