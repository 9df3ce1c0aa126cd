package async

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-press/console/pkg/observability"
)

func TestSafeGo_RunsTask(t *testing.T) {
	logger := observability.NewLogger(observability.ErrorLevel, &bytes.Buffer{})
	done := make(chan struct{})

	SafeGo(context.Background(), logger, time.Second, "test task", func(ctx context.Context) error {
		close(done)
		return nil
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task never ran")
	}
}

func TestSafeGo_RecoversPanic(t *testing.T) {
	var buf bytes.Buffer
	logger := observability.NewLogger(observability.ErrorLevel, &buf)
	done := make(chan struct{})

	SafeGo(context.Background(), logger, time.Second, "panicky task", func(ctx context.Context) error {
		defer close(done)
		panic("boom")
	})

	<-done
	require.Eventually(t, func() bool {
		return strings.Contains(buf.String(), "background task panicked")
	}, time.Second, 10*time.Millisecond)
}

func TestSafeGo_LogsErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := observability.NewLogger(observability.WarnLevel, &buf)

	SafeGo(context.Background(), logger, time.Second, "failing task", func(ctx context.Context) error {
		return errors.New("it broke")
	})

	require.Eventually(t, func() bool {
		return strings.Contains(buf.String(), "background task failed")
	}, time.Second, 10*time.Millisecond)
}

func TestSafeGo_EnforcesTimeout(t *testing.T) {
	logger := observability.NewLogger(observability.ErrorLevel, &bytes.Buffer{})
	expired := make(chan error, 1)

	SafeGo(context.Background(), logger, 10*time.Millisecond, "slow task", func(ctx context.Context) error {
		<-ctx.Done()
		expired <- ctx.Err()
		return nil
	})

	select {
	case err := <-expired:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(time.Second):
		t.Fatal("context never expired")
	}
}

func TestSafeGoNoError(t *testing.T) {
	logger := observability.NewLogger(observability.ErrorLevel, &bytes.Buffer{})
	done := make(chan struct{})

	SafeGoNoError(context.Background(), logger, time.Second, "no-error task", func(ctx context.Context) {
		close(done)
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task never ran")
	}
}
