package framework

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type testCloser struct {
	closed int
	ch     chan struct{}
}

func (c *testCloser) Close() error {
	c.closed++
	if c.ch != nil {
		close(c.ch)
	}
	return nil
}

func TestRunnerWait(t *testing.T) {
	errFail := errors.New("fail")
	ctx, cancel := context.WithCancel(context.Background())
	runner := NewRunnerWith(ctx)
	runner.Go(
		NamedRun("canceled", RunFunc(func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		})),
		NamedRun("failed", RunFunc(func(context.Context) error {
			return errFail
		})),
		RunFunc(func(context.Context) error {
			return nil
		}),
	)
	cancel()
	err := runner.Wait()
	require.Error(t, err)
	require.True(t, errors.Is(err, errFail))
	require.Equal(t, "failed: fail", err.Error())
	require.NoError(t, runner.Wait())
}

func TestAggregatedError(t *testing.T) {
	var errs AggregatedError
	require.NoError(t, errs.Aggregate())
	errA, errB := errors.New("a"), errors.New("b")
	errs.Add(nil, errA)
	require.Equal(t, errA, errs.Aggregate())
	var nested AggregatedError
	nested.Add(errB, nil)
	errs.Add(&nested)
	require.Equal(t, []error{errA, errB}, errs.Errors)
	require.Equal(t, "multiple errors: a; b", errs.Aggregate().Error())
}

func TestRunWithContextCloser(t *testing.T) {
	t.Run("returns", func(t *testing.T) {
		closer := &testCloser{}
		errDone := errors.New("done")
		err := RunWithContextCloser(context.Background(), closer, func() error {
			return errDone
		})
		require.Equal(t, errDone, err)
		require.Equal(t, 1, closer.closed)
	})
	t.Run("canceled", func(t *testing.T) {
		closer := &testCloser{ch: make(chan struct{})}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := RunWithContextCloser(ctx, closer, func() error {
			<-closer.ch
			return errors.New("closed")
		})
		require.Equal(t, context.Canceled, err)
		require.Equal(t, 1, closer.closed)
	})
}
