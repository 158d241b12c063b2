package pipeline

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRunnerRunsStagesInOrder(t *testing.T) {
	var order []string
	step := func(name string) Step {
		return func(ctx context.Context) error {
			order = append(order, name)
			return nil
		}
	}

	r := NewRunner(zap.NewNop(),
		NewStage("build", step("build")),
		NewStage("score", step("score")),
		NewStage("update", step("update")),
	)
	require.NoError(t, r.Run(context.Background()))
	assert.Equal(t, []string{"build", "score", "update"}, order)
}

func TestRunnerParallelStepsBarrier(t *testing.T) {
	var counter atomic.Int32

	parallel := func(ctx context.Context) error {
		counter.Add(1)
		return nil
	}
	after := func(ctx context.Context) error {
		assert.Equal(t, int32(2), counter.Load())
		return nil
	}

	r := NewRunner(zap.NewNop(),
		NewStage("fanout", parallel, parallel),
		NewStage("check", after),
	)
	require.NoError(t, r.Run(context.Background()))
}

func TestRunnerFailFast(t *testing.T) {
	ran := false

	r := NewRunner(zap.NewNop(),
		NewStage("boom", func(ctx context.Context) error {
			return errors.New("stage failed")
		}),
		NewStage("never", func(ctx context.Context) error {
			ran = true
			return nil
		}),
	)
	assert.Error(t, r.Run(context.Background()))
	assert.False(t, ran)
}
