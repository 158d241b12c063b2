// Package pipeline sequences the survey stages that turn a raw road
// network into a scored, routable graph.
package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Step is one unit of pipeline work.
type Step func(ctx context.Context) error

// Stage is a named group of steps that run in parallel. Stages form a
// barrier: every step finishes before the next stage starts.
type Stage struct {
	name  string
	steps []Step
}

func NewStage(name string, steps ...Step) Stage {
	return Stage{name: name, steps: steps}
}

// Runner executes stages sequentially. Unlike per-image work, a failed
// stage invalidates everything after it, so the runner is fail fast.
type Runner struct {
	stages []Stage
	log    *zap.Logger
}

func NewRunner(log *zap.Logger, stages ...Stage) *Runner {
	return &Runner{stages: stages, log: log}
}

func (r *Runner) Run(ctx context.Context) error {
	for _, stage := range r.stages {
		start := time.Now()
		r.log.Info("pipeline stage start", zap.String("stage", stage.name))

		g, stageCtx := errgroup.WithContext(ctx)
		for _, step := range stage.steps {
			step := step
			g.Go(func() error {
				return step(stageCtx)
			})
		}
		if err := g.Wait(); err != nil {
			r.log.Error("pipeline stage failed",
				zap.String("stage", stage.name),
				zap.Duration("took", time.Since(start)),
				zap.Error(err))
			return err
		}

		r.log.Info("pipeline stage done",
			zap.String("stage", stage.name),
			zap.Duration("took", time.Since(start)))
	}
	return nil
}
