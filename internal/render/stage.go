package render

import (
	"context"
	"errors"
	"log/slog"
	"time"

	ferrors "git.home.luguber.info/inful/readmegen/internal/foundation/errors"
	"git.home.luguber.info/inful/readmegen/internal/logfields"
	"git.home.luguber.info/inful/readmegen/internal/metrics"
)

// StageName identifies a pipeline stage.
type StageName string

// The fixed stages, in execution order.
const (
	StageSelect        StageName = "select"
	StagePreRender     StageName = "pre_render"
	StagePrimaryRender StageName = "primary_render"
	StageEngineRender  StageName = "engine_render"
	StagePostRender    StageName = "post_render"
	StagePostProcess   StageName = "post_process"
	StageWrite         StageName = "write"
)

// Stage is one step over the run state.
type Stage func(ctx context.Context, rs *runState) error

// StageDef pairs a stage name with its function.
type StageDef struct {
	Name StageName
	Fn   Stage
}

// stageCategory maps a stage to the error category its failures carry.
func stageCategory(name StageName) ferrors.ErrorCategory {
	switch name {
	case StagePrimaryRender, StageEngineRender:
		return ferrors.CategoryRender
	case StagePreRender, StageWrite:
		return ferrors.CategoryFileSystem
	default:
		return ferrors.CategoryPipeline
	}
}

// runStages executes stages in order, recording timing and stopping at the
// first error. Errors that are not yet classified are classified by stage.
func runStages(ctx context.Context, rs *runState, stages []StageDef, rec metrics.Recorder, logger *slog.Logger) error {
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			rec.IncStageResult(string(st.Name), metrics.ResultFailed)
			return ferrors.WrapError(err, ferrors.CategoryPipeline, "render canceled").
				WithContext(logfields.KeyStage, string(st.Name)).
				Build()
		}

		t0 := time.Now()
		err := st.Fn(ctx, rs)
		dur := time.Since(t0)
		rec.ObserveStageDuration(string(st.Name), dur)

		if err != nil {
			rec.IncStageResult(string(st.Name), metrics.ResultFailed)
			logger.Debug("Render stage failed", logfields.Stage(string(st.Name)), logfields.Error(err))
			return classifyStageError(st.Name, err)
		}
		rec.IncStageResult(string(st.Name), metrics.ResultSuccess)
		logger.Debug("Render stage complete", logfields.Stage(string(st.Name)), logfields.DurationMS(float64(dur.Microseconds())/1000))
	}
	return nil
}

func classifyStageError(name StageName, err error) error {
	var ce *ferrors.ClassifiedError
	if errors.As(err, &ce) {
		return err
	}
	return ferrors.WrapError(err, stageCategory(name), "render stage "+string(name)).
		Fatal().
		WithContext(logfields.KeyStage, string(name)).
		Build()
}
