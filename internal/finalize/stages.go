package finalize

import (
	"context"
	"time"

	ferrors "git.home.luguber.info/inful/sitewatch/internal/foundation/errors"
	"git.home.luguber.info/inful/sitewatch/internal/metrics"
)

// StageName identifies a finalize stage.
type StageName string

const (
	StageFavicon       StageName = "favicon"
	StageManifest      StageName = "manifest"
	StageMirror        StageName = "mirror"
	StageRelocateIndex StageName = "relocate_index"
	StageVerifyAssets  StageName = "verify_assets"
)

type stageFunc func(ctx context.Context, res *Result) (metrics.ResultLabel, error)

// stageDef pairs a stage name with its implementation.
type stageDef struct {
	name StageName
	fn   stageFunc
}

// StageTiming is the record of one executed stage.
type StageTiming struct {
	Stage    StageName
	Duration time.Duration
	Result   metrics.ResultLabel
}

func stageError(stage StageName, err error) error {
	return ferrors.WrapError(err, ferrors.CategoryFinalize, "finalize stage "+string(stage)+" failed").
		WithContext("stage", string(stage)).
		Fatal().
		Build()
}

// FailedStage extracts the stage name from an error returned by Finalize.
func FailedStage(err error) (StageName, bool) {
	ce, ok := ferrors.AsClassified(err)
	if !ok || ce.Category() != ferrors.CategoryFinalize {
		return "", false
	}
	s, ok := ce.Context().GetString("stage")
	return StageName(s), ok
}
