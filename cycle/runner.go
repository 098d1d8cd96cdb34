package cycle

import (
	"context"
	"fmt"
	"log"
	"time"

	"horror-pipeline/pipeline"
	"horror-pipeline/types"
)

// Generator produces not-yet-published artifacts stage by stage
type Generator interface {
	Plan() pipeline.CyclePlan
	GeneratePrimary(ctx context.Context, plan pipeline.CyclePlan) (*types.GeneratedArtifact, error)
	GenerateDerived(ctx context.Context, primary *types.GeneratedArtifact) (*types.GeneratedArtifact, error)
}

// Publisher uploads a finished artifact and returns its remote identifiers
type Publisher interface {
	Publish(ctx context.Context, a *types.GeneratedArtifact) (remoteID, remoteURL string, err error)
	AttachThumbnail(ctx context.Context, remoteID, thumbnailFile string) error
}

// Runner executes exactly one automation cycle. It never returns an error
// or lets a panic escape: every failure becomes a CycleResult.
type Runner struct {
	generator Generator
	publisher Publisher
}

// New creates a new cycle Runner
func New(g Generator, p Publisher) *Runner {
	return &Runner{generator: g, publisher: p}
}

// Run performs one full generate-and-publish pass.
//
// The primary artifact is required: if its generation or upload fails the
// cycle is a Failure. The derived Short is independent: once the primary
// has published, a derived failure is logged and the cycle stays a Success
// with the primary's record.
func (r *Runner) Run(ctx context.Context) (result types.CycleResult) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[cycle] Unexpected panic: %v", rec)
			result = failure(fmt.Sprintf("unexpected: %v", rec))
		}
	}()

	plan := r.generator.Plan()

	primary, err := r.generator.GeneratePrimary(ctx, plan)
	if err != nil {
		log.Printf("[cycle] Primary generation failed: %v", err)
		return failure(fmt.Sprintf("generate primary: %v", err))
	}

	primaryPub, err := r.publishArtifact(ctx, primary)
	if err != nil {
		log.Printf("[cycle] Primary publish failed: %v", err)
		return failure(fmt.Sprintf("publish primary: %v", err))
	}
	artifacts := []types.PublishedArtifact{*primaryPub}

	if plan.IncludeDerived {
		derived, err := r.generator.GenerateDerived(ctx, primary)
		if err != nil {
			log.Printf("[cycle] Derived generation failed: %v — keeping cycle with primary only", err)
		} else if derivedPub, err := r.publishArtifact(ctx, derived); err != nil {
			log.Printf("[cycle] Derived publish failed: %v — keeping cycle with primary only", err)
		} else {
			artifacts = append(artifacts, *derivedPub)
		}
	}

	return types.CycleResult{
		Status:    types.StatusSuccess,
		Artifacts: artifacts,
		Timestamp: time.Now().UTC(),
	}
}

// publishArtifact uploads one artifact and best-effort attaches its
// thumbnail. A thumbnail attach failure never fails the artifact.
func (r *Runner) publishArtifact(ctx context.Context, a *types.GeneratedArtifact) (*types.PublishedArtifact, error) {
	remoteID, remoteURL, err := r.publisher.Publish(ctx, a)
	if err != nil {
		return nil, err
	}

	if a.ThumbnailFile != "" {
		if err := r.publisher.AttachThumbnail(ctx, remoteID, a.ThumbnailFile); err != nil {
			log.Printf("[cycle] Warning: thumbnail attach failed for %s: %v", remoteID, err)
		}
	}

	return &types.PublishedArtifact{
		Kind:        a.Kind,
		RemoteID:    remoteID,
		RemoteURL:   remoteURL,
		Title:       a.Script.Title,
		Description: a.Script.Description,
		Tags:        a.Script.Tags,
	}, nil
}

func failure(cause string) types.CycleResult {
	return types.CycleResult{
		Status:    types.StatusFailure,
		Error:     cause,
		Timestamp: time.Now().UTC(),
	}
}
