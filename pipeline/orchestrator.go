package pipeline

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"horror-pipeline/config"
	"horror-pipeline/types"
)

// ScriptWriter generates script text and metadata
type ScriptWriter interface {
	Write(ctx context.Context, class types.ArtifactClass, targetMinutes, wordTarget int, topic string) (*types.Script, error)
	Derive(ctx context.Context, primary *types.Script) (*types.Script, error)
}

// AudioSynthesizer turns narration text into an audio file
type AudioSynthesizer interface {
	Synthesize(ctx context.Context, text, baseName string) (string, error)
}

// VideoAssembler builds video files from audio, and re-cuts Shorts
type VideoAssembler interface {
	Assemble(ctx context.Context, audioFile string, class types.ArtifactClass, baseName string) (string, error)
	CutShort(ctx context.Context, videoFile, baseName string) (string, error)
}

// ThumbnailGenerator creates a thumbnail image from a title
type ThumbnailGenerator interface {
	Generate(ctx context.Context, title, baseName string) (string, error)
}

// TopicFinder looks up a trending theme to seed script generation
type TopicFinder interface {
	Find(ctx context.Context) (string, error)
}

// Deps are the generation collaborators the orchestrator sequences.
// Topics is optional; the other four are required.
type Deps struct {
	Writer     ScriptWriter
	Audio      AudioSynthesizer
	Video      VideoAssembler
	Thumbnails ThumbnailGenerator
	Topics     TopicFinder
}

// Orchestrator runs the per-artifact stage chain:
// script → audio → video → thumbnail.
// Any stage failure abandons the artifact and propagates; retry decisions
// belong to the caller.
type Orchestrator struct {
	cfg  *config.Config
	deps Deps
	rng  *rand.Rand
}

// New creates an Orchestrator. rng may be nil, in which case a time-seeded
// source is used.
func New(cfg *config.Config, deps Deps, rng *rand.Rand) *Orchestrator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Orchestrator{cfg: cfg, deps: deps, rng: rng}
}

// Plan selects the artifact shapes for this cycle
func (o *Orchestrator) Plan() CyclePlan {
	plan := ChoosePlan(o.rng, o.cfg.Script)
	log.Printf("[pipeline] Plan: %s, %d min target, derived short: %v", plan.Class, plan.TargetMinutes, plan.IncludeDerived)
	return plan
}

// GeneratePrimary produces the cycle's primary artifact end to end
func (o *Orchestrator) GeneratePrimary(ctx context.Context, plan CyclePlan) (*types.GeneratedArtifact, error) {
	id := uuid.NewString()[:8]
	base := fmt.Sprintf("%s_%s", plan.Class, id)

	topic := ""
	if o.deps.Topics != nil {
		t, err := o.deps.Topics.Find(ctx)
		if err != nil {
			log.Printf("[pipeline] Topic lookup failed: %v — generating without a seed", err)
		} else {
			topic = t
		}
	}

	script, err := o.deps.Writer.Write(ctx, plan.Class, plan.TargetMinutes, plan.WordTarget, topic)
	if err != nil {
		return nil, fmt.Errorf("script stage: %w", err)
	}

	audioFile, err := o.deps.Audio.Synthesize(ctx, script.Narration, base)
	if err != nil {
		return nil, fmt.Errorf("audio stage: %w", err)
	}

	videoFile, err := o.deps.Video.Assemble(ctx, audioFile, plan.Class, base)
	if err != nil {
		return nil, fmt.Errorf("video stage: %w", err)
	}

	thumbFile, err := o.deps.Thumbnails.Generate(ctx, script.Title, base)
	if err != nil {
		return nil, fmt.Errorf("thumbnail stage: %w", err)
	}

	return &types.GeneratedArtifact{
		ID:            id,
		Kind:          types.KindPrimary,
		Class:         plan.Class,
		Script:        *script,
		AudioFile:     audioFile,
		VideoFile:     videoFile,
		ThumbnailFile: thumbFile,
	}, nil
}

// GenerateDerived builds a Short from an already completed primary
// artifact, re-cutting its assembled video and narration
func (o *Orchestrator) GenerateDerived(ctx context.Context, primary *types.GeneratedArtifact) (*types.GeneratedArtifact, error) {
	id := uuid.NewString()[:8]
	base := fmt.Sprintf("short_%s", id)

	script, err := o.deps.Writer.Derive(ctx, &primary.Script)
	if err != nil {
		return nil, fmt.Errorf("script stage: %w", err)
	}

	videoFile, err := o.deps.Video.CutShort(ctx, primary.VideoFile, base)
	if err != nil {
		return nil, fmt.Errorf("video stage: %w", err)
	}

	thumbFile, err := o.deps.Thumbnails.Generate(ctx, script.Title, base)
	if err != nil {
		return nil, fmt.Errorf("thumbnail stage: %w", err)
	}

	return &types.GeneratedArtifact{
		ID:            id,
		Kind:          types.KindDerived,
		Class:         types.ClassShortForm,
		Script:        *script,
		AudioFile:     primary.AudioFile,
		VideoFile:     videoFile,
		ThumbnailFile: thumbFile,
	}, nil
}
