package pipeline

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"horror-pipeline/config"
	"horror-pipeline/types"
)

type fakeWriter struct {
	script    *types.Script
	derived   *types.Script
	err       error
	gotTopic  string
	gotWords  int
	gotClass  types.ArtifactClass
	deriveErr error
}

func (f *fakeWriter) Write(ctx context.Context, class types.ArtifactClass, targetMinutes, wordTarget int, topic string) (*types.Script, error) {
	f.gotClass, f.gotWords, f.gotTopic = class, wordTarget, topic
	return f.script, f.err
}

func (f *fakeWriter) Derive(ctx context.Context, primary *types.Script) (*types.Script, error) {
	return f.derived, f.deriveErr
}

type fakeAudio struct {
	err     error
	gotText string
	called  bool
}

func (f *fakeAudio) Synthesize(ctx context.Context, text, baseName string) (string, error) {
	f.called, f.gotText = true, text
	return "outputs/audio/" + baseName + ".mp3", f.err
}

type fakeVideo struct {
	assembleErr error
	cutErr      error
	gotAudio    string
	gotSource   string
	called      bool
}

func (f *fakeVideo) Assemble(ctx context.Context, audioFile string, class types.ArtifactClass, baseName string) (string, error) {
	f.called, f.gotAudio = true, audioFile
	return "outputs/videos/" + baseName + ".mp4", f.assembleErr
}

func (f *fakeVideo) CutShort(ctx context.Context, videoFile, baseName string) (string, error) {
	f.gotSource = videoFile
	return "outputs/videos/" + baseName + ".mp4", f.cutErr
}

type fakeThumbs struct {
	err      error
	gotTitle string
	called   bool
}

func (f *fakeThumbs) Generate(ctx context.Context, title, baseName string) (string, error) {
	f.called, f.gotTitle = true, title
	return "outputs/thumbnails/" + baseName + ".png", f.err
}

type fakeTopics struct {
	topic string
	err   error
}

func (f *fakeTopics) Find(ctx context.Context) (string, error) { return f.topic, f.err }

func testConfig() *config.Config {
	cfg, err := config.Load("no-such-file.yaml")
	if err != nil {
		panic(err)
	}
	return cfg
}

func testScript() *types.Script {
	return &types.Script{
		Title:       "The House on Miller Road (TRUE Story)",
		Narration:   "It started with a knock nobody heard.",
		Description: "A true horror story.",
		Tags:        []string{"horror", "truestory"},
	}
}

func TestChoosePlanWordTargetTracksDuration(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	cfg := testConfig().Script

	for i := 0; i < 200; i++ {
		plan := ChoosePlan(rng, cfg)
		assert.Equal(t, plan.TargetMinutes*cfg.WordsPerMinute, plan.WordTarget)
		if plan.Class == types.ClassLongForm {
			assert.GreaterOrEqual(t, plan.TargetMinutes, cfg.LongMinMinutes)
			assert.LessOrEqual(t, plan.TargetMinutes, cfg.LongMaxMinutes)
			assert.True(t, plan.IncludeDerived)
		} else {
			assert.Equal(t, cfg.ShortMinutes, plan.TargetMinutes)
			assert.False(t, plan.IncludeDerived)
		}
	}
}

func TestChoosePlanIsDeterministicUnderSeed(t *testing.T) {
	cfg := testConfig().Script
	a := ChoosePlan(rand.New(rand.NewSource(42)), cfg)
	b := ChoosePlan(rand.New(rand.NewSource(42)), cfg)
	assert.Equal(t, a, b)
}

func TestChoosePlanLongFormFrequency(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	cfg := testConfig().Script

	long := 0
	const n = 2000
	for i := 0; i < n; i++ {
		if ChoosePlan(rng, cfg).Class == types.ClassLongForm {
			long++
		}
	}
	frac := float64(long) / n
	assert.InDelta(t, cfg.LongFormProbability, frac, 0.05)
}

func TestGeneratePrimaryThreadsStageOutputs(t *testing.T) {
	w := &fakeWriter{script: testScript()}
	a := &fakeAudio{}
	v := &fakeVideo{}
	th := &fakeThumbs{}
	o := New(testConfig(), Deps{Writer: w, Audio: a, Video: v, Thumbnails: th}, rand.New(rand.NewSource(1)))

	plan := CyclePlan{Class: types.ClassLongForm, TargetMinutes: 3, WordTarget: 450, IncludeDerived: true}
	art, err := o.GeneratePrimary(context.Background(), plan)
	require.NoError(t, err)

	assert.Equal(t, types.KindPrimary, art.Kind)
	assert.Equal(t, types.ClassLongForm, art.Class)
	assert.NotEmpty(t, art.ID)

	// Each stage consumed the prior stage's output.
	assert.Equal(t, testScript().Narration, a.gotText)
	assert.Equal(t, art.AudioFile, v.gotAudio)
	assert.Equal(t, testScript().Title, th.gotTitle)
	assert.Equal(t, 450, w.gotWords)
}

func TestGeneratePrimaryStageFailureAbandonsArtifact(t *testing.T) {
	w := &fakeWriter{script: testScript()}
	a := &fakeAudio{err: errors.New("tts HTTP 500")}
	v := &fakeVideo{}
	th := &fakeThumbs{}
	o := New(testConfig(), Deps{Writer: w, Audio: a, Video: v, Thumbnails: th}, nil)

	art, err := o.GeneratePrimary(context.Background(), CyclePlan{Class: types.ClassLongForm, TargetMinutes: 2, WordTarget: 300})
	require.Error(t, err)
	assert.Nil(t, art)
	assert.Contains(t, err.Error(), "audio stage")

	// Later stages never ran.
	assert.False(t, v.called)
	assert.False(t, th.called)
}

func TestGeneratePrimaryScriptFailureStopsEverything(t *testing.T) {
	w := &fakeWriter{err: errors.New("openai returned no choices")}
	a := &fakeAudio{}
	o := New(testConfig(), Deps{Writer: w, Audio: a, Video: &fakeVideo{}, Thumbnails: &fakeThumbs{}}, nil)

	_, err := o.GeneratePrimary(context.Background(), CyclePlan{Class: types.ClassShortForm, TargetMinutes: 1, WordTarget: 150})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "script stage")
	assert.False(t, a.called)
}

func TestGeneratePrimaryTopicFailureIsBestEffort(t *testing.T) {
	w := &fakeWriter{script: testScript()}
	o := New(testConfig(), Deps{
		Writer:     w,
		Audio:      &fakeAudio{},
		Video:      &fakeVideo{},
		Thumbnails: &fakeThumbs{},
		Topics:     &fakeTopics{err: errors.New("reddit unreachable")},
	}, nil)

	_, err := o.GeneratePrimary(context.Background(), CyclePlan{Class: types.ClassLongForm, TargetMinutes: 2, WordTarget: 300})
	require.NoError(t, err)
	assert.Empty(t, w.gotTopic)
}

func TestGeneratePrimaryPassesTopicSeed(t *testing.T) {
	w := &fakeWriter{script: testScript()}
	o := New(testConfig(), Deps{
		Writer:     w,
		Audio:      &fakeAudio{},
		Video:      &fakeVideo{},
		Thumbnails: &fakeThumbs{},
		Topics:     &fakeTopics{topic: "The lights in the cornfield"},
	}, nil)

	_, err := o.GeneratePrimary(context.Background(), CyclePlan{Class: types.ClassLongForm, TargetMinutes: 2, WordTarget: 300})
	require.NoError(t, err)
	assert.Equal(t, "The lights in the cornfield", w.gotTopic)
}

func TestGenerateDerivedReusesPrimaryMedia(t *testing.T) {
	w := &fakeWriter{derived: &types.Script{Title: "He Never Left #shorts"}}
	v := &fakeVideo{}
	th := &fakeThumbs{}
	o := New(testConfig(), Deps{Writer: w, Audio: &fakeAudio{}, Video: v, Thumbnails: th}, nil)

	primary := &types.GeneratedArtifact{
		ID:        "aaaa1111",
		Kind:      types.KindPrimary,
		Class:     types.ClassLongForm,
		Script:    *testScript(),
		AudioFile: "outputs/audio/longform_aaaa1111.mp3",
		VideoFile: "outputs/videos/longform_aaaa1111.mp4",
	}

	art, err := o.GenerateDerived(context.Background(), primary)
	require.NoError(t, err)

	assert.Equal(t, types.KindDerived, art.Kind)
	assert.Equal(t, types.ClassShortForm, art.Class)
	assert.Equal(t, primary.VideoFile, v.gotSource)
	assert.Equal(t, primary.AudioFile, art.AudioFile)
	assert.Equal(t, "He Never Left #shorts", th.gotTitle)
}

func TestGenerateDerivedVideoFailurePropagates(t *testing.T) {
	w := &fakeWriter{derived: &types.Script{Title: "x"}}
	v := &fakeVideo{cutErr: errors.New("ffmpeg recut: exit status 1")}
	o := New(testConfig(), Deps{Writer: w, Audio: &fakeAudio{}, Video: v, Thumbnails: &fakeThumbs{}}, nil)

	_, err := o.GenerateDerived(context.Background(), &types.GeneratedArtifact{VideoFile: "v.mp4", Script: *testScript()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "video stage")
}
