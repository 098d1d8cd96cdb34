package pipeline

import (
	"math/rand"

	"horror-pipeline/config"
	"horror-pipeline/types"
)

// CyclePlan fixes the artifact shapes for one cycle: the class and target
// duration of the primary video, and whether a derived Short follows it.
type CyclePlan struct {
	Class          types.ArtifactClass
	TargetMinutes  int
	WordTarget     int
	IncludeDerived bool
}

// ChoosePlan picks the plan for a cycle. With the configured probability
// (default 0.7) it selects long-form content with a duration drawn
// uniformly from [LongMinMinutes, LongMaxMinutes] plus a derived Short;
// otherwise a single short-form video. The word target drives the script
// stage at WordsPerMinute words per target minute.
func ChoosePlan(rng *rand.Rand, cfg config.ScriptConfig) CyclePlan {
	if rng.Float64() < cfg.LongFormProbability {
		minutes := cfg.LongMinMinutes + rng.Intn(cfg.LongMaxMinutes-cfg.LongMinMinutes+1)
		return CyclePlan{
			Class:          types.ClassLongForm,
			TargetMinutes:  minutes,
			WordTarget:     minutes * cfg.WordsPerMinute,
			IncludeDerived: true,
		}
	}
	return CyclePlan{
		Class:          types.ClassShortForm,
		TargetMinutes:  cfg.ShortMinutes,
		WordTarget:     cfg.ShortMinutes * cfg.WordsPerMinute,
		IncludeDerived: false,
	}
}
