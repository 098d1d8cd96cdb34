package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Script    ScriptConfig    `yaml:"script"`
	Audio     AudioConfig     `yaml:"audio"`
	Video     VideoConfig     `yaml:"video"`
	Thumbnail ThumbnailConfig `yaml:"thumbnail"`
	Research  ResearchConfig  `yaml:"research"`
	Upload    UploadConfig    `yaml:"upload"`
	Schedule  ScheduleConfig  `yaml:"schedule"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Paths     PathsConfig     `yaml:"paths"`
}

type ScriptConfig struct {
	Model               string  `yaml:"model"`
	Temperature         float64 `yaml:"temperature"`
	LongFormProbability float64 `yaml:"longform_probability"`
	LongMinMinutes      int     `yaml:"long_min_minutes"`
	LongMaxMinutes      int     `yaml:"long_max_minutes"`
	ShortMinutes        int     `yaml:"short_minutes"`
	WordsPerMinute      int     `yaml:"words_per_minute"`
}

type AudioConfig struct {
	Model string  `yaml:"model"`
	Voice string  `yaml:"voice"`
	Speed float64 `yaml:"speed"`
}

type VideoConfig struct {
	CRF         int `yaml:"crf"`
	ShortMaxSec int `yaml:"short_max_sec"`
}

type ThumbnailConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Model  string `yaml:"model"`
}

type ResearchConfig struct {
	Enabled       bool     `yaml:"enabled"`
	Subreddits    []string `yaml:"subreddits"`
	TopPostsLimit int      `yaml:"top_posts_limit"`
	TimePeriod    string   `yaml:"time_period"`
}

type UploadConfig struct {
	Visibility        string `yaml:"visibility"`
	CategoryID        string `yaml:"youtube_category_id"`
	NotifySubscribers bool   `yaml:"notify_subscribers"`
	MadeForKids       bool   `yaml:"made_for_kids"`
	DefaultLanguage   string `yaml:"default_language"`
}

type ScheduleConfig struct {
	IntervalMinutes int  `yaml:"interval_minutes"`
	RunImmediately  bool `yaml:"run_immediately"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

type PathsConfig struct {
	Output string `yaml:"output"`
}

// Load reads config.yaml (missing file means defaults) and applies
// environment overrides on top
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// run on defaults + env only
	default:
		return nil, err
	}

	applyEnv(cfg)

	if cfg.Schedule.IntervalMinutes <= 0 {
		return nil, fmt.Errorf("interval must be a positive number of minutes, got %d", cfg.Schedule.IntervalMinutes)
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Script: ScriptConfig{
			Model:               "gpt-4o-mini",
			Temperature:         0.9,
			LongFormProbability: 0.7,
			LongMinMinutes:      2,
			LongMaxMinutes:      5,
			ShortMinutes:        1,
			WordsPerMinute:      150,
		},
		Audio: AudioConfig{
			Model: "tts-1",
			Voice: "onyx",
			Speed: 0.95,
		},
		Video: VideoConfig{
			CRF:         23,
			ShortMaxSec: 60,
		},
		Thumbnail: ThumbnailConfig{
			Width:  1792,
			Height: 1024,
			Model:  "flux",
		},
		Research: ResearchConfig{
			Enabled:       false,
			Subreddits:    []string{"nosleep", "shortscarystories"},
			TopPostsLimit: 10,
			TimePeriod:    "week",
		},
		Upload: UploadConfig{
			Visibility:      "public",
			CategoryID:      "24", // Entertainment
			DefaultLanguage: "en",
		},
		Schedule: ScheduleConfig{
			IntervalMinutes: 288, // 4.8 hours
			RunImmediately:  true,
		},
		Metrics: MetricsConfig{
			Addr: ":9090",
		},
		Paths: PathsConfig{
			Output: "outputs",
		},
	}
}

// applyEnv overlays the environment variables the deployment sets on top of
// the file config
func applyEnv(cfg *Config) {
	v := viper.New()
	v.BindEnv("interval_minutes", "AUTOMATION_INTERVAL_MINUTES")
	v.BindEnv("run_immediately", "RUN_IMMEDIATELY")
	v.BindEnv("metrics_addr", "METRICS_ADDR")

	if v.IsSet("interval_minutes") {
		cfg.Schedule.IntervalMinutes = v.GetInt("interval_minutes")
	}
	if v.IsSet("run_immediately") {
		cfg.Schedule.RunImmediately = v.GetBool("run_immediately")
	}
	if v.IsSet("metrics_addr") {
		cfg.Metrics.Addr = v.GetString("metrics_addr")
		cfg.Metrics.Enabled = true
	}
}
