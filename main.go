package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"horror-pipeline/audio"
	"horror-pipeline/config"
	"horror-pipeline/cycle"
	"horror-pipeline/metrics"
	"horror-pipeline/pipeline"
	"horror-pipeline/research"
	"horror-pipeline/scheduler"
	"horror-pipeline/script"
	"horror-pipeline/thumbnail"
	"horror-pipeline/upload"
	"horror-pipeline/video"
)

func main() {
	// Load .env (local dev only — production uses real env vars)
	_ = godotenv.Load()

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Ensure output dirs exist
	for _, dir := range []string{"audio", "videos", "thumbnails"} {
		if err := os.MkdirAll(filepath.Join(cfg.Paths.Output, dir), 0755); err != nil {
			log.Fatalf("Failed to create output dir %s: %v", dir, err)
		}
	}

	log.Println("🎬 Horror automation pipeline starting")

	deps := pipeline.Deps{
		Writer:     script.New(cfg),
		Audio:      audio.New(cfg),
		Video:      video.New(cfg),
		Thumbnails: thumbnail.New(cfg),
	}
	if cfg.Research.Enabled {
		finder, err := research.New(cfg.Research)
		if err != nil {
			log.Printf("Topic research disabled: %v", err)
		} else {
			deps.Topics = finder
		}
	}

	orchestrator := pipeline.New(cfg, deps, nil)
	runner := cycle.New(orchestrator, upload.New(cfg))

	sched := scheduler.New(
		runner,
		time.Duration(cfg.Schedule.IntervalMinutes)*time.Minute,
		cfg.Schedule.RunImmediately,
	)

	m := metrics.New()
	sched.OnCycle(m.RecordCycle)
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.Handler())
		go func() {
			log.Printf("Metrics listening on %s", cfg.Metrics.Addr)
			if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
				log.Printf("Metrics server error: %v", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Scheduler stopped with error: %v", err)
	}

	stats := sched.Stats()
	log.Printf("Shutdown complete — %d cycles run (%d ok, %d failed)", stats.TotalRuns, stats.SuccessfulRuns, stats.FailedRuns)
}
