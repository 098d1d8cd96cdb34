package video

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"horror-pipeline/config"
	"horror-pipeline/types"
)

// Assembler builds videos with ffmpeg: narration audio over an animated
// dark backdrop for primaries, and vertical re-cuts for derived Shorts
type Assembler struct {
	cfg *config.Config
}

// New creates a new Assembler
func New(cfg *config.Config) *Assembler {
	return &Assembler{cfg: cfg}
}

// Assemble renders the narration audio into a full video.
// Long-form content is 1920x1080, short-form is 1080x1920 vertical.
func (a *Assembler) Assemble(ctx context.Context, audioFile string, class types.ArtifactClass, baseName string) (string, error) {
	log.Printf("[video] Assembling %s video with FFmpeg...", class)

	dur, err := probeDuration(ctx, audioFile)
	if err != nil {
		return "", fmt.Errorf("probe audio duration: %w", err)
	}

	width, height := 1920, 1080
	if class == types.ClassShortForm {
		width, height = 1080, 1920
	}

	outDir := filepath.Join(a.cfg.Paths.Output, "videos")
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("create video dir: %w", err)
	}
	outFile := filepath.Join(outDir, baseName+".mp4")

	cmd := exec.CommandContext(ctx, "ffmpeg",
		assembleArgs(width, height, dur, a.cfg.Video.CRF, audioFile, outFile)...,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ffmpeg assemble: %w", err)
	}

	log.Printf("[video] ✅ Video created: %s (%.1fs)", outFile, dur)
	return outFile, nil
}

// assembleArgs builds the ffmpeg invocation for a primary video: a dark
// backdrop with film grain chained onto it (noise is a filter, so it
// rides the second color source rather than standing alone as an input),
// blended over the base and faded in and out with the narration.
func assembleArgs(width, height int, dur float64, crf int, audioFile, outFile string) []string {
	fadeOut := dur - 1
	if fadeOut < 0 {
		fadeOut = 0
	}
	filter := fmt.Sprintf(
		"[0:v][1:v]blend=all_mode=overlay:all_opacity=0.3[bg];"+
			"[bg]fade=t=in:st=0:d=1,fade=t=out:st=%.2f:d=1[v]",
		fadeOut,
	)

	return []string{"-y",
		"-f", "lavfi", "-i", fmt.Sprintf("color=c=0x0a0a0a:s=%dx%d:d=%.2f", width, height, dur),
		"-f", "lavfi", "-i", fmt.Sprintf("color=c=0x1a1a1a:s=%dx%d:d=%.2f,noise=alls=10:allf=t", width, height, dur),
		"-i", audioFile,
		"-filter_complex", filter,
		"-map", "[v]", "-map", "2:a",
		"-c:v", "libx264", "-preset", "medium", "-crf", fmt.Sprintf("%d", crf),
		"-c:a", "aac", "-b:a", "192k",
		"-movflags", "+faststart",
		outFile,
	}
}

// CutShort re-cuts the opening of an assembled long-form video into a
// vertical clip for Shorts, reusing its audio track
func (a *Assembler) CutShort(ctx context.Context, videoFile, baseName string) (string, error) {
	log.Println("[video] Re-cutting Short from primary video...")

	outDir := filepath.Join(a.cfg.Paths.Output, "videos")
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("create video dir: %w", err)
	}
	outFile := filepath.Join(outDir, baseName+".mp4")

	maxSec := a.cfg.Video.ShortMaxSec
	if maxSec <= 0 {
		maxSec = 60
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-t", fmt.Sprintf("%d", maxSec),
		"-i", videoFile,
		"-vf", "crop=ih*9/16:ih,scale=1080:1920,setsar=1",
		"-c:v", "libx264", "-preset", "fast", "-crf", fmt.Sprintf("%d", a.cfg.Video.CRF),
		"-c:a", "aac", "-b:a", "192k",
		"-movflags", "+faststart",
		outFile,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ffmpeg recut: %w", err)
	}

	log.Printf("[video] ✅ Short created: %s", outFile)
	return outFile, nil
}

// probeDuration uses ffprobe to get accurate media duration in seconds
func probeDuration(ctx context.Context, mediaFile string) (float64, error) {
	out, err := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		mediaFile,
	).Output()
	if err != nil {
		return 0, err
	}
	var dur float64
	_, err = fmt.Sscanf(strings.TrimSpace(string(out)), "%f", &dur)
	return dur, err
}
