package thumbnail

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"horror-pipeline/config"
)

const defaultEndpoint = "https://image.pollinations.ai/prompt"

// Generator creates AI thumbnail images via Pollinations.ai (free, no key needed)
type Generator struct {
	cfg        *config.Config
	httpClient *http.Client
	endpoint   string
}

// New creates a new thumbnail Generator
func New(cfg *config.Config) *Generator {
	return &Generator{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		endpoint:   defaultEndpoint,
	}
}

// Generate creates a thumbnail image for the video title and saves it locally
func (g *Generator) Generate(ctx context.Context, title, baseName string) (string, error) {
	if title == "" {
		return "", fmt.Errorf("no title for thumbnail prompt")
	}

	prompt := buildPrompt(title)

	imageURL := fmt.Sprintf(
		"%s/%s?width=%d&height=%d&nologo=true&model=%s",
		g.endpoint,
		url.PathEscape(prompt),
		g.cfg.Thumbnail.Width,
		g.cfg.Thumbnail.Height,
		g.cfg.Thumbnail.Model,
	)

	outDir := filepath.Join(g.cfg.Paths.Output, "thumbnails")
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("create thumbnail dir: %w", err)
	}
	outFile := filepath.Join(outDir, baseName+".png")

	log.Printf("[thumbnail] Generating thumbnail for %q...", title)

	// Retry up to 3 times (the image API occasionally times out)
	var err error
	for attempt := 1; attempt <= 3; attempt++ {
		err = g.downloadImage(ctx, imageURL, outFile)
		if err == nil {
			log.Printf("[thumbnail] ✅ Thumbnail saved: %s", outFile)
			return outFile, nil
		}
		log.Printf("[thumbnail] Attempt %d failed: %v", attempt, err)
		time.Sleep(time.Duration(attempt) * 3 * time.Second)
	}

	return "", fmt.Errorf("thumbnail fetch failed after 3 attempts: %w", err)
}

func (g *Generator) downloadImage(ctx context.Context, imageURL, outFile string) error {
	req, err := http.NewRequestWithContext(ctx, "GET", imageURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; HorrorPipeline/1.0)")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from image API", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	// Validate it's actually an image (not an error HTML page)
	if len(data) < 100 {
		return fmt.Errorf("response too small (%d bytes) — likely an error", len(data))
	}

	return os.WriteFile(outFile, data, 0644)
}

// buildPrompt wraps the video title in the channel's thumbnail aesthetic
func buildPrompt(title string) string {
	return fmt.Sprintf(
		"Dark eerie horror thumbnail for YouTube. Theme: %s. Style: cinematic, dramatic lighting, red and black colors, mysterious atmosphere, high contrast, no text, no watermark",
		title,
	)
}
