package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"horror-pipeline/config"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Synthesizer turns narration text into an mp3 via the OpenAI TTS API
type Synthesizer struct {
	cfg        *config.Config
	httpClient *http.Client
}

// New creates a new Synthesizer
func New(cfg *config.Config) *Synthesizer {
	return &Synthesizer{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

type speechRequest struct {
	Model          string  `json:"model"`
	Voice          string  `json:"voice"`
	Input          string  `json:"input"`
	Speed          float64 `json:"speed"`
	ResponseFormat string  `json:"response_format"`
}

// Synthesize generates narration audio and returns the path to the mp3
func (s *Synthesizer) Synthesize(ctx context.Context, text, baseName string) (string, error) {
	log.Println("[audio] Generating TTS narration...")

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY not set")
	}

	outDir := filepath.Join(s.cfg.Paths.Output, "audio")
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("create audio dir: %w", err)
	}
	outFile := filepath.Join(outDir, baseName+".mp3")

	// Retry up to 3 times — the TTS endpoint occasionally times out
	var err error
	for attempt := 1; attempt <= 3; attempt++ {
		err = s.fetchSpeech(ctx, apiKey, text, outFile)
		if err == nil {
			log.Printf("[audio] ✅ Narration saved: %s", outFile)
			return outFile, nil
		}
		log.Printf("[audio] TTS attempt %d failed: %v — retrying...", attempt, err)
		time.Sleep(time.Duration(attempt) * 2 * time.Second)
	}
	return "", fmt.Errorf("tts failed after 3 attempts: %w", err)
}

func (s *Synthesizer) fetchSpeech(ctx context.Context, apiKey, text, outFile string) error {
	reqBody := speechRequest{
		Model:          s.cfg.Audio.Model,
		Voice:          s.cfg.Audio.Voice,
		Input:          text,
		Speed:          s.cfg.Audio.Speed,
		ResponseFormat: "mp3",
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", baseURL()+"/audio/speech", bytes.NewReader(bodyBytes))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("tts HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(errBody)))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if len(data) < 100 {
		return fmt.Errorf("tts response too small (%d bytes)", len(data))
	}

	return os.WriteFile(outFile, data, 0644)
}

func baseURL() string {
	if u := os.Getenv("OPENAI_BASE_URL"); u != "" {
		return strings.TrimSuffix(u, "/")
	}
	return defaultBaseURL
}
