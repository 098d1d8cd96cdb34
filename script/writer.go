package script

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"horror-pipeline/config"
	"horror-pipeline/types"
)

const defaultBaseURL = "https://api.openai.com/v1"

const systemPrompt = `You are a professional horror content writer for YouTube. Create engaging, scary stories that keep viewers hooked.

You MUST respond with ONLY valid JSON — no preamble, no markdown, no explanation.

The JSON must have exactly these fields:
- "title": string
- "narration": string (the exact words to be spoken)
- "description": string
- "tags": array of strings`

// Writer generates scripts and metadata via the OpenAI chat completions API
type Writer struct {
	cfg        *config.Config
	httpClient *http.Client
}

// New creates a new script Writer
func New(cfg *config.Config) *Writer {
	return &Writer{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat *respFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type respFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Write generates a full script for the cycle's planned artifact shape.
// topic may be empty; when set it seeds the story theme.
func (w *Writer) Write(ctx context.Context, class types.ArtifactClass, targetMinutes, wordTarget int, topic string) (*types.Script, error) {
	log.Printf("[script] Generating %s horror script (~%d min, ~%d words)...", class, targetMinutes, wordTarget)

	var prompt string
	if class == types.ClassShortForm {
		prompt = buildShortPrompt(topic)
	} else {
		prompt = buildLongPrompt(targetMinutes, wordTarget, topic)
	}

	script, err := w.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	log.Printf("[script] ✅ Script ready: %q (%d words)", script.Title, len(strings.Fields(script.Narration)))
	return script, nil
}

// Derive generates Shorts metadata for a clip re-cut from an already
// generated long-form script. The clip reuses the primary's narration, so
// only title, description and tags are produced.
func (w *Writer) Derive(ctx context.Context, primary *types.Script) (*types.Script, error) {
	log.Printf("[script] Generating Shorts metadata derived from %q...", primary.Title)

	var sb strings.Builder
	sb.WriteString("A 60-second YouTube Short has been cut from the opening of the following horror video.\n\n")
	sb.WriteString(fmt.Sprintf("FULL VIDEO TITLE: %s\n\n", primary.Title))
	sb.WriteString(fmt.Sprintf("OPENING NARRATION:\n%s\n\n", excerpt(primary.Narration, 500)))
	sb.WriteString("Write metadata for the Short:\n")
	sb.WriteString("- title: attention-grabbing, under 70 characters, with #shorts\n")
	sb.WriteString("- narration: empty string (the audio is reused from the full video)\n")
	sb.WriteString("- description: 2-3 sentences teasing the full story\n")
	sb.WriteString("- tags: 5 relevant hashtag-style tags\n\n")
	sb.WriteString("Respond ONLY with valid JSON.")

	script, err := w.complete(ctx, sb.String())
	if err != nil {
		return nil, err
	}

	log.Printf("[script] ✅ Shorts metadata ready: %q", script.Title)
	return script, nil
}

func (w *Writer) complete(ctx context.Context, userPrompt string) (*types.Script, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY not set")
	}

	reqBody := chatRequest{
		Model: w.cfg.Script.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature:    w.cfg.Script.Temperature,
		ResponseFormat: &respFormat{Type: "json_object"},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", baseURL()+"/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBytes, &chatResp); err != nil {
		return nil, fmt.Errorf("parse openai response: %w", err)
	}
	if chatResp.Error != nil {
		return nil, fmt.Errorf("openai error: %s", chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	content := cleanJSON(chatResp.Choices[0].Message.Content)

	var script types.Script
	if err := json.Unmarshal([]byte(content), &script); err != nil {
		return nil, fmt.Errorf("parse script JSON: %w\nraw content: %s", err, content[:min(200, len(content))])
	}
	if script.Title == "" {
		return nil, fmt.Errorf("script has no title")
	}

	return &script, nil
}

func buildLongPrompt(minutes, words int, topic string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Generate a %d-minute horror story for YouTube.\n\n", minutes))
	sb.WriteString("Requirements:\n")
	sb.WriteString("- Compelling hook in first 15 seconds\n")
	sb.WriteString("- Build tension gradually\n")
	sb.WriteString("- Satisfying climax and resolution\n")
	sb.WriteString(fmt.Sprintf("- Narration: %d-%d words\n", words, words+50))
	sb.WriteString("- Title with keywords for SEO (include \"TRUE\", \"REAL\", year, or location)\n")
	sb.WriteString("- Include 10 relevant tags\n\n")
	sb.WriteString("Popular themes: urban legends, true crime, paranormal, creepypasta, scary stories\n\n")
	if topic != "" {
		sb.WriteString(fmt.Sprintf("Base the story loosely on this trending theme: %s\n\n", topic))
	}
	sb.WriteString("Respond ONLY with valid JSON.")
	return sb.String()
}

func buildShortPrompt(topic string) string {
	var sb strings.Builder
	sb.WriteString("Generate a short 60-second horror story perfect for YouTube Shorts.\n\n")
	sb.WriteString("Requirements:\n")
	sb.WriteString("- Hook in first 3 seconds\n")
	sb.WriteString("- One terrifying scene or twist\n")
	sb.WriteString("- Cliffhanger ending\n")
	sb.WriteString("- Narration: 150-180 words\n")
	sb.WriteString("- Title must be attention-grabbing with numbers or questions\n")
	sb.WriteString("- Include 5 relevant hashtags\n\n")
	if topic != "" {
		sb.WriteString(fmt.Sprintf("Base the story loosely on this trending theme: %s\n\n", topic))
	}
	sb.WriteString("Respond ONLY with valid JSON.")
	return sb.String()
}

func baseURL() string {
	if u := os.Getenv("OPENAI_BASE_URL"); u != "" {
		return strings.TrimSuffix(u, "/")
	}
	return defaultBaseURL
}

// cleanJSON strips markdown fences if the model wraps its response in ```json ... ```
func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// excerpt truncates to at most n runes without splitting a multi-byte
// character mid-sequence
func excerpt(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
