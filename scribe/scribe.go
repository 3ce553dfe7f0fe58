// Package scribe infers catalog metadata from raw manuscript text by
// calling the Gemini generateContent API with a strict response
// schema.
//
// The client is stateless and safe for concurrent use. All failures
// map onto four sentinel errors so callers can translate them into
// user-facing guidance without inspecting transport details:
// ErrNotConfigured, ErrRefused, ErrMalformed, ErrFailed.
package scribe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrNotConfigured means no API key is present. Deployment issue,
	// not a user mistake.
	ErrNotConfigured = errors.New("scribe: not configured")

	// ErrRefused means the model declined the manuscript, typically a
	// safety block.
	ErrRefused = errors.New("scribe: model refused manuscript")

	// ErrMalformed means the model answered but the payload did not
	// parse into the expected metadata shape. Usually transient.
	ErrMalformed = errors.New("scribe: malformed model response")

	// ErrFailed covers everything else: network, quota, 5xx.
	ErrFailed = errors.New("scribe: inference failed")
)

// Analysis is the structured metadata inferred from a manuscript.
type Analysis struct {
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Year        int      `json:"year"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// Config controls the client. Zero values get sensible defaults.
type Config struct {
	// APIKey authenticates against the API. Empty means the client is
	// unconfigured and every Analyze call fails with ErrNotConfigured.
	APIKey string

	// BaseURL of the API host (default Google's production endpoint).
	// Override in tests.
	BaseURL string

	// Model name (default "gemini-2.5-flash").
	Model string

	// Timeout bounds the whole HTTP exchange (default 2m; large
	// manuscripts take a while).
	Timeout time.Duration

	// MaxChars truncates the manuscript before sending (default
	// 30000 runes) to keep payloads bounded.
	MaxChars int

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://generativelanguage.googleapis.com"
	}
	if c.Model == "" {
		c.Model = "gemini-2.5-flash"
	}
	if c.Timeout <= 0 {
		c.Timeout = 2 * time.Minute
	}
	if c.MaxChars <= 0 {
		c.MaxChars = 30000
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Client calls the generateContent endpoint.
type Client struct {
	cfg  Config
	http *http.Client
	log  *slog.Logger
}

// New builds a Client from cfg.
func New(cfg Config) *Client {
	cfg.defaults()
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  cfg.Logger,
	}
}

// Configured reports whether an API key is present. The check fails
// closed: no key, no inference.
func (c *Client) Configured() bool {
	return c.cfg.APIKey != ""
}

const systemInstruction = `You are an expert librarian AI for the "Arcane Archives," a digital library of esoteric and occult texts. Your task is to analyze a provided manuscript text and extract key metadata. Based on the text, you must infer or identify the title, author, year of publication, provide a concise summary, and generate relevant tags. You must return this information in the specified JSON format.`

const tagVocabulary = "Hermeticism, Metaphysics, Alchemy, Gnosticism, Philosophy, Occult, Symbolism, Tarot, Thelema, Magic, Renaissance, Kabbalah, Mysticism, Judaism, Coptic, Psychology, Astrology, Christian Hermeticism, Rosicrucianism"

// Analyze sends the manuscript text to the model and returns the
// inferred metadata. The text is truncated to MaxChars runes first.
func (c *Client) Analyze(ctx context.Context, text string) (*Analysis, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("%w: missing API key", ErrNotConfigured)
	}

	if runes := []rune(text); len(runes) > c.cfg.MaxChars {
		text = string(runes[:c.cfg.MaxChars])
	}

	raw, err := c.generate(ctx, text)
	if err != nil {
		return nil, err
	}

	var out Analysis
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if strings.TrimSpace(out.Title) == "" {
		return nil, fmt.Errorf("%w: missing title", ErrMalformed)
	}
	if strings.TrimSpace(out.Author) == "" {
		out.Author = "Unknown"
	}
	return &out, nil
}

func (c *Client) generate(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: systemInstruction}}},
		Contents:          []content{{Parts: []part{{Text: text}}}},
		GenerationConfig: generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   analysisSchema(),
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: marshal request: %v", ErrFailed, err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent",
		strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: POST %s: %v", ErrFailed, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		c.log.Warn("inference rejected", "status", resp.StatusCode, "model", c.cfg.Model)
		switch {
		case resp.StatusCode == http.StatusUnauthorized,
			resp.StatusCode == http.StatusForbidden,
			bytes.Contains(respBody, []byte("API_KEY_INVALID")):
			return "", fmt.Errorf("%w: HTTP %d", ErrNotConfigured, resp.StatusCode)
		default:
			return "", fmt.Errorf("%w: HTTP %d from model API", ErrFailed, resp.StatusCode)
		}
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrMalformed, err)
	}

	if len(result.Candidates) == 0 {
		if reason := result.PromptFeedback.BlockReason; reason != "" {
			return "", fmt.Errorf("%w: prompt blocked (%s)", ErrRefused, reason)
		}
		return "", fmt.Errorf("%w: no candidates returned", ErrFailed)
	}
	cand := result.Candidates[0]
	if cand.FinishReason == "SAFETY" || cand.FinishReason == "PROHIBITED_CONTENT" {
		return "", fmt.Errorf("%w: finish reason %s", ErrRefused, cand.FinishReason)
	}

	var sb strings.Builder
	for _, p := range cand.Content.Parts {
		sb.WriteString(p.Text)
	}
	raw := strings.TrimSpace(sb.String())
	if raw == "" {
		return "", fmt.Errorf("%w: empty response text", ErrFailed)
	}
	return raw, nil
}
