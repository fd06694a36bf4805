package musicgen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/suwook2/project-musicgen/core/errs"
	"github.com/suwook2/project-musicgen/logger"
)

// Client talks to the musicgen inference sidecar.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// NewClient creates a sidecar client. timeout bounds a single generation
// request end to end.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		timeout:    timeout,
		httpClient: &http.Client{},
	}
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	SampleRate int    `json:"sampleRate"`
	Audio      string `json:"audio"` // base64 16-bit LE mono PCM
}

// Synthesize sends the prompt to the sidecar and returns the decoded PCM
// buffer. Any sidecar or decode failure surfaces as ErrGenerationFailed
// carrying the underlying cause.
func (c *Client) Synthesize(ctx context.Context, prompt string) (*Audio, error) {
	if err := validatePrompt(prompt); err != nil {
		return nil, err
	}

	body, err := json.Marshal(generateRequest{Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrGenerationFailed, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrGenerationFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrGenerationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: sidecar returned %d: %s", errs.ErrGenerationFailed, resp.StatusCode, bytes.TrimSpace(msg))
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return nil, fmt.Errorf("%w: decoding sidecar response: %v", errs.ErrGenerationFailed, err)
	}

	pcm, err := base64.StdEncoding.DecodeString(genResp.Audio)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding audio payload: %v", errs.ErrGenerationFailed, err)
	}
	if genResp.SampleRate <= 0 || len(pcm) == 0 || len(pcm)%2 != 0 {
		return nil, fmt.Errorf("%w: sidecar returned malformed audio (rate=%d, bytes=%d)",
			errs.ErrGenerationFailed, genResp.SampleRate, len(pcm))
	}

	logger.Info("music generated",
		logger.Int("sampleRate", genResp.SampleRate),
		logger.Int("pcmBytes", len(pcm)),
		logger.Duration("elapsed", time.Since(start)),
	)

	return &Audio{SampleRate: genResp.SampleRate, PCM: pcm}, nil
}
