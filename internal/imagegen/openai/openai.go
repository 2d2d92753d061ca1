package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/pantryledger/pantryledger/internal/imagegen"
)

const DefaultAPIURL = "https://api.openai.com"

type imageRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size"`
}

type imageResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

// ImageGenerator calls an OpenAI-compatible images endpoint.
type ImageGenerator struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewImageGenerator(baseURL, apiKey, model string) *ImageGenerator {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	return &ImageGenerator{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (g *ImageGenerator) Generate(ctx context.Context, p imagegen.Prompt) (string, error) {
	payload, err := json.Marshal(imageRequest{
		Model:  g.model,
		Prompt: p.Text(),
		N:      1,
		Size:   "1024x1024",
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/images/generations", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call image api: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("failed to close image api response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("image api returned status %d: %s", resp.StatusCode, errBody)
	}

	var body imageResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(body.Data) == 0 || body.Data[0].URL == "" {
		return "", fmt.Errorf("image api returned no image")
	}

	return body.Data[0].URL, nil
}
