package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-hclog"
)

var _ Client = (*deepSeekClient)(nil)

// deepSeekClient speaks the DeepSeek OpenAI-compatible chat completions API.
type deepSeekClient struct {
	logger     hclog.Logger
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Stream      bool          `json:"stream"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type modelListResponse struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

func (c *deepSeekClient) Test(ctx context.Context, model string, prompt string) (TestReport, error) {
	if model == "" {
		model = DeepSeek.DefaultModel()
	}
	if prompt == "" {
		prompt = DefaultTestPrompt
	}

	report := TestReport{Provider: DeepSeek, Model: model}

	// List models first, a cheap check that auth and routing are correct.
	models, err := c.listModels(ctx)
	if err != nil {
		return report, err
	}
	report.Models = models

	payload := chatCompletionRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are DeepSeek, a helpful AI assistant."},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.7,
		MaxTokens:   200,
	}

	start := time.Now()
	var completion chatCompletionResponse
	if err := postJSON(ctx, c.httpClient, c.baseURL+"/v1/chat/completions", c.apiKey, payload, &completion); err != nil {
		return report, err
	}
	report.Latency = time.Since(start)

	if len(completion.Choices) == 0 {
		return report, fmt.Errorf("unexpected response format: no choices returned")
	}
	report.Sample = truncateSample(completion.Choices[0].Message.Content)

	c.logger.Debug("Completion test successful", "model", model, "latency", report.Latency)

	return report, nil
}

func (c *deepSeekClient) listModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/models", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create models request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("models request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("models request returned status %d: %s", resp.StatusCode, string(body))
	}

	var models modelListResponse
	if err := json.NewDecoder(resp.Body).Decode(&models); err != nil {
		return nil, fmt.Errorf("failed to decode models response: %w", err)
	}

	ids := make([]string, 0, len(models.Data))
	for _, m := range models.Data {
		ids = append(ids, m.ID)
	}

	return ids, nil
}

// postJSON sends an authenticated JSON POST and decodes the JSON response into out.
func postJSON(ctx context.Context, client *http.Client, url string, apiKey string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("API request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
