package provider

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-hclog"
)

var _ Client = (*openAIClient)(nil)

// openAIClient speaks the OpenAI chat completions API.
type openAIClient struct {
	logger     hclog.Logger
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func (c *openAIClient) Test(ctx context.Context, model string, prompt string) (TestReport, error) {
	if model == "" {
		model = OpenAI.DefaultModel()
	}
	if prompt == "" {
		prompt = DefaultTestPrompt
	}

	report := TestReport{Provider: OpenAI, Model: model}

	payload := chatCompletionRequest{
		Model: model,
		Messages: []chatMessage{
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
