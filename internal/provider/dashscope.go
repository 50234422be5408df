package provider

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-hclog"
)

var _ Client = (*dashScopeClient)(nil)

// dashScopeClient speaks the DashScope text-generation API (Qwen models).
// The request nests messages under 'input' with sampling settings under
// 'parameters', unlike the OpenAI-compatible providers.
type dashScopeClient struct {
	logger     hclog.Logger
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type dashScopeRequest struct {
	Model string `json:"model"`
	Input struct {
		Messages []chatMessage `json:"messages"`
	} `json:"input"`
	Parameters struct {
		Temperature  float64 `json:"temperature"`
		TopP         float64 `json:"top_p"`
		MaxTokens    int     `json:"max_tokens"`
		ResultFormat string  `json:"result_format"`
	} `json:"parameters"`
}

type dashScopeResponse struct {
	Output struct {
		Choices []struct {
			Message chatMessage `json:"message"`
		} `json:"choices"`
		Text string `json:"text"`
	} `json:"output"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (c *dashScopeClient) Test(ctx context.Context, model string, prompt string) (TestReport, error) {
	if model == "" {
		model = DashScope.DefaultModel()
	}
	if prompt == "" {
		prompt = DefaultTestPrompt
	}

	report := TestReport{Provider: DashScope, Model: model}

	payload := dashScopeRequest{Model: model}
	payload.Input.Messages = []chatMessage{
		{Role: "user", Content: prompt},
	}
	payload.Parameters.Temperature = 0.7
	payload.Parameters.TopP = 0.9
	payload.Parameters.MaxTokens = 200
	payload.Parameters.ResultFormat = "message"

	url := c.baseURL + "/services/aigc/text-generation/generation"

	start := time.Now()
	var resp dashScopeResponse
	if err := postJSON(ctx, c.httpClient, url, c.apiKey, payload, &resp); err != nil {
		return report, err
	}
	report.Latency = time.Since(start)

	if resp.Code != "" {
		return report, fmt.Errorf("API returned error code '%s': %s", resp.Code, resp.Message)
	}

	switch {
	case len(resp.Output.Choices) > 0:
		report.Sample = truncateSample(resp.Output.Choices[0].Message.Content)
	case resp.Output.Text != "":
		report.Sample = truncateSample(resp.Output.Text)
	default:
		return report, fmt.Errorf("unexpected response format: no output returned")
	}

	c.logger.Debug("Generation test successful", "model", model, "latency", report.Latency)

	return report, nil
}
