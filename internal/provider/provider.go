// Package provider implements connectivity smoke tests for the API providers
// whose credentials devstrap manages. Each client performs a single
// chat-completion round trip and reports latency and a response sample.
package provider

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hashicorp/go-hclog"

	interrors "github.com/devstrap/devstrap/internal/errors"
)

// Name identifies a supported API provider.
type Name string

const (
	OpenAI    Name = "openai"
	DeepSeek  Name = "deepseek"
	DashScope Name = "dashscope"
)

// DefaultTestPrompt is used when the caller doesn't supply a prompt.
const DefaultTestPrompt = "Reply with a single short sentence confirming you can hear me."

// defaultTimeout bounds a single smoke-test request.
const defaultTimeout = 60 * time.Second

// AllowedProviders returns the providers that can be configured, sorted by name.
func AllowedProviders() []Name {
	names := []Name{DashScope, DeepSeek, OpenAI}

	slices.Sort(names)

	return names
}

// Parse converts user input to a known provider Name.
func Parse(s string) (Name, error) {
	name := Name(strings.ToLower(strings.TrimSpace(s)))

	if !slices.Contains(AllowedProviders(), name) {
		return "", fmt.Errorf("%w: '%s', must be one of %v", interrors.ErrUnknownProvider, s, AllowedProviders())
	}

	return name, nil
}

// EnvKey returns the dotenv key under which this provider's credential is exported.
func (n Name) EnvKey() string {
	return strings.ToUpper(string(n)) + "_API_KEY"
}

// DefaultBaseURL returns the provider's default API base URL.
func (n Name) DefaultBaseURL() string {
	switch n {
	case DeepSeek:
		return "https://api.deepseek.com"
	case DashScope:
		return "https://dashscope.aliyuncs.com/api/v1"
	case OpenAI:
		return "https://api.openai.com"
	default:
		return ""
	}
}

// DefaultModel returns the model used for smoke tests when none is configured.
func (n Name) DefaultModel() string {
	switch n {
	case DeepSeek:
		return "deepseek-chat"
	case DashScope:
		return "qwen-turbo"
	case OpenAI:
		return "gpt-4o-mini"
	default:
		return ""
	}
}

// TestReport captures the outcome of one connectivity smoke test.
type TestReport struct {
	Provider Name          `json:"provider"          yaml:"provider"`
	Model    string        `json:"model"             yaml:"model"`
	Latency  time.Duration `json:"latency"           yaml:"latency"`
	Sample   string        `json:"sample,omitempty"  yaml:"sample,omitempty"`
	Models   []string      `json:"models,omitempty"  yaml:"models,omitempty"`
}

// Client performs connectivity tests against one provider.
type Client interface {
	// Test sends a single chat-completion request and reports the round trip.
	Test(ctx context.Context, model string, prompt string) (TestReport, error)
}

// Credentials carries the values a client needs to authenticate.
type Credentials struct {
	APIKey  string
	BaseURL string
}

// NewClient builds a connectivity test client for the named provider.
func NewClient(logger hclog.Logger, name Name, creds Credentials) (Client, error) {
	if strings.TrimSpace(creds.APIKey) == "" {
		return nil, fmt.Errorf("API key cannot be empty for provider '%s'", name)
	}

	baseURL := strings.TrimRight(strings.TrimSpace(creds.BaseURL), "/")
	if baseURL == "" {
		baseURL = name.DefaultBaseURL()
	}

	httpClient := &http.Client{Timeout: defaultTimeout}
	l := logger.Named(string(name))

	switch name {
	case DeepSeek:
		return &deepSeekClient{logger: l, apiKey: creds.APIKey, baseURL: baseURL, httpClient: httpClient}, nil
	case DashScope:
		return &dashScopeClient{logger: l, apiKey: creds.APIKey, baseURL: baseURL, httpClient: httpClient}, nil
	case OpenAI:
		return &openAIClient{logger: l, apiKey: creds.APIKey, baseURL: baseURL, httpClient: httpClient}, nil
	default:
		return nil, fmt.Errorf("%w: '%s'", interrors.ErrUnknownProvider, name)
	}
}

// truncateSample limits the stored response sample to keep reports readable.
func truncateSample(s string) string {
	const maxLen = 200

	s = strings.TrimSpace(s)
	if len(s) <= maxLen {
		return s
	}

	// Cut on a rune boundary so a multi-byte response stays valid UTF-8.
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}

	return s[:cut] + "..."
}
