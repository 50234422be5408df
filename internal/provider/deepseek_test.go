package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeepSeekClient_Test(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/v1/models":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"data": []map[string]string{
					{"id": "deepseek-chat"},
					{"id": "deepseek-reasoner"},
				},
			})
		case r.Method == http.MethodPost && r.URL.Path == "/v1/chat/completions":
			var req chatCompletionRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "deepseek-chat", req.Model)
			assert.Equal(t, 0.7, req.Temperature)
			assert.Equal(t, 200, req.MaxTokens)
			require.NotEmpty(t, req.Messages)
			assert.Equal(t, "user", req.Messages[len(req.Messages)-1].Role)

			_ = json.NewEncoder(w).Encode(map[string]any{
				"choices": []map[string]any{
					{"message": map[string]string{"role": "assistant", "content": "Loud and clear."}},
				},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(hclog.NewNullLogger(), DeepSeek, Credentials{APIKey: "sk-test", BaseURL: srv.URL})
	require.NoError(t, err)

	report, err := client.Test(context.Background(), "", "hello?")
	require.NoError(t, err)

	assert.Equal(t, DeepSeek, report.Provider)
	assert.Equal(t, "deepseek-chat", report.Model)
	assert.Equal(t, []string{"deepseek-chat", "deepseek-reasoner"}, report.Models)
	assert.Equal(t, "Loud and clear.", report.Sample)
	assert.Greater(t, report.Latency.Nanoseconds(), int64(0))
}

func TestDeepSeekClient_Test_AuthFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "invalid api key"}}`))
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(hclog.NewNullLogger(), DeepSeek, Credentials{APIKey: "sk-bad", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Test(context.Background(), "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestDeepSeekClient_Test_NoChoices(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/models" {
			_ = json.NewEncoder(w).Encode(map[string]any{"data": []map[string]string{}})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(hclog.NewNullLogger(), DeepSeek, Credentials{APIKey: "sk-test", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Test(context.Background(), "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}
