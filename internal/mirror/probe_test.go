package mirror

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbeEndpoint(t *testing.T) {
	t.Parallel()

	prober := NewProber(hclog.NewNullLogger(), nil)

	t.Run("responding endpoint is reachable", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		t.Cleanup(srv.Close)

		latency, err := prober.probeEndpoint(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Greater(t, latency, time.Duration(0))
	})

	t.Run("any HTTP status counts as reachable", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		t.Cleanup(srv.Close)

		_, err := prober.probeEndpoint(context.Background(), srv.URL)
		require.NoError(t, err)
	})

	t.Run("connection refusal is unreachable", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
		url := srv.URL
		srv.Close()

		_, err := prober.probeEndpoint(context.Background(), url)
		require.Error(t, err)
	})
}

// overrideEndpoints swaps a target's candidate and fallback endpoints for
// the duration of a test, restoring the real values afterwards.
func overrideEndpoints(t *testing.T, target Target, candidates []string, fallback string) {
	t.Helper()

	origCandidates := chinaEndpoints[target]
	origFallback := globalDefaultEndpoints[target]

	chinaEndpoints[target] = candidates
	globalDefaultEndpoints[target] = fallback

	t.Cleanup(func() {
		chinaEndpoints[target] = origCandidates
		globalDefaultEndpoints[target] = origFallback
	})
}

func TestFastestEndpoint(t *testing.T) {
	t.Run("returns reachable mirror", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		t.Cleanup(srv.Close)

		dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
		deadURL := dead.URL
		dead.Close()

		overrideEndpoints(t, TargetNPM, []string{deadURL, srv.URL}, "https://fallback.invalid")

		prober := NewProber(hclog.NewNullLogger(), &http.Client{Timeout: 2 * time.Second})
		got := prober.FastestEndpoint(context.Background(), TargetNPM)
		assert.Equal(t, srv.URL, got)
	})

	t.Run("prefers the lower-latency endpoint", func(t *testing.T) {
		fast := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		t.Cleanup(fast.Close)

		slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(300 * time.Millisecond)
			w.WriteHeader(http.StatusOK)
		}))
		t.Cleanup(slow.Close)

		overrideEndpoints(t, TargetNPM, []string{slow.URL, fast.URL}, "https://fallback.invalid")

		prober := NewProber(hclog.NewNullLogger(), &http.Client{Timeout: 2 * time.Second})
		got := prober.FastestEndpoint(context.Background(), TargetNPM)
		assert.Equal(t, fast.URL, got)
	})

	t.Run("falls back silently when no mirror responds", func(t *testing.T) {
		dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
		deadURL := dead.URL
		dead.Close()

		overrideEndpoints(t, TargetNPM, []string{deadURL}, "https://fallback.invalid")

		prober := NewProber(hclog.NewNullLogger(), &http.Client{Timeout: 2 * time.Second})
		got := prober.FastestEndpoint(context.Background(), TargetNPM)
		assert.Equal(t, "https://fallback.invalid", got)
	})
}

func TestProbeAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	deadURL := dead.URL
	dead.Close()

	// Pin every target to local endpoints so the test never leaves the host.
	for _, target := range AllowedTargets() {
		overrideEndpoints(t, target, []string{srv.URL}, deadURL)
	}

	prober := NewProber(hclog.NewNullLogger(), &http.Client{Timeout: 2 * time.Second})
	results := prober.ProbeAll(context.Background())

	// One mirror candidate plus one default per target.
	require.Len(t, results, len(AllowedTargets())*2)

	var ok, failed int
	for _, r := range results {
		assert.NotEmpty(t, r.Endpoint)
		if r.OK {
			ok++
			assert.Empty(t, r.Error)
		} else {
			failed++
			assert.NotEmpty(t, r.Error)
		}
	}

	// Probe failures are reported as data, never as an error from ProbeAll.
	assert.Equal(t, len(AllowedTargets()), ok)
	assert.Equal(t, len(AllowedTargets()), failed)
}
