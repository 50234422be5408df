package mirror

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"net/http"
	"slices"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"
)

// defaultProbeTimeout bounds a single endpoint probe.
const defaultProbeTimeout = 5 * time.Second

// probeConcurrency caps the number of in-flight probe requests.
const probeConcurrency = 4

// globalDefaultEndpoints are the upstream URLs each target falls back to
// when no mirror endpoint is reachable. A failed probe never fails the
// operation; it selects the default instead.
var globalDefaultEndpoints = map[Target]string{
	TargetDocker: "https://registry-1.docker.io",
	TargetGit:    gitHubUpstream,
	TargetNPM:    globalNPMRegistry,
	TargetPip:    globalPipIndexURL,
}

// chinaEndpoints are the candidate mirror URLs probed per target.
var chinaEndpoints = map[Target][]string{
	TargetDocker: chinaDockerMirrors,
	TargetGit:    {chinaGitHubProxy},
	TargetNPM:    {chinaNPMRegistry},
	TargetPip:    {chinaPipIndexURL},
}

// ProbeResult reports reachability and latency for one endpoint.
type ProbeResult struct {
	Target   Target        `json:"target"          yaml:"target"`
	Endpoint string        `json:"endpoint"        yaml:"endpoint"`
	Latency  time.Duration `json:"latency"         yaml:"latency"`
	OK       bool          `json:"ok"              yaml:"ok"`
	Error    string        `json:"error,omitempty" yaml:"error,omitempty"`
}

// Prober measures reachability of mirror endpoints.
type Prober struct {
	logger  hclog.Logger
	client  *http.Client
	timeout time.Duration
}

// NewProber returns a Prober. A nil client gets a default with a short timeout.
func NewProber(logger hclog.Logger, client *http.Client) *Prober {
	if client == nil {
		client = &http.Client{Timeout: defaultProbeTimeout}
	}

	return &Prober{
		logger:  logger.Named("probe"),
		client:  client,
		timeout: defaultProbeTimeout,
	}
}

// ProbeAll measures every candidate endpoint (mirrors plus upstream defaults)
// in parallel and returns one result per endpoint, grouped by target.
func (p *Prober) ProbeAll(ctx context.Context) []ProbeResult {
	type candidate struct {
		target   Target
		endpoint string
	}

	var candidates []candidate
	for _, target := range AllowedTargets() {
		for _, endpoint := range chinaEndpoints[target] {
			candidates = append(candidates, candidate{target: target, endpoint: endpoint})
		}
		candidates = append(candidates, candidate{target: target, endpoint: globalDefaultEndpoints[target]})
	}

	results := make([]ProbeResult, len(candidates))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(probeConcurrency)

	for i, c := range candidates {
		g.Go(func() error {
			latency, err := p.probeEndpoint(gCtx, c.endpoint)

			result := ProbeResult{
				Target:   c.target,
				Endpoint: c.endpoint,
				Latency:  latency,
				OK:       err == nil,
			}
			if err != nil {
				result.Error = err.Error()
				p.logger.Debug("Probe failed", "target", c.target, "endpoint", c.endpoint, "error", err)
			}

			results[i] = result

			// Probe failures are data, not errors.
			return nil
		})
	}

	// No goroutine returns an error; Wait only synchronizes completion.
	_ = g.Wait()

	return results
}

// FastestEndpoint probes the target's mirror candidates and returns the
// fastest reachable one. When none responds, it silently falls back to the
// target's upstream default.
func (p *Prober) FastestEndpoint(ctx context.Context, target Target) string {
	fallback := globalDefaultEndpoints[target]

	endpoints := chinaEndpoints[target]
	if len(endpoints) == 0 {
		return fallback
	}

	results := make([]ProbeResult, len(endpoints))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(probeConcurrency)

	for i, endpoint := range endpoints {
		g.Go(func() error {
			latency, err := p.probeEndpoint(gCtx, endpoint)
			results[i] = ProbeResult{
				Target:   target,
				Endpoint: endpoint,
				Latency:  latency,
				OK:       err == nil,
			}
			return nil
		})
	}

	_ = g.Wait()

	reachable := slices.DeleteFunc(results, func(r ProbeResult) bool { return !r.OK })
	if len(reachable) == 0 {
		p.logger.Warn("No mirror endpoint reachable, falling back to default", "target", target, "default", fallback)
		return fallback
	}

	slices.SortFunc(reachable, func(a, b ProbeResult) int {
		return cmp.Compare(a.Latency, b.Latency)
	})

	return reachable[0].Endpoint
}

// probeEndpoint issues one GET and treats any HTTP response as reachable;
// only transport-level failures count as unreachable.
func (p *Prober) probeEndpoint(ctx context.Context, endpoint string) (time.Duration, error) {
	probeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create probe request for '%s': %w", endpoint, err)
	}

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("probe request failed for '%s': %w", endpoint, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Drain a little so connection reuse works; the status code is irrelevant.
	_, _ = io.CopyN(io.Discard, resp.Body, 1024)

	return time.Since(start), nil
}
