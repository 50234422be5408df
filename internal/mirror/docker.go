package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/hashicorp/go-hclog"
	"github.com/xeipuuv/gojsonschema"

	"github.com/devstrap/devstrap/internal/perms"
)

// DefaultDockerDaemonPath is the Docker daemon configuration file on Linux.
const DefaultDockerDaemonPath = "/etc/docker/daemon.json"

// dockerServiceName is the systemd unit restarted after a switch.
const dockerServiceName = "docker"

// registryMirrorsKey is the only daemon.json key this switcher manages.
const registryMirrorsKey = "registry-mirrors"

// dockerDaemonSchema validates the daemon.json we are about to write.
// The schema is deliberately narrow: it only constrains the managed key and
// requires the document to be a JSON object, since daemon.json carries many
// unrelated keys that must pass through untouched.
const dockerDaemonSchema = `{
  "type": "object",
  "properties": {
    "registry-mirrors": {
      "type": "array",
      "items": {
        "type": "string",
        "format": "uri",
        "pattern": "^https?://"
      }
    }
  }
}`

var _ Switcher = (*DockerSwitcher)(nil)

// DockerSwitcher rewrites the 'registry-mirrors' list in the Docker daemon
// config and restarts the docker service so the change takes effect.
type DockerSwitcher struct {
	logger  hclog.Logger
	path    string
	service ServiceManager
}

// NewDockerSwitcher returns a switcher for the Docker daemon config at path.
// An empty path selects DefaultDockerDaemonPath.
func NewDockerSwitcher(logger hclog.Logger, path string, service ServiceManager) *DockerSwitcher {
	if path == "" {
		path = DefaultDockerDaemonPath
	}

	return &DockerSwitcher{
		logger:  logger.Named("docker"),
		path:    path,
		service: service,
	}
}

func (s *DockerSwitcher) Target() Target {
	return TargetDocker
}

func (s *DockerSwitcher) Path() string {
	return s.path
}

// Apply overwrites the managed 'registry-mirrors' key for the given preset,
// preserving any unrelated daemon.json keys, then restarts the docker service.
func (s *DockerSwitcher) Apply(ctx context.Context, preset Preset) error {
	cfg, err := s.readDaemonConfig()
	if err != nil {
		return err
	}

	switch preset {
	case PresetChina:
		cfg[registryMirrorsKey] = slices.Clone(chinaDockerMirrors)
	case PresetGlobal:
		delete(cfg, registryMirrorsKey)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode docker daemon config: %w", err)
	}
	data = append(data, '\n')

	if err := s.validate(data); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), perms.RegularDir); err != nil {
		return fmt.Errorf("could not ensure docker config directory exists for '%s': %w", s.path, err)
	}

	if err := os.WriteFile(s.path, data, perms.RegularFile); err != nil {
		return fmt.Errorf("failed to write docker daemon config '%s': %w", s.path, err)
	}

	s.logger.Info("Docker daemon config updated", "path", s.path, "preset", preset)

	if err := s.service.Restart(ctx, dockerServiceName); err != nil {
		return err
	}

	return nil
}

// Status reports the active preset by reading the daemon config back.
func (s *DockerSwitcher) Status() (Preset, error) {
	cfg, err := s.readDaemonConfig()
	if err != nil {
		return "", err
	}

	raw, ok := cfg[registryMirrorsKey]
	if !ok {
		return PresetGlobal, nil
	}

	mirrors, ok := raw.([]any)
	if !ok || len(mirrors) == 0 {
		return PresetGlobal, nil
	}

	return PresetChina, nil
}

// readDaemonConfig loads daemon.json into a generic map, tolerating an
// absent file (a fresh machine has none).
func (s *DockerSwitcher) readDaemonConfig() (map[string]any, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]any{}, nil
		}

		return nil, fmt.Errorf("failed to read docker daemon config '%s': %w", s.path, err)
	}

	cfg := map[string]any{}
	if len(data) == 0 {
		return cfg, nil
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("docker daemon config '%s' could not be parsed: %w", s.path, err)
	}

	return cfg, nil
}

// validate checks the rendered daemon config against the embedded schema
// before it ever reaches disk.
func (s *DockerSwitcher) validate(data []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(dockerDaemonSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("failed to validate docker daemon config: %w", err)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, fmt.Sprintf("%s: %s", e.Field(), e.Description()))
		}

		return fmt.Errorf("docker daemon config failed schema validation: %v", msgs)
	}

	return nil
}
