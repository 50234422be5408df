package scaffold

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// composeService mirrors the subset of the compose schema the scaffolds use.
type composeService struct {
	Image      string   `yaml:"image,omitempty"`
	Build      string   `yaml:"build,omitempty"`
	EnvFile    []string `yaml:"env_file,omitempty"`
	Volumes    []string `yaml:"volumes,omitempty"`
	WorkingDir string   `yaml:"working_dir,omitempty"`
	Command    []string `yaml:"command,omitempty"`
}

type composeConfig struct {
	Name     string                    `yaml:"name"`
	Services map[string]composeService `yaml:"services"`
}

// renderCompose emits docker-compose.yml through the YAML encoder rather
// than a literal template, so the output is always structurally valid.
func renderCompose(kind Kind, project string) (File, error) {
	entrypoint := "app/main.py"
	if kind == KindAgent {
		entrypoint = "app/agent.py"
	}

	cfg := composeConfig{
		Name: project,
		Services: map[string]composeService{
			"app": {
				Image:      "python:3.12-slim",
				EnvFile:    []string{".env"},
				Volumes:    []string{".:/workspace"},
				WorkingDir: "/workspace",
				Command:    []string{"python", entrypoint},
			},
		},
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return File{}, fmt.Errorf("failed to encode docker-compose.yml: %w", err)
	}

	return File{Path: "docker-compose.yml", Content: data}, nil
}
