package scaffold

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// devcontainerSchema constrains the descriptor fields the scaffolds emit.
// It is a narrow slice of the published devcontainer schema, enough to catch
// a malformed template before it reaches an editor.
const devcontainerSchema = `{
  "type": "object",
  "required": ["name", "dockerComposeFile", "service", "workspaceFolder"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "dockerComposeFile": {"type": "string", "minLength": 1},
    "service": {"type": "string", "minLength": 1},
    "workspaceFolder": {"type": "string", "minLength": 1},
    "remoteUser": {"type": "string"},
    "customizations": {"type": "object"}
  }
}`

// devcontainerConfig is the descriptor emitted into .devcontainer/.
type devcontainerConfig struct {
	Name              string         `json:"name"`
	DockerComposeFile string         `json:"dockerComposeFile"`
	Service           string         `json:"service"`
	WorkspaceFolder   string         `json:"workspaceFolder"`
	RemoteUser        string         `json:"remoteUser"`
	Customizations    map[string]any `json:"customizations,omitempty"`
}

func renderDevcontainer(project string) (File, error) {
	cfg := devcontainerConfig{
		Name:              project,
		DockerComposeFile: "../docker-compose.yml",
		Service:           "app",
		WorkspaceFolder:   "/workspace",
		RemoteUser:        "vscode",
		Customizations: map[string]any{
			"vscode": map[string]any{
				"extensions": []string{"ms-python.python"},
			},
		},
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return File{}, fmt.Errorf("failed to encode devcontainer.json: %w", err)
	}
	data = append(data, '\n')

	schemaLoader := gojsonschema.NewStringLoader(devcontainerSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return File{}, fmt.Errorf("failed to validate devcontainer.json: %w", err)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, fmt.Sprintf("%s: %s", e.Field(), e.Description()))
		}

		return File{}, fmt.Errorf("devcontainer.json failed schema validation: %v", msgs)
	}

	return File{Path: ".devcontainer/devcontainer.json", Content: data}, nil
}
