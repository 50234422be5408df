// Package scaffold emits fixed starter file trees for example projects.
// Instantiation is deterministic: the same template and project name always
// produce the same file set and bytes. Re-running overwrites existing files
// unconditionally; there is no conflict detection.
package scaffold

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/template"

	"github.com/hashicorp/go-hclog"

	interrors "github.com/devstrap/devstrap/internal/errors"
	"github.com/devstrap/devstrap/internal/files"
	"github.com/devstrap/devstrap/internal/perms"
)

// Kind identifies a scaffold template set.
type Kind string

const (
	// KindRAG is the retrieval-augmented generation example project.
	KindRAG Kind = "rag"

	// KindAgent is the analysis agent example project.
	KindAgent Kind = "agent"
)

// AllowedKinds returns the supported template sets, sorted by name.
func AllowedKinds() []Kind {
	kinds := []Kind{KindAgent, KindRAG}

	slices.Sort(kinds)

	return kinds
}

// ParseKind converts user input to a known template Kind.
func ParseKind(s string) (Kind, error) {
	kind := Kind(strings.ToLower(strings.TrimSpace(s)))

	if !slices.Contains(AllowedKinds(), kind) {
		return "", fmt.Errorf("%w: '%s', must be one of %v", interrors.ErrUnknownTemplate, s, AllowedKinds())
	}

	return kind, nil
}

// File is one rendered scaffold output.
type File struct {
	// Path is relative to the scaffold target directory.
	Path string

	// Content is the rendered file body.
	Content []byte
}

// Scaffolder renders and emits template sets.
type Scaffolder struct {
	logger hclog.Logger
}

// NewScaffolder returns a Scaffolder.
func NewScaffolder(logger hclog.Logger) *Scaffolder {
	return &Scaffolder{
		logger: logger.Named("scaffold"),
	}
}

// Render instantiates the template set for the given project name,
// returning the files sorted by path.
func (s *Scaffolder) Render(kind Kind, project string) ([]File, error) {
	project = strings.TrimSpace(project)
	if project == "" {
		return nil, fmt.Errorf("project name cannot be empty")
	}

	templates, err := templatesFor(kind)
	if err != nil {
		return nil, err
	}

	data := templateData{Project: project}

	files := make([]File, 0, len(templates)+2)
	for _, t := range templates {
		content, err := renderTemplate(t.path, t.content, data)
		if err != nil {
			return nil, err
		}
		files = append(files, File{Path: t.path, Content: content})
	}

	compose, err := renderCompose(kind, project)
	if err != nil {
		return nil, err
	}
	files = append(files, compose)

	devcontainer, err := renderDevcontainer(project)
	if err != nil {
		return nil, err
	}
	files = append(files, devcontainer)

	slices.SortFunc(files, func(a, b File) int {
		return strings.Compare(a.Path, b.Path)
	})

	return files, nil
}

// Emit writes the rendered files under dir, creating directories as needed.
// Existing files are overwritten.
func (s *Scaffolder) Emit(dir string, rendered []File) error {
	for _, f := range rendered {
		fullPath := filepath.Join(dir, f.Path)

		if err := files.EnsureAtLeastRegularDir(filepath.Dir(fullPath)); err != nil {
			return err
		}

		if err := os.WriteFile(fullPath, f.Content, perms.RegularFile); err != nil {
			return fmt.Errorf("failed to write '%s': %w", fullPath, err)
		}

		s.logger.Debug("Scaffolded file", "path", fullPath)
	}

	return nil
}

type templateData struct {
	Project string
}

func renderTemplate(name string, content string, data templateData) ([]byte, error) {
	t, err := template.New(name).Parse(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template '%s': %w", name, err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render template '%s': %w", name, err)
	}

	return buf.Bytes(), nil
}
