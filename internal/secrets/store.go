package secrets

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/devstrap/devstrap/internal/files"
)

// StoreFileName is the name of the secrets store file inside the user config dir.
const StoreFileName = "secrets.toml"

// ProviderSecret stores the credential and connection overrides for one API provider.
type ProviderSecret struct {
	Name    string `toml:"-"`
	APIKey  string `toml:"api_key,omitempty"`
	BaseURL string `toml:"base_url,omitempty"`
	Model   string `toml:"model,omitempty"`
}

func (s *ProviderSecret) Equals(b ProviderSecret) bool {
	return s.Name == b.Name &&
		s.APIKey == b.APIKey &&
		s.BaseURL == b.BaseURL &&
		s.Model == b.Model
}

func (s *ProviderSecret) IsEmpty() bool {
	return s.APIKey == "" && s.BaseURL == "" && s.Model == ""
}

// ListEntry is the redacted view of a ProviderSecret, safe to render in any
// output format. Key material itself is never exposed, only its presence.
type ListEntry struct {
	Name      string `json:"name"               yaml:"name"`
	APIKeySet bool   `json:"api_key_set"        yaml:"api_key_set"`
	BaseURL   string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Model     string `json:"model,omitempty"    yaml:"model,omitempty"`
}

// Redacted returns the secret's redacted view.
func (s *ProviderSecret) Redacted() ListEntry {
	return ListEntry{
		Name:      s.Name,
		APIKeySet: s.APIKey != "",
		BaseURL:   s.BaseURL,
		Model:     s.Model,
	}
}

type DefaultLoader struct{}

func (d *DefaultLoader) Load(path string) (Modifier, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	cfg, err := loadStoreConfig(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load secrets store: %w", err)
		}

		// Store doesn't exist yet, so create a new instance to interact with.
		cfg = NewStoreConfig(path)
	}

	return cfg, nil
}

// StoreConfig stores credentials for all configured API providers.
type StoreConfig struct {
	Providers map[string]ProviderSecret `toml:"providers"`
	filePath  string                    `toml:"-"`
}

// NewStoreConfig returns a newly initialized StoreConfig.
func NewStoreConfig(path string) *StoreConfig {
	return &StoreConfig{
		Providers: map[string]ProviderSecret{},
		filePath:  strings.TrimSpace(path),
	}
}

// ResolvePath returns the override path when set, falling back to the
// XDG default location.
func ResolvePath(override string) (string, error) {
	if p := strings.TrimSpace(override); p != "" {
		return p, nil
	}

	return DefaultPath()
}

// DefaultPath returns the secrets store path inside the user-specific config directory.
func DefaultPath() (string, error) {
	dir, err := files.UserSpecificConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, StoreFileName), nil
}

func (c *StoreConfig) List() []ProviderSecret {
	providers := make([]ProviderSecret, 0, len(c.Providers))
	for name, secret := range c.Providers {
		secret.Name = name
		providers = append(providers, secret)
	}

	slices.SortFunc(providers, func(a, b ProviderSecret) int {
		return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})

	return providers
}

func (c *StoreConfig) Get(name string) (ProviderSecret, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ProviderSecret{}, false
	}

	if secret, ok := c.Providers[name]; ok {
		secret.Name = name
		return secret, true
	}

	return ProviderSecret{}, false
}

// Upsert updates the stored credential for the given provider name.
// If the secret is empty and does not exist in the store, it does nothing.
// If the secret is empty and previously existed in the store, it deletes the entry.
// If the secret differs from the existing one in the store, it updates it.
// If the secret is new and non-empty, it adds it.
// Returns the operation performed (Created, Updated, Deleted, or Noop),
// and writes changes to disk if applicable.
func (c *StoreConfig) Upsert(secret ProviderSecret) (UpsertResult, error) {
	if strings.TrimSpace(secret.Name) == "" {
		return Noop, fmt.Errorf("provider name cannot be empty")
	}

	if len(c.Providers) == 0 {
		// We've currently got no providers stored.
		c.Providers = map[string]ProviderSecret{}
	}

	current, exists := c.Providers[secret.Name]
	current.Name = secret.Name

	var op UpsertResult

	switch {
	case !exists && secret.IsEmpty():
		return Noop, nil // Nothing existing and trying to save an empty secret.
	case exists && current.Equals(secret):
		return Noop, nil // No change to existing.
	case secret.IsEmpty():
		delete(c.Providers, secret.Name) // Trying to save an empty secret over an existing one that wasn't.
		op = Deleted
	case exists:
		op = Updated
		c.Providers[secret.Name] = secret
	default:
		op = Created
		c.Providers[secret.Name] = secret
	}

	if err := c.SaveConfig(); err != nil {
		return Noop, fmt.Errorf("error saving secrets store: %w", err)
	}

	return op, nil
}

// Delete removes the stored credential for the given provider name,
// writing changes to disk when an entry was removed.
func (c *StoreConfig) Delete(name string) (UpsertResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Noop, fmt.Errorf("provider name cannot be empty")
	}

	if _, exists := c.Providers[name]; !exists {
		return Noop, nil
	}

	delete(c.Providers, name)

	if err := c.SaveConfig(); err != nil {
		return Noop, fmt.Errorf("error saving secrets store: %w", err)
	}

	return Deleted, nil
}

// loadStoreConfig loads a secrets store file from disk, using the specified path.
func loadStoreConfig(path string) (*StoreConfig, error) {
	cfg := NewStoreConfig(path)

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("secrets store file '%s' does not exist: %w", path, err)
		}

		return nil, fmt.Errorf("could not stat secrets store file '%s': %w", path, err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("secrets store file '%s' could not be parsed: %w", path, err)
	}

	// Manually set the name field for each ProviderSecret.
	for name, secret := range cfg.Providers {
		secret.Name = name
		cfg.Providers[name] = secret
	}

	return cfg, nil
}

// SaveConfig writes the StoreConfig to disk as a TOML file,
// creating the parent directory and setting secure file permissions.
func (c *StoreConfig) SaveConfig() error {
	path := c.filePath
	if path == "" {
		return fmt.Errorf("secrets store file path not present")
	}

	// Ensure the directory exists before creating the file.
	// owner: rwx, group: ---, others: ---
	if err := files.EnsureAtLeastSecureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("could not ensure secrets store directory exists for '%s': %w", path, err)
	}

	// owner: rw-, group: ---, others: ---
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("could not create file '%s': %w", path, err)
	}

	// Defer the closing of the file once it's opened.
	// Ensuring that if an error occurs during closing, then it can be passed back to the caller.
	defer func(f *os.File) {
		closeErr := f.Close()
		if closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}(f)

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("could not encode secrets store to file '%s': %w", path, err)
	}

	return nil
}
