package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		existing       map[string]ProviderSecret
		secret         ProviderSecret
		expectedResult UpsertResult
		isErrorExpected bool
	}{
		{
			name:           "new secret is created",
			secret:         ProviderSecret{Name: "deepseek", APIKey: "sk-test"},
			expectedResult: Created,
		},
		{
			name: "changed secret is updated",
			existing: map[string]ProviderSecret{
				"deepseek": {APIKey: "sk-old"},
			},
			secret:         ProviderSecret{Name: "deepseek", APIKey: "sk-new"},
			expectedResult: Updated,
		},
		{
			name: "identical secret is a noop",
			existing: map[string]ProviderSecret{
				"deepseek": {APIKey: "sk-test"},
			},
			secret:         ProviderSecret{Name: "deepseek", APIKey: "sk-test"},
			expectedResult: Noop,
		},
		{
			name: "empty secret over existing deletes",
			existing: map[string]ProviderSecret{
				"deepseek": {APIKey: "sk-test"},
			},
			secret:         ProviderSecret{Name: "deepseek"},
			expectedResult: Deleted,
		},
		{
			name:           "empty secret with nothing stored is a noop",
			secret:         ProviderSecret{Name: "deepseek"},
			expectedResult: Noop,
		},
		{
			name:            "empty name is rejected",
			secret:          ProviderSecret{APIKey: "sk-test"},
			isErrorExpected: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), StoreFileName)
			cfg := NewStoreConfig(path)
			for name, secret := range tc.existing {
				cfg.Providers[name] = secret
			}

			result, err := cfg.Upsert(tc.secret)

			if tc.isErrorExpected {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expectedResult, result)
		})
	}
}

func TestUpsert_PersistsAndReloads(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "store", StoreFileName)
	loader := &DefaultLoader{}

	// Absent store file yields an empty, usable store.
	store, err := loader.Load(path)
	require.NoError(t, err)
	assert.Empty(t, store.List())

	result, err := store.Upsert(ProviderSecret{Name: "dashscope", APIKey: "sk-ds", Model: "qwen-plus"})
	require.NoError(t, err)
	require.Equal(t, Created, result)

	reloaded, err := loader.Load(path)
	require.NoError(t, err)

	secret, ok := reloaded.Get("dashscope")
	require.True(t, ok)
	assert.Equal(t, "dashscope", secret.Name)
	assert.Equal(t, "sk-ds", secret.APIKey)
	assert.Equal(t, "qwen-plus", secret.Model)
}

func TestSaveConfig_SecureFilePermissions(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "store", StoreFileName)
	cfg := NewStoreConfig(path)

	_, err := cfg.Upsert(ProviderSecret{Name: "openai", APIKey: "sk-oa"})
	require.NoError(t, err)

	fileInfo, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fileInfo.Mode().Perm())

	dirInfo, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), dirInfo.Mode().Perm())
}

func TestDelete(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), StoreFileName)
	cfg := NewStoreConfig(path)

	_, err := cfg.Upsert(ProviderSecret{Name: "deepseek", APIKey: "sk-test"})
	require.NoError(t, err)

	result, err := cfg.Delete("deepseek")
	require.NoError(t, err)
	assert.Equal(t, Deleted, result)

	result, err = cfg.Delete("deepseek")
	require.NoError(t, err)
	assert.Equal(t, Noop, result)
}

func TestList_SortedByName(t *testing.T) {
	t.Parallel()

	cfg := NewStoreConfig(filepath.Join(t.TempDir(), StoreFileName))
	cfg.Providers = map[string]ProviderSecret{
		"openai":    {APIKey: "sk-oa"},
		"dashscope": {APIKey: "sk-ds"},
		"deepseek":  {APIKey: "sk-dk"},
	}

	listed := cfg.List()
	require.Len(t, listed, 3)
	assert.Equal(t, "dashscope", listed[0].Name)
	assert.Equal(t, "deepseek", listed[1].Name)
	assert.Equal(t, "openai", listed[2].Name)
}

func TestRedacted_NeverExposesKeyMaterial(t *testing.T) {
	t.Parallel()

	secret := ProviderSecret{
		Name:    "deepseek",
		APIKey:  "sk-very-secret",
		BaseURL: "https://api.deepseek.com",
		Model:   "deepseek-chat",
	}

	entry := secret.Redacted()
	assert.Equal(t, "deepseek", entry.Name)
	assert.True(t, entry.APIKeySet)
	assert.Equal(t, "https://api.deepseek.com", entry.BaseURL)
	assert.Equal(t, "deepseek-chat", entry.Model)

	empty := ProviderSecret{Name: "openai"}
	assert.False(t, empty.Redacted().APIKeySet)
}

func TestResolvePath(t *testing.T) {
	t.Parallel()

	override := filepath.Join(t.TempDir(), "custom.toml")
	path, err := ResolvePath(override)
	require.NoError(t, err)
	assert.Equal(t, override, path)
}

func TestResolvePath_Default(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)

	path, err := ResolvePath("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmp, "devstrap", StoreFileName), path)
}
