package preferences

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYAMLStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "preferences.yml")
	store := NewYAMLStore(path)

	values, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, values, "a missing file reads as empty")

	require.NoError(t, store.Save(ctx, map[string]string{KeyMaxDefinitions: "3"}))
	require.NoError(t, store.Save(ctx, map[string]string{KeyEnableOverlayByDefault: "false"}))

	values, err = NewYAMLStore(path).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		KeyMaxDefinitions:         "3",
		KeyEnableOverlayByDefault: "false",
	}, values)
}

func TestYAMLStore_HandWrittenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.yml")
	require.NoError(t, os.WriteFile(path, []byte("maxDefinitions: 4\narxivMaxResults: 20\nenableOverlayByDefault: false\n"), 0o644))

	got, err := NewService(NewYAMLStore(path)).Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Preferences{MaxDefinitions: 4, ArxivMaxResults: 20, EnableOverlayByDefault: false}, got)
}

func TestYAMLStore_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.yml")
	require.NoError(t, os.WriteFile(path, []byte("[[[not yaml"), 0o644))

	_, err := NewYAMLStore(path).Load(context.Background())
	assert.ErrorContains(t, err, "yaml.Unmarshal")
}
