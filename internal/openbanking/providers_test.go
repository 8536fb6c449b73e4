package openbanking

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProvidersFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "providers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadProviders(t *testing.T) {
	path := writeProvidersFile(t, `providers:
  - id: lloyds
    name: Lloyds Bank
    base_url: https://api.lloydsbank.test
  - id: hsbc
    name: HSBC
    base_url: https://api.hsbc.test
`)

	registry, err := LoadProviders(path)
	require.NoError(t, err)

	lloyds, ok := registry.Get("lloyds")
	require.True(t, ok)
	assert.Equal(t, "Lloyds Bank", lloyds.Name)

	all := registry.All()
	require.Len(t, all, 2)
	assert.Equal(t, "lloyds", all[0].Id)
	assert.Equal(t, "hsbc", all[1].Id)
}

func TestLoadProviders_MissingId(t *testing.T) {
	path := writeProvidersFile(t, `providers:
  - name: Nameless Bank
`)

	_, err := LoadProviders(path)
	assert.Error(t, err)
}

func TestLoadProviders_Empty(t *testing.T) {
	path := writeProvidersFile(t, "providers: []\n")

	_, err := LoadProviders(path)
	assert.Error(t, err)
}
