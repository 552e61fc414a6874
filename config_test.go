package eql_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rlch/eql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	config := `format:
  max-width: 100
  extensions:
    - eql
    - edn
check:
  color: never
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".eql.yaml"), []byte(config), 0o600))

	// Config is found from a nested directory by walking up.
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	cfg, err := eql.LoadConfig(nested)
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.MaxWidth())
	assert.Equal(t, []string{"eql", "edn"}, cfg.Extensions())
	assert.Equal(t, "never", cfg.Check.Color)
}

func TestLoadConfigNotFound(t *testing.T) {
	t.Parallel()

	_, err := eql.LoadConfig(t.TempDir())
	require.ErrorIs(t, err, eql.ErrConfigNotFound)
}

func TestConfigDefaults(t *testing.T) {
	t.Parallel()

	var cfg *eql.Config

	assert.Equal(t, eql.DefaultMaxLineWidth, cfg.MaxWidth())
	assert.Equal(t, []string{"eql"}, cfg.Extensions())
}
