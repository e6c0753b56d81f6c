package qbin

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "qbin.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("Full", func(t *testing.T) {
		path := writeConfig(t, `
buckets: 64
parallelism: 4
snapshot:
  codec: json
  compression: lz4
`)
		cfg, err := LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, 64, cfg.Buckets)
		assert.Equal(t, 4, cfg.Parallelism)
		assert.Equal(t, "json", cfg.Snapshot.Codec)
		assert.Equal(t, "lz4", cfg.Snapshot.Compression)
	})

	t.Run("OmittedFieldsKeepDefaults", func(t *testing.T) {
		path := writeConfig(t, "parallelism: 2\n")
		cfg, err := LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, 32, cfg.Buckets)
		assert.Equal(t, 2, cfg.Parallelism)
		assert.Equal(t, "json", cfg.Snapshot.Codec)
		assert.Equal(t, "zstd", cfg.Snapshot.Compression)
	})

	t.Run("InvalidBuckets", func(t *testing.T) {
		path := writeConfig(t, "buckets: 1000\n")
		_, err := LoadConfig(path)
		assert.ErrorIs(t, err, ErrInvalidBuckets)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("Malformed", func(t *testing.T) {
		path := writeConfig(t, "buckets: [not a number\n")
		_, err := LoadConfig(path)
		assert.Error(t, err)
	})
}

func TestConfigOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Parallelism = 3

	var opts options
	for _, fn := range cfg.Options() {
		fn(&opts)
	}
	assert.Equal(t, 3, opts.parallelism)
}
