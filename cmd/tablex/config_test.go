package main_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/tablex"
	main "github.com/fwojciec/tablex/cmd/tablex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadEnv(t *testing.T) {
	t.Parallel()

	t.Run("reads variables from the file", func(t *testing.T) {
		t.Parallel()

		env, err := main.LoadEnv(writeConfigFile(t, ".env", "TABLEX_TEST_ONLY=from-file\n"))
		require.NoError(t, err)

		v, ok := env.Lookup("TABLEX_TEST_ONLY")
		assert.True(t, ok)
		assert.Equal(t, "from-file", v)
	})

	t.Run("ignores a missing file", func(t *testing.T) {
		t.Parallel()

		env, err := main.LoadEnv(filepath.Join(t.TempDir(), ".env"))
		require.NoError(t, err)

		_, ok := env.Lookup("TABLEX_TEST_ONLY")
		assert.False(t, ok)
	})
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("uses defaults without file or environment", func(t *testing.T) {
		t.Parallel()

		env, err := main.LoadEnv("")
		require.NoError(t, err)

		cfg, err := main.LoadConfig("", env)
		require.NoError(t, err)

		assert.Equal(t, main.DefaultConfig(), cfg)
		assert.True(t, cfg.Extract.DetectHeaders)
	})

	t.Run("layers YAML and then the environment", func(t *testing.T) {
		t.Parallel()

		path := writeConfigFile(t, "tablex.yaml", `
format: json
page_size: 50
timeout: 30s
concurrency: 2
extract:
  detect_headers: false
  extract_xbrl_tags: true
`)
		env, err := main.LoadEnv(writeConfigFile(t, ".env", "TABLEX_CONCURRENCY=8\nTABLEX_DB=/tmp/x.db\n"))
		require.NoError(t, err)

		cfg, err := main.LoadConfig(path, env)
		require.NoError(t, err)

		assert.Equal(t, "json", cfg.Format)
		assert.Equal(t, 50, cfg.PageSize)
		assert.Equal(t, 30*time.Second, cfg.Timeout)
		assert.Equal(t, 8, cfg.Concurrency)
		assert.Equal(t, "/tmp/x.db", cfg.DB)
		assert.False(t, cfg.Extract.DetectHeaders)
		assert.True(t, cfg.Extract.ExtractXBRLTags)
	})

	t.Run("finds the config file through the environment", func(t *testing.T) {
		t.Parallel()

		path := writeConfigFile(t, "tablex.yaml", "rps: 0.5\n")
		env, err := main.LoadEnv(writeConfigFile(t, ".env", "TABLEX_CONFIG="+path+"\n"))
		require.NoError(t, err)

		cfg, err := main.LoadConfig("", env)
		require.NoError(t, err)

		assert.InDelta(t, 0.5, cfg.RPS, 0.0001)
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		t.Parallel()

		for _, content := range []string{
			"TABLEX_TIMEOUT=soon\n",
			"TABLEX_CONCURRENCY=many\n",
			"TABLEX_RPS=fast\n",
		} {
			env, err := main.LoadEnv(writeConfigFile(t, ".env", content))
			require.NoError(t, err)

			_, err = main.LoadConfig("", env)
			assert.Equal(t, tablex.EINVALID, tablex.ErrorCode(err), content)
		}

		env, err := main.LoadEnv("")
		require.NoError(t, err)
		_, err = main.LoadConfig(writeConfigFile(t, "bad.yaml", "format: pdf\n"), env)
		assert.Equal(t, tablex.EINVALID, tablex.ErrorCode(err))
	})
}
