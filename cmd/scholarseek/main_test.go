package main

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestLoadServerConfig(t *testing.T) {
	t.Run("defaults without file", func(t *testing.T) {
		config, err := loadServerConfig("")
		require.NoError(t, err)
		assert.Equal(t, ":8080", config.Addr)
		assert.Equal(t, "./researchers.db", config.WarehousePath)
		assert.False(t, config.AI.Disabled)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := `addr: ":9090"
warehouse_path: /data/corpus.db
ai:
  host: http://models.internal:11434
  embedding_model: embeddinggemma
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		config, err := loadServerConfig(path)
		require.NoError(t, err)
		assert.Equal(t, ":9090", config.Addr)
		assert.Equal(t, "/data/corpus.db", config.WarehousePath)
		assert.Equal(t, "./projects_db", config.StoragePath)
		assert.Equal(t, "http://models.internal:11434", config.AI.Host)
		assert.Equal(t, "embeddinggemma", config.AI.EmbeddingModel)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := loadServerConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("addr: [broken"), 0644))
		_, err := loadServerConfig(path)
		assert.Error(t, err)
	})
}

func TestResolveConfigFlagPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":9090\"\n"), 0644))

	set := flag.NewFlagSet("serve", flag.ContinueOnError)
	set.String("config", "", "")
	set.String("addr", "", "")
	set.String("warehouse", "", "")
	set.String("storage", "", "")
	set.Bool("no-ai", false, "")
	set.String("ai-host", "", "")
	set.String("embedding-model", "", "")
	set.String("generator-model", "", "")
	set.String("api-key", "", "")
	require.NoError(t, set.Parse([]string{}))
	require.NoError(t, set.Set("config", path))
	require.NoError(t, set.Set("addr", ":7070"))
	require.NoError(t, set.Set("no-ai", "true"))

	c := cli.NewContext(&cli.App{}, set, nil)
	config, err := resolveConfig(c)
	require.NoError(t, err)

	assert.Equal(t, ":7070", config.Addr, "flag should beat config file")
	assert.True(t, config.AI.Disabled)
	assert.Equal(t, "./researchers.db", config.WarehousePath)
}

func TestSetupLogger(t *testing.T) {
	validLevels := []string{"debug", "info", "warn", "error", "WARN"}
	for _, level := range validLevels {
		set := flag.NewFlagSet("test", flag.ContinueOnError)
		set.String("log-level", level, "")
		c := cli.NewContext(&cli.App{}, set, nil)
		assert.NoError(t, setupLogger(c), "level %q", level)
	}

	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.String("log-level", "verbose", "")
	c := cli.NewContext(&cli.App{}, set, nil)
	assert.Error(t, setupLogger(c))
}

func TestAppOptions(t *testing.T) {
	t.Run("disabled AI yields one option", func(t *testing.T) {
		config := defaultServerConfig()
		config.AI.Disabled = true
		assert.Len(t, appOptions(config), 1)
	})

	t.Run("enabled AI yields config option", func(t *testing.T) {
		config := defaultServerConfig()
		config.AI.Host = "http://models.internal:11434"
		assert.Len(t, appOptions(config), 1)
	})
}
