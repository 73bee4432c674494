package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(newViper())
	require.NoError(t, err)

	assert.Equal(t, FormatDOT, cfg.Format)
	assert.Equal(t, IDsAuto, cfg.IDs)
	assert.Equal(t, FrontendDecl, cfg.Frontend)
	assert.Equal(t, DefaultInclude, cfg.Include)
	assert.Empty(t, cfg.Exclude)
	assert.False(t, cfg.ShowImplementations)
	assert.Equal(t, "bolt://localhost:7687", cfg.Neo4jURI)
	assert.Equal(t, "umlgraph.db", cfg.SQLitePath)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("UMLGRAPH_NEO4J_PASS", "secret")
	t.Setenv("UMLGRAPH_IDS", "Qualified")
	t.Setenv("UMLGRAPH_SHOW_IMPLEMENTATIONS", "true")

	cfg, err := loadConfig(newViper())
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.Neo4jPass)
	assert.Equal(t, IDsQualified, cfg.IDs)
	assert.True(t, cfg.ShowImplementations)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{"format", "png", `unsupported format "png"`},
		{"ids", "random", `unsupported ids policy "random"`},
		{"frontend", "rust", `unsupported frontend "rust"`},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			v := newViper()
			v.Set(tt.key, tt.value)
			_, err := loadConfig(v)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestReadConfigFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "umlgraph.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
format: json
ids: plain
include: ["*.yml"]
neo4j:
  uri: bolt://graph:7687
log:
  level: debug
`), 0o644))

	v := newViper()
	require.NoError(t, readConfigFile(v, file))
	cfg, err := loadConfig(v)
	require.NoError(t, err)

	assert.Equal(t, FormatJSON, cfg.Format)
	assert.Equal(t, IDsPlain, cfg.IDs)
	assert.Equal(t, []string{"*.yml"}, cfg.Include)
	assert.Equal(t, "bolt://graph:7687", cfg.Neo4jURI)
	assert.Equal(t, "neo4j", cfg.Neo4jUser)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestReadConfigFile_Missing(t *testing.T) {
	err := readConfigFile(newViper(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "error reading config file")
}

func TestNewLogger_File(t *testing.T) {
	file := filepath.Join(t.TempDir(), "umlgraph.log")
	logger, closer := newLogger("debug", file)
	logger.Debug("assembled graph", "nodes", 2)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "assembled graph")
	assert.Contains(t, string(data), "nodes=2")
}

func TestNewLogger_Level(t *testing.T) {
	logger, closer := newLogger("warn", "")
	defer closer.Close()
	assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
}
