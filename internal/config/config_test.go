package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"knapsack/internal/ga"
	"knapsack/internal/sa"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "knapsack.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ga.DefaultConfig(), cfg.GA)
	assert.Equal(t, sa.DefaultConfig(), cfg.SA)
	assert.Equal(t, 0.3, cfg.OffsetFraction)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesOnlyGivenFields(t *testing.T) {
	path := writeConfig(t, `
ga:
  population: 40
  selection:
    kind: tournament
    k: 0.75
sa:
  foolish: true
  perturbation:
    kind: nslice
    n: 3
bench:
  runs: 4
  timeout: 30s
  toy_seeds: [7]
store:
  backend: sqlite
  path: runs.db
log:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 40, cfg.GA.Population)
	assert.Equal(t, 1000, cfg.GA.Generations)
	assert.Equal(t, ga.Selection{Kind: ga.SelectionTournament, K: 0.75}, cfg.GA.Selection)
	assert.True(t, cfg.SA.Foolish)
	assert.Equal(t, sa.Perturbation{Kind: sa.PerturbNSlice, N: 3}, cfg.SA.Perturbation)
	assert.Equal(t, 50.0, cfg.SA.InitialTemp)
	assert.Equal(t, 4, cfg.Bench.Runs)
	assert.Equal(t, 30*time.Second, cfg.Bench.Timeout)
	assert.Equal(t, []int64{7}, cfg.Bench.ToySeeds)
	assert.Equal(t, "sqlite", cfg.Store.Backend)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadRejectsInvalidFiles(t *testing.T) {
	cases := map[string]string{
		"bad yaml":        "ga: [",
		"ga population":   "ga:\n  population: 1\n",
		"sa alpha":        "sa:\n  alpha: 1.5\n",
		"bench runs":      "bench:\n  runs: 0\n",
		"sqlite no path":  "store:\n  backend: sqlite\n",
		"unknown backend": "store:\n  backend: badger\n",
		"log level":       "log:\n  level: chatty\n",
		"random instance": "bench:\n  random:\n    - items: 1\n",
	}
	for name, content := range cases {
		_, err := Load(writeConfig(t, content))
		assert.Error(t, err, name)
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
