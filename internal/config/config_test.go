package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"pcmax/internal/ga"
)

func writeYAML(t *testing.T, v any) string {
	t.Helper()
	data, err := yaml.Marshal(v)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "pcmax.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, ModeParallel, cfg.Mode)
	require.Equal(t, "m25n198.txt", cfg.Instance.Path)
	require.Equal(t, 4, cfg.Coordinator.Workers)
	require.Equal(t, 300*time.Second, cfg.GA.MaxTime)

	search, err := cfg.Search(1200)
	require.NoError(t, err)
	require.Equal(t, 4, search.Workers)
	require.False(t, search.Seed.Present())
	require.Equal(t, 1200, search.GA.Limit)
	require.Equal(t, ga.ReplacementPerSlot, search.GA.Replacement)
	require.Equal(t, 10_000_000, search.GA.MaxIterations)
}

func TestLoad_SequentialFile(t *testing.T) {
	path := writeYAML(t, map[string]any{
		"mode": "sequential",
		"ga": map[string]any{
			"max_time":      "2s",
			"mutation_rate": 0.1,
		},
		"coordinator": map[string]any{"seed": 42},
	})

	cfg, err := Load(path)
	require.NoError(t, err)

	search, err := cfg.Search(0)
	require.NoError(t, err)
	require.Equal(t, 1, search.Workers)
	require.Equal(t, ga.ReplacementQuota, search.GA.Replacement)
	require.Equal(t, 5_000_000, search.GA.MaxIterations)
	require.Equal(t, 2*time.Second, search.GA.MaxTime)
	require.InDelta(t, 0.1, search.GA.MutationRate, 1e-9)
	seed, err := search.Seed.Get()
	require.NoError(t, err)
	require.EqualValues(t, 42, seed)
}

func TestLoad_EnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PCMAX_COORDINATOR_WORKERS", "8")
	t.Setenv("PCMAX_GA_REPLACEMENT", "quota")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 8, cfg.Coordinator.Workers)

	search, err := cfg.Search(0)
	require.NoError(t, err)
	require.Equal(t, ga.ReplacementQuota, search.GA.Replacement)
}

func TestLoad_Invalid(t *testing.T) {
	path := writeYAML(t, map[string]any{"mode": "distributed"})
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Error(t, cfg.Validate())

	path = writeYAML(t, map[string]any{"ga": map[string]any{"crossover_rate": 3}})
	cfg, err = Load(path)
	require.NoError(t, err)
	require.ErrorIs(t, cfg.Validate(), ga.ErrInvalidConfig)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path = writeYAML(t, map[string]any{"coordinator": map[string]any{"seed": "soon"}})
	_, err = Load(path)
	require.Error(t, err)
}

func TestLoad_OverrideBeforeValidate(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PCMAX_MODE", "distributed")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Error(t, cfg.Validate())

	cfg.Mode = ModeSequential
	require.NoError(t, cfg.Validate())
}

func TestLoad_ExplicitZeroSeed(t *testing.T) {
	path := writeYAML(t, map[string]any{"coordinator": map[string]any{"seed": 0}})

	cfg, err := Load(path)
	require.NoError(t, err)

	search, err := cfg.Search(0)
	require.NoError(t, err)
	seed, err := search.Seed.Get()
	require.NoError(t, err)
	require.EqualValues(t, 0, seed)
}

func TestLoad_SeedFromEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PCMAX_COORDINATOR_SEED", "0")

	cfg, err := Load("")
	require.NoError(t, err)
	seed, err := cfg.Coordinator.Seed.Get()
	require.NoError(t, err)
	require.EqualValues(t, 0, seed)
}
