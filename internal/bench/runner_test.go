package bench

import (
	"context"
	"encoding/csv"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"pcmax/internal/ga"
	"pcmax/internal/opt"
	"pcmax/internal/pcmax"
)

type fixedOptimizer struct {
	assign   []int
	makespan int
}

func (f fixedOptimizer) Solve(context.Context, *pcmax.Instance) (opt.Result, error) {
	return opt.Result{Assignment: f.assign, Makespan: f.makespan}, nil
}

func writeInstance(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestGlobCases(t *testing.T) {
	dir := t.TempDir()
	writeInstance(t, dir, "b/m2n4.txt", "2 4 5 5 5 5")
	writeInstance(t, dir, "a/deep/m3n3.txt", "3 3 1 2 3")
	writeInstance(t, dir, "notes.md", "ignored")

	cases, err := GlobCases(filepath.Join(dir, "**", "*.txt"))
	require.NoError(t, err)
	require.Len(t, cases, 2)
	require.Equal(t, "m3n3", cases[0].Name)
	require.Equal(t, 3, cases[0].Processors)
	require.Equal(t, "m2n4", cases[1].Name)
	require.Equal(t, 4, cases[1].Tasks)

	_, err = GlobCases(filepath.Join(dir, "**", "*.csv"))
	require.Error(t, err)
}

func TestRunner_RunCase_GA(t *testing.T) {
	dir := t.TempDir()
	path := writeInstance(t, dir, "m2n4.txt", "2 4 5 5 5 5")

	cfg := ga.DefaultConfig()
	cfg.MaxIterations = 2000
	cfg.MaxTime = time.Minute
	cfg.Limit = 10
	algo := Algorithm{Name: "GA", Factory: func(seed int64) opt.Optimizer {
		s, err := ga.New(cfg, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)
		return s
	}}

	r := Runner{Runs: 3, BaseSeed: 100, Limit: 10}
	rec, err := r.RunCase(context.Background(), Case{Name: "m2n4", Path: path}, algo)
	require.NoError(t, err)
	require.Equal(t, "GA", rec.Algo)
	require.Equal(t, 10, rec.MakespanBest)
	require.Equal(t, 10, rec.LowerBound)
	require.Equal(t, 3, rec.LimitHits)
	require.InDelta(t, 0, rec.MakespanStd, 1e-9)
}

func TestRunner_RunCase_RejectsInconsistentResult(t *testing.T) {
	algo := Algorithm{Name: "bad", Factory: func(int64) opt.Optimizer {
		return fixedOptimizer{assign: []int{1, 1, 1, 1}, makespan: 10}
	}}
	inst := Case{Name: "rand", Processors: 2, Tasks: 4, InstanceSeed: 1}

	_, err := Runner{Runs: 1, Limit: -1}.RunCase(context.Background(), inst, algo)
	require.ErrorContains(t, err, "reported makespan")

	algo.Factory = func(int64) opt.Optimizer {
		return fixedOptimizer{assign: []int{1, 3, 1, 1}}
	}
	_, err = Runner{Runs: 1, Limit: -1}.RunCase(context.Background(), inst, algo)
	require.ErrorIs(t, err, pcmax.ErrInvalidAssignment)
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "results.csv")
	recs := []Record{{Algo: "GA", Instance: "m25n198", Processors: 25, Tasks: 198, Runs: 2, MakespanBest: 1200}}
	require.NoError(t, WriteCSV(path, recs))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "algo", rows[0][0])
	require.Equal(t, "m25n198", rows[1][1])
	require.Equal(t, "1200", rows[1][9])
}
