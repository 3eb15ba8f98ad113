package bench

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"pcmax/internal/opt"
	"pcmax/internal/pcmax"
)

type Algorithm struct {
	Name    string
	Factory func(seed int64) opt.Optimizer
}

type Record struct {
	Algo       string
	Instance   string
	Processors int
	Tasks      int
	Runs       int
	LowerBound int

	TimeBestMs float64
	TimeMeanMs float64
	TimeStdMs  float64

	MakespanBest int
	MakespanMean float64
	MakespanStd  float64
	LimitHits    int
}

type Runner struct {
	Runs          int
	BaseSeed      int64
	PerRunTimeout time.Duration // 0 = no timeout
	// Limit counts runs whose makespan is <= Limit; negative disables it.
	Limit int
}

func (r Runner) RunCase(ctx context.Context, c Case, algo Algorithm) (Record, error) {
	inst, err := c.Instance()
	if err != nil {
		return Record{}, err
	}
	eval, err := pcmax.NewEvaluator(inst)
	if err != nil {
		return Record{}, err
	}

	makespans := make([]int, 0, r.Runs)
	timesMs := make([]float64, 0, r.Runs)
	hits := 0

	for i := 0; i < r.Runs; i++ {
		runSeed := r.BaseSeed + int64(i)

		op := algo.Factory(runSeed)

		runCtx := ctx
		cancel := func() {}
		if r.PerRunTimeout > 0 {
			runCtx, cancel = context.WithTimeout(ctx, r.PerRunTimeout)
		}
		start := time.Now()
		res, err := op.Solve(runCtx, inst)
		dur := time.Since(start)
		cancel()

		if err != nil && runCtx.Err() != nil {
			return Record{}, fmt.Errorf("run %d: cancelled/timeout: %w", i, err)
		}
		if err != nil {
			return Record{}, fmt.Errorf("run %d: solve error: %w", i, err)
		}
		ms, err := eval.Makespan(res.Assignment)
		if err != nil {
			return Record{}, fmt.Errorf("run %d: %w", i, err)
		}
		if ms != res.Makespan {
			return Record{}, fmt.Errorf("run %d: reported makespan %d, assignment evaluates to %d", i, res.Makespan, ms)
		}

		makespans = append(makespans, res.Makespan)
		timesMs = append(timesMs, float64(dur.Microseconds())/1000.0)
		if r.Limit >= 0 && res.Makespan <= r.Limit {
			hits++
		}
	}

	msStats := CalcStats(makespans)
	tStats := CalcStats(timesMs)

	return Record{
		Algo:       algo.Name,
		Instance:   c.Name,
		Processors: inst.Processors,
		Tasks:      inst.Tasks,
		Runs:       r.Runs,
		LowerBound: inst.LowerBound(),

		TimeBestMs: tStats.Best,
		TimeMeanMs: tStats.Mean,
		TimeStdMs:  tStats.Std,

		MakespanBest: int(msStats.Best),
		MakespanMean: msStats.Mean,
		MakespanStd:  msStats.Std,
		LimitHits:    hits,
	}, nil
}

// WriteCSV writes one row per record, creating the parent directory if needed.
func WriteCSV(path string, records []Record) error {
	if err := ensureParentDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range records {
		if err := w.Write(csvRow(r)); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
