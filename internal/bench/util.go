package bench

import (
	"os"
	"path/filepath"
	"strconv"
)

var csvHeader = []string{
	"algo", "instance", "processors", "tasks", "runs", "lower_bound",
	"time_best_ms", "time_mean_ms", "time_std_ms",
	"makespan_best", "makespan_mean", "makespan_std", "limit_hits",
}

// csvRow renders r in csvHeader order.
func csvRow(r Record) []string {
	return []string{
		r.Algo,
		r.Instance,
		itoa(r.Processors),
		itoa(r.Tasks),
		itoa(r.Runs),
		itoa(r.LowerBound),

		ftoa(r.TimeBestMs),
		ftoa(r.TimeMeanMs),
		ftoa(r.TimeStdMs),

		itoa(r.MakespanBest),
		ftoa(r.MakespanMean),
		ftoa(r.MakespanStd),
		itoa(r.LimitHits),
	}
}

// ensureParentDir creates the directory holding path, if path has one.
func ensureParentDir(path string) error {
	d := filepath.Dir(path)
	if d == "." {
		return nil
	}
	return os.MkdirAll(d, 0o755)
}

func itoa(v int) string { return strconv.Itoa(v) }

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
