// Package report renders finished runs for people and for files.
package report

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"pcmax/internal/coordinator"
	"pcmax/internal/pcmax"
)

type WorkerSummary struct {
	Worker      int     `yaml:"worker"`
	Seed        int64   `yaml:"seed"`
	Makespan    int     `yaml:"makespan"`
	Generations int     `yaml:"generations"`
	Evaluations int     `yaml:"evaluations"`
	ElapsedSec  float64 `yaml:"elapsed_seconds"`
	Stopped     string  `yaml:"stopped"`
	Assignment  []int   `yaml:"assignment,flow"`
	Loads       []int   `yaml:"loads,flow"`
}

type Summary struct {
	RunID      string          `yaml:"run_id"`
	Mode       string          `yaml:"mode"`
	Processors int             `yaml:"processors"`
	Tasks      int             `yaml:"tasks"`
	Limit      int             `yaml:"limit"`
	LowerBound int             `yaml:"lower_bound"`
	BaseSeed   int64           `yaml:"base_seed"`
	ElapsedSec float64         `yaml:"elapsed_seconds"`
	Best       int             `yaml:"best_makespan"`
	BestWorker int             `yaml:"best_worker"`
	Workers    []WorkerSummary `yaml:"workers"`
}

// Summarize flattens a run report. Per-processor loads are recomputed from
// the instance so the file can be checked without rerunning the search.
func Summarize(mode string, limit int, inst *pcmax.Instance, rep coordinator.Report) (Summary, error) {
	eval, err := pcmax.NewEvaluator(inst)
	if err != nil {
		return Summary{}, err
	}

	s := Summary{
		RunID:      rep.RunID.String(),
		Mode:       mode,
		Processors: inst.Processors,
		Tasks:      inst.Tasks,
		Limit:      limit,
		LowerBound: inst.LowerBound(),
		BaseSeed:   rep.BaseSeed,
		ElapsedSec: rep.Elapsed.Seconds(),
		Best:       -1,
		BestWorker: -1,
	}
	if best, ok := rep.Best(); ok {
		s.Best = best.Makespan
		s.BestWorker = best.Worker
	}

	for _, res := range rep.Workers {
		loads, err := eval.Loads(res.Assignment, nil)
		if err != nil {
			return Summary{}, fmt.Errorf("worker %d: %w", res.Worker, err)
		}
		s.Workers = append(s.Workers, WorkerSummary{
			Worker:      res.Worker,
			Seed:        res.Seed,
			Makespan:    res.Makespan,
			Generations: res.Iterations,
			Evaluations: res.Evaluations,
			ElapsedSec:  res.Duration.Seconds(),
			Stopped:     string(res.Stopped),
			Assignment:  res.Assignment,
			Loads:       loads,
		})
	}
	return s, nil
}

// WriteText prints the final best of every worker and the global time.
func WriteText(w io.Writer, s Summary) error {
	var b strings.Builder
	fmt.Fprintf(&b, "P: %d\nT: %d\nLimit: %d (lower bound %d)\n\n", s.Processors, s.Tasks, s.Limit, s.LowerBound)
	for _, ws := range s.Workers {
		fmt.Fprintf(&b, "worker %d final best: %d (generations=%d, stopped=%s, time=%.1fs)\n",
			ws.Worker, ws.Makespan, ws.Generations, ws.Stopped, ws.ElapsedSec)
		fmt.Fprintf(&b, "  assignment: %s\n", joinInts(ws.Assignment))
		fmt.Fprintf(&b, "  loads:      %s\n", joinInts(ws.Loads))
	}
	if len(s.Workers) > 1 {
		fmt.Fprintf(&b, "\nBest: %d (worker %d)\n", s.Best, s.BestWorker)
	}
	fmt.Fprintf(&b, "Global time: %.1fs\n", s.ElapsedSec)

	_, err := io.WriteString(w, b.String())
	return err
}

func WriteYAML(w io.Writer, s Summary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}

func WriteYAMLFile(path string, s Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteYAML(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadYAML decodes a summary written by WriteYAML.
func ReadYAML(r io.Reader) (Summary, error) {
	var s Summary
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		return Summary{}, err
	}
	return s, nil
}

func joinInts(vs []int) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}
