package opt

import (
	"context"
	"time"

	"pcmax/internal/pcmax"
)

type Optimizer interface {
	Solve(ctx context.Context, inst *pcmax.Instance) (Result, error)
}

// StopReason names the condition that ended a search loop.
type StopReason string

const (
	StopIterations StopReason = "iterations"
	StopTime       StopReason = "time"
	StopLimit      StopReason = "limit"
	StopShared     StopReason = "shared-stop"
	StopContext    StopReason = "context"
)

type Result struct {
	// Assignment[i] is the 1-based processor owning task i.
	Assignment  []int
	Makespan    int
	Evaluations int
	Iterations  int
	Duration    time.Duration
	Stopped     StopReason
	Worker      int
	Seed        int64
	Meta        map[string]any
}
