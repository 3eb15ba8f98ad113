package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/markphelps/optional"
	"github.com/prometheus/client_golang/prometheus"

	"pcmax/internal/config"
	"pcmax/internal/coordinator"
	"pcmax/internal/logging"
	"pcmax/internal/metrics"
	"pcmax/internal/pcmax"
	"pcmax/internal/report"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath  = flag.String("config", "", "path to a YAML config file (default: ./config/pcmax.yaml or ./pcmax.yaml if present)")
		instance    = flag.String("instance", "", "instance file: processor count, task count, task times")
		mode        = flag.String("mode", "", "search mode: sequential | parallel")
		workers     = flag.Int("workers", 0, "number of parallel workers")
		seed        = flag.Int64("seed", 0, "base random seed (default: derive from the clock)")
		maxTime     = flag.Duration("max-time", 0, "wall time budget per search loop")
		reportPath  = flag.String("report", "", "write a YAML run report to this file")
		metricsAddr = flag.String("metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9100")
		logLevel    = flag.String("log-level", "", "debug | info | warn | error")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <limit>\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	limit, err := parseLimit(flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		return 2
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "instance":
			cfg.Instance.Path = *instance
		case "mode":
			cfg.Mode = *mode
		case "workers":
			cfg.Coordinator.Workers = *workers
		case "seed":
			cfg.Coordinator.Seed = optional.NewInt64(*seed)
		case "max-time":
			cfg.GA.MaxTime = *maxTime
		case "metrics-addr":
			cfg.Metrics.Addr = *metricsAddr
		case "log-level":
			cfg.Logging.Level = *logLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		return 2
	}
	search, err := cfg.Search(limit)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		return 2
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		return 2
	}
	log := logging.New(os.Stderr, level, cfg.Logging.Format)

	inst, err := pcmax.LoadFile(cfg.Instance.Path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "instance:", err)
		return 1
	}
	log.Info("instance loaded", "path", cfg.Instance.Path, "processors", inst.Processors, "tasks", inst.Tasks, "limit", limit)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var collector metrics.Collector = metrics.NewNop()
	if cfg.Metrics.Addr != "" {
		reg := prometheus.NewRegistry()
		collector = metrics.NewPrometheus(reg, "")
		srv := metrics.NewServer(cfg.Metrics.Addr, reg, log)
		srvCtx, srvCancel := context.WithCancel(context.Background())
		defer srvCancel()
		go func() {
			if err := srv.Start(srvCtx); err != nil {
				log.Error("metrics server failed", "error", err)
			}
		}()
	}

	coord, err := coordinator.New(search, coordinator.WithLogger(log), coordinator.WithMetrics(collector))
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		return 2
	}

	var rep coordinator.Report
	if cfg.Mode == config.ModeSequential {
		rep, err = coord.RunSequential(ctx, inst)
	} else {
		rep, err = coord.Run(ctx, inst)
	}
	exitCode := 0
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "search:", err)
			return 1
		}
		log.Warn("search interrupted, reporting best so far")
		exitCode = 1
	}

	summary, err := report.Summarize(cfg.Mode, limit, inst, rep)
	if err != nil {
		fmt.Fprintln(os.Stderr, "report:", err)
		return 1
	}
	if err := report.WriteText(os.Stdout, summary); err != nil {
		fmt.Fprintln(os.Stderr, "report:", err)
		return 1
	}
	if *reportPath != "" {
		if err := report.WriteYAMLFile(*reportPath, summary); err != nil {
			fmt.Fprintln(os.Stderr, "report:", err)
			return 1
		}
		log.Info("report written", "path", *reportPath)
	}
	return exitCode
}

// parseLimit reads the required target makespan from the positional args.
func parseLimit(args []string) (int, error) {
	if len(args) < 1 {
		return 0, errors.New("no limit argument")
	}
	limit, err := strconv.Atoi(args[0])
	if err != nil || limit < 0 {
		return 0, fmt.Errorf("limit must be a non-negative integer (got %q)", args[0])
	}
	return limit, nil
}
