package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements Collector backed by Prometheus.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	generations *prometheus.CounterVec
	best        *prometheus.GaugeVec
	runs        *prometheus.CounterVec
	runDuration prometheus.Histogram
}

var _ Collector = (*PrometheusCollector)(nil)

// NewPrometheus creates a collector registering into reg
// (prometheus.DefaultRegisterer if nil) under namespace ("pcmax" if empty).
// Registration happens on first use.
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "pcmax"
	}
	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.generations = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "ga",
			Name:      "generations_total",
			Help:      "Completed generations per worker.",
		}, []string{"worker"})
		p.best = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "ga",
			Name:      "best_makespan",
			Help:      "Best makespan found so far per worker.",
		}, []string{"worker"})
		p.runs = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "ga",
			Name:      "runs_total",
			Help:      "Finished search loops by stop reason.",
		}, []string{"reason"})
		p.runDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "ga",
			Name:      "run_duration_seconds",
			Help:      "Wall time of finished search loops.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 10), // 10ms .. ~43min
		})

		p.reg.MustRegister(p.generations, p.best, p.runs, p.runDuration)
	})
}

func (p *PrometheusCollector) AddGenerations(worker string, n int) {
	p.ensureRegistered()
	p.generations.WithLabelValues(worker).Add(float64(n))
}

func (p *PrometheusCollector) SetBest(worker string, makespan int) {
	p.ensureRegistered()
	p.best.WithLabelValues(worker).Set(float64(makespan))
}

func (p *PrometheusCollector) RunFinished(reason string, d time.Duration) {
	p.ensureRegistered()
	p.runs.WithLabelValues(reason).Inc()
	p.runDuration.Observe(d.Seconds())
}
