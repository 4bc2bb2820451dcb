package metrics

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/common/expfmt"

	"github.com/agbru/cojoin/internal/orchestration"
	"github.com/agbru/cojoin/internal/trial"
)

const namespace = "cojoin"

// SkewBuckets spans 100ns to about 1.6s in factor-of-4 steps.
var SkewBuckets = prometheus.ExponentialBuckets(100, 4, 13)

// Recorder implements orchestration.MetricsRecorder on a private
// Prometheus registry.
type Recorder struct {
	registry *prometheus.Registry
	skew     *prometheus.HistogramVec
	maxSkew  *prometheus.HistogramVec
	trials   *prometheus.CounterVec
	failures *prometheus.CounterVec
}

var _ orchestration.MetricsRecorder = (*Recorder)(nil)

// NewRecorder returns a recorder whose registry also carries the Go
// runtime collector.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		skew: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "start_skew_nanoseconds",
			Help:      "Distance of each worker's start from the earliest start of its trial.",
			Buckets:   SkewBuckets,
		}, []string{"strategy"}),
		maxSkew: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "trial_max_skew_nanoseconds",
			Help:      "Largest start skew of each trial.",
			Buckets:   SkewBuckets,
		}, []string{"strategy"}),
		trials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trials_total",
			Help:      "Completed trials.",
		}, []string{"strategy"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trial_failures_total",
			Help:      "Failed trials.",
		}, []string{"strategy"}),
	}
	r.registry.MustRegister(r.skew, r.maxSkew, r.trials, r.failures, collectors.NewGoCollector())
	return r
}

// ObserveTrial records every skew of res.
func (r *Recorder) ObserveTrial(strategy string, res trial.Result) {
	h := r.skew.WithLabelValues(strategy)
	for _, s := range res.Skews {
		h.Observe(float64(s))
	}
	r.maxSkew.WithLabelValues(strategy).Observe(float64(res.Max))
	r.trials.WithLabelValues(strategy).Inc()
}

// ObserveFailure counts a failed trial.
func (r *Recorder) ObserveFailure(strategy string) {
	r.failures.WithLabelValues(strategy).Inc()
}

// RegisterGauge exposes f as a gauge, e.g. the pool's worker count.
func (r *Recorder) RegisterGauge(name, help string, f func() float64) {
	r.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, f))
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteText gathers the registry and writes it in the Prometheus text
// exposition format.
func (r *Recorder) WriteText(w io.Writer) error {
	families, err := r.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
