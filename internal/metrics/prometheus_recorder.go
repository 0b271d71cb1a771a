package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "docsetgen"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	duration prom.Histogram
	outcomes *prom.CounterVec
	files    prom.Histogram
}

// NewPrometheusRecorder constructs the collectors and registers them on reg.
// A nil reg gets a fresh private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		duration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Duration of documentation generation runs",
			Buckets:   prom.DefBuckets,
		}),
		outcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "generation_outcomes_total",
			Help:      "Generation runs by final outcome",
		}, []string{"outcome"}),
		files: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "artifact_files",
			Help:      "Number of files in each produced artifact set",
			Buckets:   prom.ExponentialBuckets(1, 4, 8),
		}),
	}
	reg.MustRegister(pr.duration, pr.outcomes, pr.files)
	return pr
}

func (p *PrometheusRecorder) ObserveGenerationDuration(d time.Duration) {
	if p == nil || p.duration == nil {
		return
	}
	p.duration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncGenerationOutcome(outcome OutcomeLabel) {
	if p == nil || p.outcomes == nil {
		return
	}
	p.outcomes.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) ObserveArtifactFiles(n int) {
	if p == nil || p.files == nil {
		return
	}
	p.files.Observe(float64(n))
}
