// Package metrics provides observability hooks for documentation generation.
//
// Components receive a Recorder and default to NoopRecorder, so no nil checks
// are needed at call sites. PrometheusRecorder registers its collectors on a
// caller-supplied registry and HTTPHandler serves that registry:
//
//	reg := prom.NewRegistry()
//	runner := generation.NewRunner(p, generation.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//	http.Handle("/metrics", metrics.HTTPHandler(reg))
package metrics
