// Package metrics records run and step metrics for bookpress.
//
// Components receive a Recorder through dependency injection. NoopRecorder is
// the default and does nothing; PrometheusRecorder registers collectors on a
// registry which Textfile can flush in the node-exporter textfile format after
// each run:
//
//	reg := prometheus.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	seq.WithObserver(metrics.NewObserver(rec))
//	...
//	_ = metrics.WriteTextfile(path, reg)
package metrics
