// Package metrics records task execution metrics for readme generation runs.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no caller needs nil checks:
//
//	graph := taskgraph.New[*readme.Run](taskgraph.WithRecorder(metrics.NoopRecorder{}))
//
// PrometheusRecorder backs the CLI's --metrics-file flag; after a run the
// registry is written in the Prometheus text exposition format so node_exporter's
// textfile collector (or any scraper reading files) can pick it up.
package metrics
