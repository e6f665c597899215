// Package metrics records generation run metrics.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no nil checks are needed at call sites:
//
//	svc := build.NewService(deps) // NoopRecorder unless deps.Recorder is set
//
// When metrics.textfile is configured the command wires a PrometheusRecorder
// backed by its own registry and writes that registry in node_exporter
// textfile format after each run (see WriteTextfile). There is no HTTP
// exposition endpoint; a run is too short-lived to be scraped.
package metrics
