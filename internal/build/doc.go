// Package build provides the canonical generation pipeline for citepage.
//
// Every execution path (the generate command, the daemon, tests) routes
// through Service.Run. A run moves through fixed stages:
//
//	load → generate → render → write → validate → persist → notify
//
// Each stage is timed and its result recorded on a metrics.Recorder. The
// context is checked for cancellation before each stage up to and including
// write. Once output has been written the run always persists the registry,
// so a published citation can never be generated again.
//
// A validation failure does not stop the run: the registry is still saved
// and the validation error is returned at the end. Notification failures
// only produce warnings.
package build
