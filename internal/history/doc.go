// Package history persists a summary of every sequencer run in SQLite.
//
// History is auxiliary: a failure to record a run is logged and never
// changes the run's outcome or exit code.
package history
