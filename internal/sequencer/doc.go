// Package sequencer runs the book's external tools in a fixed order.
//
// The default deploy sequence is two steps: the static-site builder, then the
// publisher. Steps execute strictly one after another; the first step that
// fails aborts the run and no later step is started. There are no retries,
// no cleanup and no rollback. The failing tool's exit code is carried on the
// returned StepError so the CLI can exit with it unchanged.
//
// Observers receive lifecycle callbacks for logging, metrics, run history and
// notifications. They never influence the outcome of a run.
package sequencer
