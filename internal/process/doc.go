// Package process runs external command-line tools on behalf of the sequencer.
//
// The child's output goes to the terminal untouched and its exit status is
// returned verbatim. A tool missing from PATH is reported with exit code 127,
// the shell's "command not found" status.
package process
