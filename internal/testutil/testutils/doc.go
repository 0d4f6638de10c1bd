// Package helpers holds test fixtures shared across bookpress packages:
// fake external tools on PATH, scratch git repositories and file assertions.
package helpers
