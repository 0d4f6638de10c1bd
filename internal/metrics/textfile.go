package metrics

import (
	"os"
	"path/filepath"

	prom "github.com/prometheus/client_golang/prometheus"

	ferrors "git.home.luguber.info/inful/bookpress/internal/foundation/errors"
)

// WriteTextfile writes every metric gathered from g to path in the
// node-exporter textfile collector format. The write is atomic.
func WriteTextfile(path string, g prom.Gatherer) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "create metrics directory").
			WithContext("path", path).
			Build()
	}
	if err := prom.WriteToTextfile(path, g); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "write metrics textfile").
			WithContext("path", path).
			Build()
	}
	return nil
}
