package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/bookpress/internal/foundation/errors"
)

const initHeader = `# bookpress configuration.
# Commands run from book_dir; {output_dir} and {book_dir} are expanded.
`

// Init writes a configuration file populated with the defaults.
func Init(path string, force bool) error {
	if path == "" {
		path = DefaultPath
	}
	if _, err := os.Stat(path); err == nil && !force {
		return ferrors.NewError(ferrors.CategoryConfig, "configuration file already exists (use --force to overwrite)").
			WithContext("path", path).
			Build()
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "marshal default configuration").Build()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "create configuration directory").Build()
		}
	}
	if err := os.WriteFile(path, append([]byte(initHeader), data...), 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write configuration").
			WithContext("path", path).
			Build()
	}
	return nil
}
