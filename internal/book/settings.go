package book

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/bookpress/internal/foundation/errors"
)

// SettingsFile is the settings document name inside the book directory.
const SettingsFile = "_config.yml"

// Settings is the site-wide metadata document. Keys bookpress does not model
// are kept in Extra.
type Settings struct {
	Title           string             `yaml:"title"`
	Author          string             `yaml:"author"`
	Copyright       string             `yaml:"copyright,omitempty"`
	Logo            string             `yaml:"logo,omitempty"`
	ExcludePatterns []string           `yaml:"exclude_patterns,omitempty"`
	Repository      RepositorySettings `yaml:"repository,omitempty"`
	HTML            HTMLSettings       `yaml:"html,omitempty"`
	Execute         ExecuteSettings    `yaml:"execute,omitempty"`
	Extra           map[string]any     `yaml:",inline"`
}

// RepositorySettings links the rendered book back to its source repository.
type RepositorySettings struct {
	URL        string `yaml:"url,omitempty"`
	PathToBook string `yaml:"path_to_book,omitempty"`
	Branch     string `yaml:"branch,omitempty"`
}

// HTMLSettings are theme toggles.
type HTMLSettings struct {
	Favicon             string `yaml:"favicon,omitempty"`
	UseRepositoryButton bool   `yaml:"use_repository_button,omitempty"`
	UseIssuesButton     bool   `yaml:"use_issues_button,omitempty"`
	UseEditPageButton   bool   `yaml:"use_edit_page_button,omitempty"`
}

// ExecuteSettings control notebook execution by the builder.
type ExecuteSettings struct {
	ExecuteNotebooks string `yaml:"execute_notebooks,omitempty"`
	Timeout          int    `yaml:"timeout,omitempty"`
}

// LoadSettings parses the settings document in dir.
func LoadSettings(dir string) (*Settings, error) {
	path := filepath.Join(dir, SettingsFile)
	var s Settings
	if err := readYAML(path, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func readYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ferrors.NewError(ferrors.CategoryNotFound, "book file not found").
				WithContext("path", path).
				Build()
		}
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "read book file").
			WithContext("path", path).
			Build()
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryBook, "parse book file").
			WithContext("path", path).
			Build()
	}
	return nil
}
