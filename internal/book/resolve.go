package book

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SourceSuffixes are tried in order when a reference has no usable extension.
var SourceSuffixes = []string{".md", ".ipynb", ".rst", ".myst", ".markdown", ".py"}

// Resolve maps a TOC file reference to a path on disk. References are
// slash-separated and relative to the book directory.
func Resolve(dir, ref string) (string, bool) {
	base := filepath.Join(dir, filepath.FromSlash(ref))
	if isFile(base) {
		return base, true
	}
	for _, suffix := range SourceSuffixes {
		if p := base + suffix; isFile(p) {
			return p, true
		}
	}
	return "", false
}

// Missing lists file references and globs of the TOC that match nothing on
// disk, in TOC order.
func Missing(dir string, t *TOC) []string {
	var missing []string
	for _, it := range t.Items() {
		switch {
		case it.File != "":
			if _, ok := Resolve(dir, it.File); !ok {
				missing = append(missing, it.File)
			}
		case it.Glob != "":
			if len(expandGlob(dir, it.Glob)) == 0 {
				missing = append(missing, it.Glob)
			}
		}
	}
	return missing
}

// expandGlob matches a glob reference against source files and returns
// book-relative references without extension, sorted.
func expandGlob(dir, pattern string) []string {
	matches, err := filepath.Glob(filepath.Join(dir, filepath.FromSlash(pattern)))
	if err != nil {
		return nil
	}
	seen := make(map[string]bool)
	var refs []string
	for _, m := range matches {
		ext := filepath.Ext(m)
		if !isSourceSuffix(ext) || !isFile(m) {
			continue
		}
		rel, err := filepath.Rel(dir, strings.TrimSuffix(m, ext))
		if err != nil {
			continue
		}
		ref := filepath.ToSlash(rel)
		if !seen[ref] {
			seen[ref] = true
			refs = append(refs, ref)
		}
	}
	sort.Strings(refs)
	return refs
}

func isSourceSuffix(ext string) bool {
	for _, s := range SourceSuffixes {
		if s == ext {
			return true
		}
	}
	return false
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
