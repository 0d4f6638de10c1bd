package book

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/inful/mdfp"

	ferrors "git.home.luguber.info/inful/bookpress/internal/foundation/errors"
)

// Book is an opened book directory.
type Book struct {
	Dir      string
	Settings *Settings
	TOC      *TOC
}

// Open loads the book in dir. The table of contents is required; a missing
// settings document yields empty settings, as the builder applies defaults.
func Open(dir string) (*Book, error) {
	toc, err := LoadTOC(dir)
	if err != nil {
		return nil, err
	}
	settings, err := LoadSettings(dir)
	if err != nil {
		if !ferrors.HasCategory(err, ferrors.CategoryNotFound) {
			return nil, err
		}
		settings = &Settings{}
	}
	return &Book{Dir: dir, Settings: settings, TOC: toc}, nil
}

// Title returns the configured title or the root page's title.
func (b *Book) Title() string {
	if b.Settings != nil && b.Settings.Title != "" {
		return b.Settings.Title
	}
	if p, ok := Resolve(b.Dir, b.TOC.Root); ok {
		if page, err := LoadPage(p); err == nil {
			return page.Title
		}
	}
	return ""
}

// Missing lists TOC references that do not exist on disk.
func (b *Book) Missing() []string {
	return Missing(b.Dir, b.TOC)
}

// OutlineEntry is a TOC item with its resolved page.
type OutlineEntry struct {
	Item
	Path    string
	Missing bool
}

// Outline resolves every TOC item in display order. Globs expand to one
// entry per matched file. An explicit TOC title wins over the page title.
func (b *Book) Outline() ([]OutlineEntry, error) {
	var out []OutlineEntry
	add := func(it Item) error {
		path, ok := Resolve(b.Dir, it.File)
		entry := OutlineEntry{Item: it, Path: path, Missing: !ok}
		if ok && it.Title == "" {
			page, err := LoadPage(path)
			if err != nil {
				return err
			}
			entry.Title = page.Title
		}
		out = append(out, entry)
		return nil
	}

	for _, it := range b.TOC.Items() {
		switch {
		case it.URL != "":
			if it.Title == "" {
				it.Title = it.URL
			}
			out = append(out, OutlineEntry{Item: it})
		case it.Glob != "":
			refs := expandGlob(b.Dir, it.Glob)
			if len(refs) == 0 {
				out = append(out, OutlineEntry{Item: it, Missing: true})
				continue
			}
			for _, ref := range refs {
				g := it
				g.File, g.Glob = ref, ""
				if err := add(g); err != nil {
					return nil, err
				}
			}
		default:
			if err := add(it); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// Fingerprint aggregates the content fingerprints of every resolvable page
// plus both declarative documents. It changes whenever any input the builder
// reads changes, and is stable across runs otherwise.
func (b *Book) Fingerprint() (string, error) {
	entries, err := b.Outline()
	if err != nil {
		return "", err
	}
	lines := make([]string, 0, len(entries)+2)
	for _, e := range entries {
		if e.Path == "" {
			continue
		}
		page, err := LoadPage(e.Path)
		if err != nil {
			return "", err
		}
		lines = append(lines, fmt.Sprintf("%s %s", e.File, page.Fingerprint))
	}
	for _, name := range []string{TOCFile, SettingsFile} {
		data, err := os.ReadFile(filepath.Join(b.Dir, name))
		if err != nil {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s %s", name, mdfp.CalculateFingerprintFromParts("", string(data))))
	}
	sort.Strings(lines)
	return mdfp.CalculateFingerprintFromParts("", strings.Join(lines, "\n")), nil
}
