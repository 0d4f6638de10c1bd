package book

import (
	"path/filepath"
	"strings"

	ferrors "git.home.luguber.info/inful/bookpress/internal/foundation/errors"
)

// TOCFile is the table of contents document name inside the book directory.
const TOCFile = "_toc.yml"

// TOC is the ordered list of content references, optionally grouped into parts.
type TOC struct {
	Format   string         `yaml:"format"`
	Root     string         `yaml:"root"`
	Defaults map[string]any `yaml:"defaults,omitempty"`
	Parts    []Part         `yaml:"parts,omitempty"`
	Chapters []Entry        `yaml:"chapters,omitempty"`
	Sections []Entry        `yaml:"sections,omitempty"`
}

// Part is a titled group of chapters.
type Part struct {
	Caption  string  `yaml:"caption"`
	Numbered bool    `yaml:"numbered,omitempty"`
	Chapters []Entry `yaml:"chapters"`
}

// Entry references a content file, an external URL or a glob, with optional children.
type Entry struct {
	File     string  `yaml:"file,omitempty"`
	URL      string  `yaml:"url,omitempty"`
	Glob     string  `yaml:"glob,omitempty"`
	Title    string  `yaml:"title,omitempty"`
	Sections []Entry `yaml:"sections,omitempty"`
}

// Item is one flattened TOC line in display order.
type Item struct {
	File  string
	URL   string
	Glob  string
	Title string
	Part  string
	Depth int
}

// LoadTOC parses and validates the table of contents in dir.
func LoadTOC(dir string) (*TOC, error) {
	var t TOC
	if err := readYAML(filepath.Join(dir, TOCFile), &t); err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Validate checks the structural rules the builder also enforces.
func (t *TOC) Validate() error {
	if t.Root == "" {
		return ferrors.BookError("table of contents has no root").Build()
	}
	if t.Format != "" && !strings.HasPrefix(t.Format, "jb-") {
		return ferrors.BookError("unsupported table of contents format").
			WithContext("format", t.Format).
			Build()
	}
	if len(t.Parts) > 0 && len(t.Chapters) > 0 {
		return ferrors.BookError("table of contents mixes parts and chapters at the top level").Build()
	}
	for _, e := range t.entries() {
		set := 0
		for _, v := range []string{e.File, e.URL, e.Glob} {
			if v != "" {
				set++
			}
		}
		if set != 1 {
			return ferrors.BookError("entry must have exactly one of file, url or glob").
				WithContext("entry", e.File+e.URL+e.Glob+e.Title).
				Build()
		}
	}
	return nil
}

// entries returns every non-root entry depth-first.
func (t *TOC) entries() []Entry {
	var out []Entry
	var visit func([]Entry)
	visit = func(es []Entry) {
		for _, e := range es {
			out = append(out, e)
			visit(e.Sections)
		}
	}
	for _, p := range t.Parts {
		visit(p.Chapters)
	}
	visit(t.Chapters)
	visit(t.Sections)
	return out
}

// Items flattens the TOC in display order; the root is the first item.
func (t *TOC) Items() []Item {
	items := []Item{{File: t.Root}}
	var visit func(es []Entry, part string, depth int)
	visit = func(es []Entry, part string, depth int) {
		for _, e := range es {
			items = append(items, Item{
				File:  e.File,
				URL:   e.URL,
				Glob:  e.Glob,
				Title: e.Title,
				Part:  part,
				Depth: depth,
			})
			visit(e.Sections, part, depth+1)
		}
	}
	for _, p := range t.Parts {
		visit(p.Chapters, p.Caption, 0)
	}
	visit(t.Chapters, "", 0)
	visit(t.Sections, "", 0)
	return items
}

// Files returns every file reference, root first.
func (t *TOC) Files() []string {
	var files []string
	for _, it := range t.Items() {
		if it.File != "" {
			files = append(files, it.File)
		}
	}
	return files
}
