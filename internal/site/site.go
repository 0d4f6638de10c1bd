// Package site inspects the static output produced by the external builder.
package site

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	ferrors "git.home.luguber.info/inful/bookpress/internal/foundation/errors"
)

// Summary describes a generated output directory.
type Summary struct {
	Dir       string
	Pages     int
	Files     int
	Bytes     int64
	Title     string
	HasIndex  bool
	Populated bool
}

// Inspect walks the output directory. A directory that does not exist yields
// an empty, unpopulated summary rather than an error.
func Inspect(dir string) (*Summary, error) {
	s := &Summary{Dir: dir}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return s, nil
	}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		s.Files++
		s.Bytes += info.Size()
		if strings.EqualFold(filepath.Ext(path), ".html") {
			s.Pages++
		}
		return nil
	})
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "inspect output directory").
			WithContext("path", dir).
			Build()
	}

	index := filepath.Join(dir, "index.html")
	if f, err := os.Open(index); err == nil {
		s.HasIndex = true
		s.Title = documentTitle(f)
		_ = f.Close()
	}
	s.Populated = s.Pages > 0
	return s, nil
}

// documentTitle returns the text of the first <title> element.
func documentTitle(r io.Reader) string {
	z := html.NewTokenizer(r)
	inTitle := false
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(b.String())
		case html.StartTagToken:
			name, _ := z.TagName()
			if string(name) == "title" {
				inTitle = true
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if string(name) == "title" {
				return strings.Join(strings.Fields(b.String()), " ")
			}
		case html.TextToken:
			if inTitle {
				b.Write(z.Text())
			}
		}
	}
}
