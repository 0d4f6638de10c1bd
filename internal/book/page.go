package book

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/inful/mdfp"
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	ferrors "git.home.luguber.info/inful/bookpress/internal/foundation/errors"
)

// Kind classifies a content file by how its title is found.
type Kind string

const (
	KindMarkdown Kind = "markdown"
	KindNotebook Kind = "notebook"
	KindRST      Kind = "rst"
	KindScript   Kind = "script"
)

// Page is a resolved content file.
type Page struct {
	Path        string
	Kind        Kind
	Title       string
	Fingerprint string
}

// KindOf derives the kind from the file extension.
func KindOf(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ipynb":
		return KindNotebook
	case ".rst":
		return KindRST
	case ".py":
		return KindScript
	default:
		return KindMarkdown
	}
}

// LoadPage reads a content file and derives its title and fingerprint.
// Titles come from frontmatter, the first heading, the first markdown cell of
// a notebook or a module docstring, falling back to the file name.
func LoadPage(path string) (*Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "read page").
			WithContext("path", path).
			Build()
	}

	p := &Page{Path: path, Kind: KindOf(path)}
	switch p.Kind {
	case KindNotebook:
		err = p.fromNotebook(data)
	case KindScript:
		p.Title = docstringTitle(data)
		p.Fingerprint = mdfp.CalculateFingerprintFromParts("", string(data))
	case KindRST:
		p.Title = rstTitle(data)
		p.Fingerprint = mdfp.CalculateFingerprintFromParts("", string(data))
	default:
		err = p.fromMarkdown(data)
	}
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryBook, "parse page").
			WithContext("path", path).
			Build()
	}
	if p.Title == "" {
		p.Title = TitleFromName(path)
	}
	return p, nil
}

func (p *Page) fromMarkdown(data []byte) error {
	fm, body, err := splitFrontmatter(data)
	if err != nil {
		return err
	}
	p.Fingerprint = mdfp.CalculateFingerprintFromParts(string(fm), string(body))
	if t := frontmatterTitle(fm); t != "" {
		p.Title = t
		return nil
	}
	p.Title = markdownTitle(body)
	return nil
}

// notebook is the subset of the nbformat v4 document needed for titles.
type notebook struct {
	Cells []struct {
		CellType string          `json:"cell_type"`
		Source   json.RawMessage `json:"source"`
	} `json:"cells"`
}

func (p *Page) fromNotebook(data []byte) error {
	var nb notebook
	if err := json.Unmarshal(data, &nb); err != nil {
		return err
	}
	var sources strings.Builder
	for _, c := range nb.Cells {
		src := cellSource(c.Source)
		sources.WriteString(src)
		if p.Title == "" && c.CellType == "markdown" {
			p.Title = markdownTitle([]byte(src))
		}
	}
	// outputs and execution counts change on every run; only sources count
	p.Fingerprint = mdfp.CalculateFingerprintFromParts("", sources.String())
	return nil
}

// cellSource accepts both the string and the list-of-lines source encodings.
func cellSource(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var lines []string
	if err := json.Unmarshal(raw, &lines); err == nil {
		return strings.Join(lines, "")
	}
	return ""
}

// markdownTitle returns the text of the first heading of any level.
func markdownTitle(source []byte) string {
	root := goldmark.New().Parser().Parse(text.NewReader(source))
	var title string
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if h, ok := n.(*gmast.Heading); ok {
			title = strings.TrimSpace(inlineText(h, source))
			return gmast.WalkStop, nil
		}
		return gmast.WalkContinue, nil
	})
	return title
}

func inlineText(n gmast.Node, source []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *gmast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *gmast.String:
			b.Write(t.Value)
		default:
			b.WriteString(inlineText(c, source))
		}
	}
	return b.String()
}

// rstTitle returns the first line underlined by a punctuation rule.
func rstTitle(data []byte) string {
	var prev string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), " \t\r")
		if prev != "" && len(line) >= len(strings.TrimSpace(prev)) && isRule(line) {
			return strings.TrimSpace(prev)
		}
		prev = line
		if isRule(line) {
			prev = ""
		}
	}
	return ""
}

func isRule(line string) bool {
	if len(line) < 3 {
		return false
	}
	for _, r := range line {
		if r != rune(line[0]) {
			return false
		}
	}
	return strings.ContainsRune("=-~^\"'`#*+", rune(line[0]))
}

// docstringTitle returns the first non-empty line of a leading module docstring.
func docstringTitle(data []byte) string {
	s := strings.TrimLeft(string(data), " \t\r\n")
	for strings.HasPrefix(s, "#") {
		nl := strings.IndexByte(s, '\n')
		if nl < 0 {
			return ""
		}
		s = strings.TrimLeft(s[nl+1:], " \t\r\n")
	}
	var quote string
	switch {
	case strings.HasPrefix(s, `"""`):
		quote = `"""`
	case strings.HasPrefix(s, `'''`):
		quote = `'''`
	default:
		return ""
	}
	body := s[len(quote):]
	if end := strings.Index(body, quote); end >= 0 {
		body = body[:end]
	}
	for _, line := range strings.Split(body, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			return t
		}
	}
	return ""
}

// TitleFromName turns a file name like "02_structured-outputs.md" into
// "02 Structured Outputs".
func TitleFromName(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	stem = strings.NewReplacer("_", " ", "-", " ").Replace(stem)
	return cases.Title(language.English).String(strings.Join(strings.Fields(stem), " "))
}
