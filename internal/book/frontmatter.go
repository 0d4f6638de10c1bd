package book

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// errUnclosedFrontmatter indicates an opening --- without a closing one.
var errUnclosedFrontmatter = errors.New("frontmatter start delimiter found but closing delimiter is missing")

// splitFrontmatter separates a leading YAML block delimited by --- lines from
// the markdown body. Both LF and CRLF documents are accepted.
func splitFrontmatter(content []byte) (fm, body []byte, err error) {
	nl := []byte("\n")
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		nl = []byte("\r\n")
	}
	open := append([]byte("---"), nl...)
	if !bytes.HasPrefix(content, open) {
		return nil, content, nil
	}
	rest := content[len(open):]
	if bytes.HasPrefix(rest, open) {
		return []byte{}, rest[len(open):], nil
	}
	closeSeq := append(append([]byte{}, nl...), open...)
	idx := bytes.Index(rest, closeSeq)
	if idx < 0 {
		// closing delimiter on the last line without a newline
		tail := append(append([]byte{}, nl...), "---"...)
		if bytes.HasSuffix(rest, tail) {
			return rest[:len(rest)-len(tail)+len(nl)], []byte{}, nil
		}
		return nil, nil, errUnclosedFrontmatter
	}
	return rest[:idx+len(nl)], rest[idx+len(closeSeq):], nil
}

// frontmatterTitle returns the title field of a YAML frontmatter block, if any.
func frontmatterTitle(fm []byte) string {
	if len(fm) == 0 {
		return ""
	}
	var fields struct {
		Title string `yaml:"title"`
	}
	if err := yaml.Unmarshal(fm, &fields); err != nil {
		return ""
	}
	return fields.Title
}
