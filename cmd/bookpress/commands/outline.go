package commands

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/bookpress/internal/book"
)

// OutlineCmd implements the 'outline' command.
type OutlineCmd struct {
	Paths bool `help:"Show the resolved file of every entry"`
}

func (o *OutlineCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	b, err := book.Open(cfg.BookDir)
	if err != nil {
		return err
	}
	entries, err := b.Outline()
	if err != nil {
		return err
	}

	if title := b.Title(); title != "" {
		_, _ = fmt.Fprintln(g.Stdout, title)
		_, _ = fmt.Fprintln(g.Stdout, strings.Repeat("=", len([]rune(title))))
	}
	part := ""
	for _, e := range entries {
		if e.Part != part {
			part = e.Part
			_, _ = fmt.Fprintf(g.Stdout, "\n%s\n", part)
		}
		indent := strings.Repeat("  ", e.Depth)
		line := fmt.Sprintf("%s- %s", indent, e.Title)
		switch {
		case e.Missing:
			ref := e.File
			if ref == "" {
				ref = e.Glob
			}
			line = fmt.Sprintf("%s- %s [missing]", indent, ref)
		case o.Paths && e.File != "":
			line += fmt.Sprintf(" (%s)", e.File)
		case o.Paths && e.URL != "":
			line += fmt.Sprintf(" <%s>", e.URL)
		}
		_, _ = fmt.Fprintln(g.Stdout, line)
	}
	return nil
}
