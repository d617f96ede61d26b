// Package listing renders assembled code next to the source it came from.
package listing

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/term"

	"vmasm/pkg/asm"
	"vmasm/pkg/disasm"
)

// Entry is one instruction of a listing.
type Entry struct {
	Offset int
	Bytes  []byte
	Line   int
	Source string
	Text   string
}

// Build pairs every instruction in mc with its source line. source holds
// the lines mc's source map refers to, as returned by addons.Assemble.
func Build(mc *asm.MachineCode, source []asm.Line) []Entry {
	texts := make(map[int]string, len(source))
	for _, l := range source {
		texts[l.No] = l.Text
	}
	code := mc.Bytes()
	sourceMap := mc.SourceMap()

	entries := make([]Entry, 0, len(mc.Instructions()))
	offset := 0
	for _, in := range mc.Instructions() {
		n := in.ByteSize()
		lineNo := sourceMap[offset]
		e := Entry{
			Offset: offset,
			Bytes:  code[offset : offset+n],
			Line:   lineNo,
			Text:   disasm.Format(in),
		}
		if text, ok := texts[lineNo]; ok {
			e.Source = strings.TrimSpace(text)
		}
		entries = append(entries, e)
		offset += n
	}
	return entries
}

// Options control rendering.
type Options struct {
	Color  bool
	Decode bool
}

// Render writes entries as a table.
func Render(w io.Writer, entries []Entry, opts Options) error {
	t := table.NewWriter()
	header := table.Row{"Offset", "Bytes", "Line", "Source"}
	if opts.Decode {
		header = append(header, "Decoded")
	}
	t.AppendHeader(header)

	total := 0
	for _, e := range entries {
		row := table.Row{fmt.Sprintf("%04x", e.Offset), fmt.Sprintf("% x", e.Bytes), e.Line, e.Source}
		if opts.Decode {
			row = append(row, e.Text)
		}
		t.AppendRow(row)
		total += len(e.Bytes)
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d bytes", total)})

	if opts.Color {
		t.SetStyle(table.StyleColoredBright)
	} else {
		t.SetStyle(table.StyleLight)
	}
	_, err := io.WriteString(w, t.Render()+"\n")
	return err
}

// IsTerminal reports whether w is a terminal, which is when colour is used.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
