package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"faraday/internal/source"
)

var (
	headerColor = color.New(color.FgRed, color.Bold)
	posColor    = color.New(color.FgCyan)

	excerptStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)

// Render writes a human-readable report for a compile error, including a
// framed source excerpt when the file is known to the set.
func Render(w io.Writer, err *Error, fs *source.FileSet) {
	fmt.Fprintf(w, "%s %s\n", headerColor.Sprintf("error[%s]:", err.Code), err.Message)
	if err.Path == "" {
		return
	}
	fmt.Fprintf(w, "  %s %s\n", posColor.Sprint("-->"), fmt.Sprintf("%s:%s", err.Path, err.Pos))
	if fs == nil {
		return
	}
	line := excerptLine(fs, err.Path, err.Pos.Line)
	if line == "" {
		return
	}
	caret := caretLine(line, err.Pos.Col)
	fmt.Fprintln(w, excerptStyle.Render(line+"\n"+caret))
}

func excerptLine(fs *source.FileSet, path string, line uint32) string {
	id, ok := fs.Find(path)
	if !ok {
		return ""
	}
	return strings.ReplaceAll(string(fs.LineContent(id, line)), "\t", " ")
}

// caretLine points at the offending column, accounting for wide runes before
// it.
func caretLine(line string, col uint32) string {
	if col == 0 {
		col = 1
	}
	prefix := line
	if int(col-1) < len(line) {
		prefix = line[:col-1]
	}
	return strings.Repeat(" ", runewidth.StringWidth(prefix)) + "^"
}
