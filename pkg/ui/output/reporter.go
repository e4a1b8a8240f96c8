// Package output prints the per-path progress lines a merge run emits.
//
// Lines keep the historical fixed format ("Copying:    <path>") so they
// stay grep-able; styling is applied to the label only, and only when
// writing to a terminal.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	copyStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "35"})
	mergeStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "26", Dark: "39"})
	failStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "124", Dark: "196"})
)

// Reporter writes one line per top-level merge action.
type Reporter struct {
	out   io.Writer
	color bool
}

// NewReporter creates a reporter writing to out. Color is enabled only
// when out is a terminal.
func NewReporter(out io.Writer) *Reporter {
	color := false
	if f, ok := out.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Reporter{out: out, color: color}
}

// NewPlainReporter creates a reporter that never styles its output.
func NewPlainReporter(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

func (r *Reporter) label(style lipgloss.Style, label string) string {
	if !r.color {
		return label
	}
	return style.Render(label)
}

// Copying reports a wholesale copy of path to the destination.
func (r *Reporter) Copying(path string) {
	fmt.Fprintf(r.out, "%s %s\n", r.label(copyStyle, "Copying:   "), path)
}

// Merging reports that the external helper is reconciling path.
func (r *Reporter) Merging(path string) {
	fmt.Fprintf(r.out, "%s %s\n", r.label(mergeStyle, "Merging:   "), path)
}

// FailedMerge reports a recoverable helper failure for path.
func (r *Reporter) FailedMerge(path string) {
	fmt.Fprintf(r.out, "%s %s\n", r.label(failStyle, "Failed merge:"), path)
}
