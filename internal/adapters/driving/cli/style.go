package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// palette styles command output. Plain styles are used when the output
// is not a terminal so piped output carries no escape codes.
type palette struct {
	ok     lipgloss.Style
	fail   lipgloss.Style
	warn   lipgloss.Style
	dim    lipgloss.Style
	strong lipgloss.Style
}

func stylesFor(w io.Writer) palette {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		plain := lipgloss.NewStyle()
		return palette{ok: plain, fail: plain, warn: plain, dim: plain, strong: plain}
	}
	return palette{
		ok:     lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		fail:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		warn:   lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		dim:    lipgloss.NewStyle().Faint(true),
		strong: lipgloss.NewStyle().Bold(true),
	}
}

// marker returns the status column of a requirement line.
func (p palette) marker(completed, critical bool) string {
	box := "[ ]"
	if completed {
		box = p.ok.Render("[x]")
	}
	if critical {
		return box + p.fail.Render("!")
	}
	return box + " "
}
