package diagnostics

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

// Render writes err to w. When w is a terminal (checked the way
// funvibe-funxy's cmd/funxy tooling checks stdout with go-isatty) the
// taxonomy tag is colored; otherwise the plain "tag: message" rendering
// from the original mclang std_error function is used unchanged.
func Render(w io.Writer, err error) {
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		fmt.Fprintln(w, styled(err))
		return
	}
	fmt.Fprintln(w, err.Error())
}

func styled(err error) string {
	switch e := err.(type) {
	case *IOError:
		return errorStyle.Render("io: ") + e.Message
	case *SyntaxError:
		return errorStyle.Render("syntax: ") + e.Message + "\n" +
			dimStyle.Render(e.LineText) + "\n" +
			dimStyle.Render(fmt.Sprintf("\tAt Line: %d Column: %d", e.Line, e.Column))
	case *SemanticError:
		return errorStyle.Render("semantic: ") + e.Message
	case *InternalError:
		return errorStyle.Render("internal: ") + e.Message
	default:
		return err.Error()
	}
}
