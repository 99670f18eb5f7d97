// Package report renders a ResultSet for people (labeled text blocks) and
// for machines (JSON).
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dusk-indust/snipaudit/internal/orchestrator"
)

const separator = "------------------------------------------------------------"

// FailedPrefix tags the body of a failed result.
const FailedPrefix = "FAILED: "

// Reporter writes results to w.
type Reporter struct {
	w      io.Writer
	header lipgloss.Style
	failed lipgloss.Style
	color  bool
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithColor styles banners and failed results with lipgloss.
func WithColor(enabled bool) Option {
	return func(r *Reporter) {
		r.color = enabled
	}
}

// New creates a Reporter writing to w.
func New(w io.Writer, opts ...Option) *Reporter {
	r := &Reporter{w: w}
	for _, opt := range opts {
		opt(r)
	}
	renderer := lipgloss.NewRenderer(w)
	r.header = renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	r.failed = renderer.NewStyle().Foreground(lipgloss.Color("9"))
	return r
}

// Text writes a summary banner followed by one block per result, in slot
// order:
//
//	=============== RESULT #n ===============
//
//	<report, or FAILED: <message>>
//
//	============= END OF RESULT #n =============
func (r *Reporter) Text(rs orchestrator.ResultSet) error {
	var sb strings.Builder

	sb.WriteString(r.style(r.header, fmt.Sprintf("--- ALL %d AGENTS FINISHED (%d succeeded, %d failed). RESULTS: ---",
		len(rs), rs.Succeeded(), rs.Failed())))
	sb.WriteString("\n\n")

	for i, res := range rs {
		n := i + 1
		sb.WriteString(r.style(r.header, fmt.Sprintf("=============== RESULT #%d ===============", n)))
		sb.WriteString("\n\n")
		if res.OK() {
			sb.WriteString(res.Report)
		} else {
			sb.WriteString(r.style(r.failed, FailedPrefix+res.Message()))
		}
		sb.WriteString("\n\n")
		sb.WriteString(r.style(r.header, fmt.Sprintf("============= END OF RESULT #%d =============", n)))
		sb.WriteString("\n\n")
		sb.WriteString(separator)
		sb.WriteString("\n\n")
	}

	_, err := io.WriteString(r.w, sb.String())
	return err
}

func (r *Reporter) style(s lipgloss.Style, text string) string {
	if !r.color {
		return text
	}
	return s.Render(text)
}
