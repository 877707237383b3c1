package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fyrsmithlabs/lintlizard/internal/config"
	"github.com/fyrsmithlabs/lintlizard/internal/engine"
	"github.com/fyrsmithlabs/lintlizard/internal/tool"
	"github.com/muesli/termenv"
)

// bannerWidth matches a classic 79-column terminal line.
const bannerWidth = 79

// Options controls terminal rendering.
type Options struct {
	// Color is config.ColorAuto, ColorAlways or ColorNever.
	Color string
	// Banner prints a separator line before each tool.
	Banner bool
}

// Reporter writes per-tool progress and the final summary.
type Reporter struct {
	out    io.Writer
	banner bool

	bannerStyle  lipgloss.Style
	passStyle    lipgloss.Style
	failStyle    lipgloss.Style
	dimStyle     lipgloss.Style
	successStyle lipgloss.Style
	failureStyle lipgloss.Style
}

// NewReporter creates a reporter writing to w.
func NewReporter(w io.Writer, opts Options) *Reporter {
	renderer := lipgloss.NewRenderer(w)
	switch opts.Color {
	case config.ColorAlways:
		renderer.SetColorProfile(termenv.ANSI256)
	case config.ColorNever:
		renderer.SetColorProfile(termenv.Ascii)
	}

	return &Reporter{
		out:    w,
		banner: opts.Banner,

		bannerStyle: renderer.NewStyle().Foreground(lipgloss.Color("245")),
		passStyle:   renderer.NewStyle().Foreground(lipgloss.Color("46")),
		failStyle:   renderer.NewStyle().Foreground(lipgloss.Color("196")),
		dimStyle:    renderer.NewStyle().Foreground(lipgloss.Color("245")),
		successStyle: renderer.NewStyle().
			Foreground(lipgloss.Color("46")).
			Bold(true),
		failureStyle: renderer.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true),
	}
}

// ToolStart prints the separator before a tool runs.
func (r *Reporter) ToolStart(tool.Descriptor) {
	if !r.banner {
		return
	}
	fmt.Fprintln(r.out, r.bannerStyle.Render(strings.Repeat("*", bannerWidth)))
}

// Outcome prints one tool's result line.
func (r *Reporter) Outcome(o engine.Outcome) {
	took := r.dimStyle.Render(fmt.Sprintf("(%s)", o.Duration.Round(time.Millisecond)))
	if o.Success {
		fmt.Fprintf(r.out, "%s %s %s\n", r.passStyle.Render("✓"), o.Tool, took)
		return
	}
	reason := "failed"
	if o.Err != nil {
		reason = o.Err.Error()
	}
	fmt.Fprintf(r.out, "%s %s %s %s\n", r.failStyle.Render("✗"), o.Tool, took, r.dimStyle.Render(reason))
}

// Summary prints the final summary line.
func (r *Reporter) Summary(res ProcessResult) {
	style := r.successStyle
	if !res.OK() {
		style = r.failureStyle
	}
	fmt.Fprintln(r.out, style.Render(res.Summary))
}
