package render

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	accent      = lipgloss.Color("#8BC34A")
	info        = lipgloss.Color("#2196F3")
	warning     = lipgloss.Color("#FFC107")
	destructive = lipgloss.Color("#e53935")
	muted       = lipgloss.Color("#9E9E9E")
	codeFG      = lipgloss.Color("#4db6ac")
)

type styles struct {
	label  lipgloss.Style
	prose  lipgloss.Style
	code   lipgloss.Style
	lang   lipgloss.Style
	info   lipgloss.Style
	warn   lipgloss.Style
	err    lipgloss.Style
	prompt lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		label: r.NewStyle().Bold(true).Foreground(accent),
		prose: r.NewStyle(),
		code: r.NewStyle().
			Foreground(codeFG).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(muted).
			PaddingLeft(1),
		lang:   r.NewStyle().Italic(true).Foreground(muted),
		info:   r.NewStyle().Foreground(info),
		warn:   r.NewStyle().Foreground(warning),
		err:    r.NewStyle().Bold(true).Foreground(destructive),
		prompt: r.NewStyle().Bold(true).Foreground(accent),
	}
}

// Terminal writes styled output to w. Color is dropped automatically when w
// is not a terminal.
type Terminal struct {
	w      io.Writer
	styles styles
}

// NewTerminal builds a Terminal for w.
func NewTerminal(w io.Writer) *Terminal {
	if w == nil {
		w = io.Discard
	}
	return &Terminal{w: w, styles: newStyles(lipgloss.NewRenderer(w))}
}

// Render prints a response under a persona label, code and prose styled apart.
func (t *Terminal) Render(response, persona string) {
	_, _ = fmt.Fprintln(t.w, t.styles.label.Render(persona+":"))
	for _, seg := range Split(response) {
		switch seg.Kind {
		case Code:
			if seg.Lang != "" {
				_, _ = fmt.Fprintln(t.w, t.styles.lang.Render(seg.Lang))
			}
			_, _ = fmt.Fprintln(t.w, t.styles.code.Render(seg.Text))
		default:
			_, _ = fmt.Fprintln(t.w, t.styles.prose.Render(seg.Text))
		}
	}
	_, _ = fmt.Fprintln(t.w)
}

// Println writes unstyled text.
func (t *Terminal) Println(msg string) {
	_, _ = fmt.Fprintln(t.w, msg)
}

func (t *Terminal) Info(msg string) {
	_, _ = fmt.Fprintln(t.w, t.styles.info.Render(msg))
}

func (t *Terminal) Warn(msg string) {
	_, _ = fmt.Fprintln(t.w, t.styles.warn.Render("warning: "+msg))
}

func (t *Terminal) Error(msg string) {
	_, _ = fmt.Fprintln(t.w, t.styles.err.Render("error: "+msg))
}

// Prompt prints the input prompt without a trailing newline.
func (t *Terminal) Prompt(persona string) {
	_, _ = fmt.Fprint(t.w, t.styles.prompt.Render("["+persona+"] >")+" ")
}
