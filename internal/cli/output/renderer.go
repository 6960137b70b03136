// Package output renders command results for terminals, scripts and agents.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Mode selects how a renderer formats output.
type Mode string

// Output modes.
const (
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeJSON     Mode = "json"
	ModeYAML     Mode = "yaml"
	ModeMarkdown Mode = "markdown"
)

var titleCaser = cases.Title(language.English)

// Renderer writes formatted output to a pair of streams.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	isTTY  bool
	styles *Styles
}

// NewRenderer creates a renderer, detecting whether out is a terminal.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	isTTY := false
	if f, ok := out.(*os.File); ok {
		isTTY = term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int
	}
	return NewRendererWithTTY(out, errOut, isTTY, mode)
}

// NewRendererWithTTY creates a renderer with an explicit TTY state.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode Mode) *Renderer {
	lg := lipgloss.NewRenderer(out)
	if !isTTY || lg.ColorProfile() == termenv.Ascii {
		lg.SetColorProfile(termenv.Ascii)
	}
	return &Renderer{
		out:    out,
		errOut: errOut,
		mode:   Mode(strings.ToLower(string(mode))),
		isTTY:  isTTY,
		styles: newStyles(lg),
	}
}

// EffectiveMode resolves auto: text on a terminal, markdown otherwise.
func (r *Renderer) EffectiveMode() Mode {
	switch r.mode {
	case ModeText, ModeJSON, ModeYAML, ModeMarkdown:
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// IsTTY reports whether output goes to a terminal.
func (r *Renderer) IsTTY() bool { return r.isTTY }

// Styles returns the renderer's styles.
func (r *Renderer) Styles() *Styles { return r.styles }

// Out returns the primary output stream.
func (r *Renderer) Out() io.Writer { return r.out }

// ErrOut returns the diagnostic stream.
func (r *Renderer) ErrOut() io.Writer { return r.errOut }

// Println writes a line to the output stream.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.out, a...)
}

// Printf writes formatted text to the output stream.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.out, format, a...)
}

// Header writes a section header.
func (r *Renderer) Header(level int, text string) {
	if r.EffectiveMode() == ModeMarkdown {
		r.Println(FormatHeader(level, text))
		return
	}
	if level <= 1 {
		r.Println(r.styles.Header.Render(text))
		return
	}
	r.Println(r.styles.Header2.Render(text))
}

// KeyValue writes a "Key: value" line. The key is title cased.
func (r *Renderer) KeyValue(key, value string) {
	label := titleCaser.String(key) + ":"
	if r.EffectiveMode() == ModeText {
		label = r.styles.Label.Render(label)
	}
	r.Printf("%s %s\n", label, value)
}

// Success writes a success message.
func (r *Renderer) Success(msg string) {
	if r.EffectiveMode() == ModeText {
		r.Println(r.styles.Success.Render("✓ " + msg))
		return
	}
	r.Println(msg)
}

// Error writes an error message to the diagnostic stream.
func (r *Renderer) Error(msg string) {
	if r.EffectiveMode() == ModeText {
		msg = r.styles.Error.Render("✗ " + msg)
	}
	_, _ = fmt.Fprintln(r.errOut, msg)
}

// Warning writes a warning to the diagnostic stream.
func (r *Renderer) Warning(msg string) {
	if r.EffectiveMode() == ModeText {
		msg = r.styles.Warning.Render("! " + msg)
	}
	_, _ = fmt.Fprintln(r.errOut, msg)
}

// Muted writes de-emphasized text.
func (r *Renderer) Muted(msg string) {
	r.Println(r.styles.Muted.Render(msg))
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// YAML writes v as a YAML document.
func (r *Renderer) YAML(v any) error {
	enc := yaml.NewEncoder(r.out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// FormatHeader returns a markdown header.
func FormatHeader(level int, text string) string {
	if level < 1 {
		level = 1
	}
	return strings.Repeat("#", level) + " " + text
}
