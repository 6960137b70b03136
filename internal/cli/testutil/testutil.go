// Package testutil holds helpers for testing CLI output.
package testutil

import (
	"bytes"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/fixpq/internal/cli/output"
)

// TestRenderer is a Renderer writing into in-memory buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer returns a renderer in mode, treating the output as a
// terminal when isTTY is set.
func NewTestRenderer(mode output.Mode, isTTY bool) *TestRenderer {
	var out, errOut bytes.Buffer
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(&out, &errOut, isTTY, mode),
		Out:      &out,
		ErrOut:   &errOut,
	}
}

// NewTestRendererText renders text to a simulated terminal.
func NewTestRendererText() *TestRenderer { return NewTestRenderer(output.ModeText, true) }

// NewTestRendererMarkdown renders markdown to a pipe.
func NewTestRendererMarkdown() *TestRenderer { return NewTestRenderer(output.ModeMarkdown, false) }

// NewTestRendererJSON renders JSON to a pipe.
func NewTestRendererJSON() *TestRenderer { return NewTestRenderer(output.ModeJSON, false) }

func (tr *TestRenderer) Output() string      { return tr.Out.String() }
func (tr *TestRenderer) ErrorOutput() string { return tr.ErrOut.String() }

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI fails the test if s carries terminal escape sequences.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	assert.NotRegexp(t, ansiEscape, s, "output contains ANSI escape codes")
}
