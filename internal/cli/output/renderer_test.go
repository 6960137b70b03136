package output_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/fixpq/internal/cli/output"
	"github.com/leapstack-labs/fixpq/internal/cli/testutil"
)

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		name  string
		mode  output.Mode
		isTTY bool
		want  output.Mode
	}{
		{"auto on tty", output.ModeAuto, true, output.ModeText},
		{"auto piped", output.ModeAuto, false, output.ModeMarkdown},
		{"empty piped", "", false, output.ModeMarkdown},
		{"explicit json", output.ModeJSON, true, output.ModeJSON},
		{"explicit yaml", output.ModeYAML, false, output.ModeYAML},
		{"explicit text piped", output.ModeText, false, output.ModeText},
		{"upper case", "MARKDOWN", true, output.ModeMarkdown},
		{"unknown falls back to auto", "xml", true, output.ModeText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := output.NewRendererWithTTY(&bytes.Buffer{}, &bytes.Buffer{}, tt.isTTY, tt.mode)
			assert.Equal(t, tt.want, r.EffectiveMode())
			assert.Equal(t, tt.isTTY, r.IsTTY())
		})
	}
}

func TestNewRendererBufferIsNotTTY(t *testing.T) {
	r := output.NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, output.ModeAuto)
	assert.False(t, r.IsTTY())
	assert.Equal(t, output.ModeMarkdown, r.EffectiveMode())
}

func TestHeader(t *testing.T) {
	tr := testutil.NewTestRendererMarkdown()
	tr.Header(2, "Tokens")
	assert.Equal(t, "## Tokens\n", tr.Output())

	tr = testutil.NewTestRendererText()
	tr.Header(1, "Tokens")
	assert.Contains(t, tr.Output(), "Tokens")
}

func TestKeyValue(t *testing.T) {
	for _, tr := range []*testutil.TestRenderer{
		testutil.NewTestRendererMarkdown(),
		testutil.NewTestRenderer(output.ModeText, false),
	} {
		tr.KeyValue("input", "dump.sql")
		assert.Equal(t, "Input: dump.sql\n", tr.Output())
	}
}

func TestMessagesWithoutTTYHaveNoANSI(t *testing.T) {
	tr := testutil.NewTestRenderer(output.ModeText, false)
	tr.Success("done")
	tr.Muted("quiet")
	tr.Error("bad")
	tr.Warning("careful")

	testutil.AssertNoANSI(t, tr.Output()+tr.ErrorOutput())
	assert.Contains(t, tr.Output(), "✓ done")
	assert.Contains(t, tr.Output(), "quiet")
	assert.Contains(t, tr.ErrorOutput(), "✗ bad")
	assert.Contains(t, tr.ErrorOutput(), "! careful")
}

func TestMarkdownMessagesArePlain(t *testing.T) {
	tr := testutil.NewTestRendererMarkdown()
	tr.Success("done")
	tr.Error("bad")
	assert.Equal(t, "done\n", tr.Output())
	assert.Equal(t, "bad\n", tr.ErrorOutput())
}

func TestJSONAndYAML(t *testing.T) {
	v := map[string]int{"nodes": 3}

	tr := testutil.NewTestRendererJSON()
	require.NoError(t, tr.JSON(v))
	assert.Equal(t, "{\n  \"nodes\": 3\n}\n", tr.Output())

	tr = testutil.NewTestRenderer(output.ModeYAML, false)
	require.NoError(t, tr.YAML(v))
	assert.Equal(t, "nodes: 3\n", tr.Output())
}

func TestFormatHeader(t *testing.T) {
	assert.Equal(t, "# A", output.FormatHeader(1, "A"))
	assert.Equal(t, "### A", output.FormatHeader(3, "A"))
	assert.Equal(t, "# A", output.FormatHeader(0, "A"))
}
