package output

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func newTestRenderer(mode OutputMode, isTTY bool) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, isTTY, mode), out, errOut
}

func TestMode(t *testing.T) {
	tests := map[string]OutputMode{
		"":         ModeAuto,
		"auto":     ModeAuto,
		"TEXT":     ModeText,
		"md":       ModeMarkdown,
		"markdown": ModeMarkdown,
		"json":     ModeJSON,
		"yml":      ModeYAML,
		"yaml":     ModeYAML,
		"bogus":    ModeAuto,
	}
	for in, want := range tests {
		assert.Equal(t, want, Mode(in), in)
	}
}

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		mode  OutputMode
		isTTY bool
		want  OutputMode
	}{
		{ModeAuto, true, ModeText},
		{ModeAuto, false, ModeMarkdown},
		{"", false, ModeMarkdown},
		{ModeJSON, true, ModeJSON},
		{ModeText, false, ModeText},
	}
	for _, tt := range tests {
		r, _, _ := newTestRenderer(tt.mode, tt.isTTY)
		assert.Equal(t, tt.want, r.EffectiveMode())
	}
}

func TestNewRenderer_BufferIsNotTTY(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, ModeAuto)
	assert.False(t, r.IsTTY())
}

func TestRenderer_Table(t *testing.T) {
	r, out, _ := newTestRenderer(ModeText, false)
	r.Table([]string{"Name", "Type"}, [][]string{{"crm", "postgres"}, {"lake", "duckdb"}})

	s := out.String()
	assert.Contains(t, s, "crm")
	assert.Contains(t, s, "duckdb")
	assert.Contains(t, s, "┌")
	assert.False(t, ansiPattern.MatchString(s))
}

func TestRenderer_TableMarkdown(t *testing.T) {
	r, out, _ := newTestRenderer(ModeMarkdown, false)
	r.Table([]string{"Name", "Type"}, [][]string{{"crm", "postgres"}})

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "| Name | Type |", lines[0])
	assert.Equal(t, "| crm | postgres |", lines[2])
}

func TestRenderer_Messages(t *testing.T) {
	r, out, errOut := newTestRenderer(ModeText, false)

	r.Header(1, "Data sources")
	r.KeyValue("Type", "postgres")
	r.Success("applied 2 data sources")
	r.Warning("no data sources")
	r.Error("boom")

	assert.Contains(t, out.String(), "Data sources")
	assert.Contains(t, out.String(), "Type: postgres")
	assert.Contains(t, out.String(), "✓ applied 2 data sources")
	assert.Contains(t, errOut.String(), "! no data sources")
	assert.Contains(t, errOut.String(), "✗ boom")
	assert.False(t, ansiPattern.MatchString(out.String()+errOut.String()))
}

func TestRenderer_MarkdownMessages(t *testing.T) {
	r, out, _ := newTestRenderer(ModeAuto, false)

	r.Header(2, "crm")
	r.KeyValue("Type", "postgres")

	assert.Equal(t, "## crm\n\n- **Type**: postgres\n", out.String())
}

func TestRenderer_Structured(t *testing.T) {
	v := map[string]any{"name": "crm", "entries": []string{"a"}}

	r, out, _ := newTestRenderer(ModeJSON, false)
	ok, err := r.Structured(v)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"name":"crm","entries":["a"]}`, out.String())

	r, out, _ = newTestRenderer(ModeYAML, false)
	ok, err = r.Structured(v)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "entries:\n  - a\nname: crm\n", out.String())

	r, out, _ = newTestRenderer(ModeText, false)
	ok, err = r.Structured(v)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, out.String())
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "# Title", FormatHeader(0, "Title"))
	assert.Equal(t, "### Title", FormatHeader(3, "Title"))
	assert.Equal(t, "- **Key**: value", FormatKeyValue("Key", "value"))
}
