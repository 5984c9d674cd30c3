package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLRendererFormatting(t *testing.T) {
	r := NewHTMLRenderer()

	tests := []struct {
		name     string
		markup   string
		contains []string
	}{
		{name: "bold", markup: "**hi**", contains: []string{"<strong>hi</strong>"}},
		{name: "emphasis", markup: "_soft_", contains: []string{"<em>soft</em>"}},
		{name: "list", markup: "- one\n- two", contains: []string{"<ul>", "<li>one</li>", "<li>two</li>"}},
		{name: "inline code", markup: "run `make`", contains: []string{"<code>make</code>"}},
		{name: "heading", markup: "# Summary", contains: []string{"<h1", "Summary</h1>"}},
		{name: "plain text", markup: "just words", contains: []string{"<p>just words</p>"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := r.HTML(tt.markup)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestHTMLRendererSanitizes(t *testing.T) {
	r := NewHTMLRenderer()

	tests := []struct {
		name      string
		markup    string
		forbidden string
		keeps     string
	}{
		{name: "script tag", markup: "<script>alert(1)</script>hello", forbidden: "<script", keeps: "hello"},
		{name: "event handler", markup: `<img src="x.png" onerror="alert(1)">`, forbidden: "onerror"},
		{name: "javascript link", markup: `<a href="javascript:alert(1)">click</a>`, forbidden: "javascript:", keeps: "click"},
		{name: "iframe", markup: `<iframe src="https://evil.example"></iframe>`, forbidden: "<iframe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := r.HTML(tt.markup)
			assert.NotContains(t, strings.ToLower(out), tt.forbidden)
			if tt.keeps != "" {
				assert.Contains(t, out, tt.keeps)
			}
		})
	}
}

func TestHTMLRendererReusable(t *testing.T) {
	r := NewHTMLRenderer()
	first := r.HTML("**a**")
	second := r.HTML("**a**")
	assert.Equal(t, first, second)
}

func TestTermRenderer(t *testing.T) {
	r := TermRenderer{}

	out := StripANSI(r.Terminal("**hi** there", 40))
	assert.Contains(t, out, "hi")
	assert.Contains(t, out, "there")
	assert.NotContains(t, out, "**")

	out = StripANSI(r.Terminal("see [docs](https://example.com/docs)", 60))
	assert.Contains(t, out, "https://example.com/docs")
	assert.NotContains(t, out, "[docs]")
}

func TestFrameCodeBlocks(t *testing.T) {
	in := strings.Join([]string{
		"intro",
		codeBar + " line one",
		codeBar + " line two",
		"outro",
	}, "\n")

	out := StripANSI(frameCodeBlocks(in, 20))
	lines := strings.Split(out, "\n")

	assert.Contains(t, out, "[code]")
	assert.Contains(t, lines, "line one")
	assert.Contains(t, lines, "line two")
	assert.NotContains(t, out, codeBar)
	assert.Equal(t, "intro", lines[0])
	assert.Equal(t, "outro", lines[len(lines)-1])
}

func TestFrameCodeBlocksAtEnd(t *testing.T) {
	out := StripANSI(frameCodeBlocks(codeBar+" tail", 20))
	assert.Contains(t, out, "tail")
	assert.True(t, strings.HasSuffix(out, "\n"), "closing rule and margin expected")
}

func TestGlamourRenderer(t *testing.T) {
	r := NewGlamourRenderer("notty")
	out := r.Terminal("**hi**", 40)
	assert.Contains(t, out, "hi")
}

func TestNewTerminalRenderer(t *testing.T) {
	r, err := NewTerminalRenderer("", "")
	require.NoError(t, err)
	assert.IsType(t, TermRenderer{}, r)

	r, err = NewTerminalRenderer("glamour", "dark")
	require.NoError(t, err)
	assert.IsType(t, &GlamourRenderer{}, r)

	_, err = NewTerminalRenderer("sparkles", "")
	assert.Error(t, err)
}

func TestResolveTheme(t *testing.T) {
	tests := []struct {
		theme string
		dark  bool
		want  string
	}{
		{theme: "auto", dark: true, want: "dark"},
		{theme: "auto", dark: false, want: "light"},
		{theme: "", dark: false, want: "light"},
		{theme: "notty", dark: true, want: "notty"},
		{theme: "light", dark: true, want: "light"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ResolveTheme(tt.theme, tt.dark), "%q dark=%v", tt.theme, tt.dark)
	}
}

func TestGlamourRendererNeverAutoDetects(t *testing.T) {
	assert.Equal(t, "dark", NewGlamourRenderer("auto").theme)
	assert.Equal(t, "dark", NewGlamourRenderer("").theme)
	assert.Equal(t, "light", NewGlamourRenderer("light").theme)
}

func TestGlamourRendererReusesPerWidth(t *testing.T) {
	r := NewGlamourRenderer("notty")

	first := r.Terminal("**one**", 40)
	second := r.Terminal("**one**", 40)
	assert.Equal(t, first, second)
	assert.Len(t, r.renderers, 1)

	r.Terminal("**two**", 60)
	assert.Len(t, r.renderers, 2)
}

func TestTermRendererFramesOnlyCodeBlocks(t *testing.T) {
	r := TermRenderer{}

	prose := StripANSI(r.Terminal("status ┃ healthy", 40))
	assert.NotContains(t, prose, "[code]")
	assert.Contains(t, prose, "healthy")

	code := StripANSI(r.Terminal("intro\n\n```\nx := 1\n```\n\noutro", 40))
	assert.Contains(t, code, "[code]")
	assert.Contains(t, code, "x := 1")
}
