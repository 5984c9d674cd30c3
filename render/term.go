package render

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	markdown "github.com/MichaelMure/go-term-markdown"
	"github.com/charmbracelet/glamour"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"

	"qachat/config"
)

// TerminalRenderer renders answer markup for display in a fixed number of cells.
type TerminalRenderer interface {
	Terminal(markup string, width int) string
}

// NewTerminalRenderer picks the renderer named by style ("term" or "glamour").
func NewTerminalRenderer(style, glamourTheme string) (TerminalRenderer, error) {
	switch style {
	case "", config.RenderStyleTerm:
		return TermRenderer{}, nil
	case config.RenderStyleGlamour:
		return NewGlamourRenderer(glamourTheme), nil
	default:
		return nil, fmt.Errorf("unknown render style %q", style)
	}
}

var (
	inlineCodeRegex = regexp.MustCompile(`(?s)\x1b\[44;3m(.*?)\x1b\[0m`)
	mdLinkRegex     = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\)]+)\)`)
	urlRegex        = regexp.MustCompile(`(https?://[^\s]+)`)
	ansiRegex       = regexp.MustCompile(`\x1b\[[0-9;]*m`)
)

// codeBar is the gutter go-term-markdown draws in front of code block lines.
// The same glyph in answer text is swapped for proseBar before rendering, so
// only renderer output can carry it.
const (
	codeBar  = "┃"
	proseBar = "│"
)

// TermRenderer is the compact go-term-markdown renderer.
type TermRenderer struct{}

func (TermRenderer) Terminal(markup string, width int) string {
	if width < 10 {
		width = 10
	}

	// [text](url) → url, so every link shows as a plain URL the terminal can open
	markup = mdLinkRegex.ReplaceAllString(markup, "$2")
	markup = strings.ReplaceAll(markup, codeBar, proseBar)

	// Autolink off: plain URLs stay plain text
	ext := markdown.Extensions() &^ parser.Autolink
	p := parser.NewWithExtensions(ext)
	r := markdown.NewRenderer(width, 0)
	doc := p.Parse([]byte(markup))
	rendered := string(gomarkdown.Render(doc, r))

	rendered = fixInlineCode(rendered)
	rendered = colorURLs(rendered)
	rendered = frameCodeBlocks(rendered, width)

	return strings.TrimRight(rendered, "\n")
}

// fixInlineCode swaps go-term-markdown's blue background for red text
func fixInlineCode(s string) string {
	return inlineCodeRegex.ReplaceAllString(s, "\x1b[31m$1\x1b[0m")
}

func colorURLs(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		// code block lines keep their own highlighting
		if !strings.Contains(line, codeBar) {
			lines[i] = urlRegex.ReplaceAllString(line, "\x1b[31m$1\x1b[0m")
		}
	}
	return strings.Join(lines, "\n")
}

// frameCodeBlocks replaces the per-line bar of code blocks with a top and bottom rule
func frameCodeBlocks(s string, width int) string {
	const darkGray = "\x1b[90m"
	const reset = "\x1b[0m"

	ruleWidth := width - 2
	if ruleWidth < 8 {
		ruleWidth = 8
	}
	bottom := darkGray + strings.Repeat("━", ruleWidth) + reset

	label := "[code]"
	left := (ruleWidth - len(label)) / 2
	right := ruleWidth - len(label) - left
	top := darkGray + strings.Repeat("━", left) + reset + label + darkGray + strings.Repeat("━", right) + reset

	var result []string
	inCodeBlock := false

	for _, line := range strings.Split(s, "\n") {
		if strings.Contains(line, codeBar) {
			if !inCodeBlock {
				inCodeBlock = true
				result = append(result, "", top)
			}
			result = append(result, stripCodeBlockPrefix(line))
			continue
		}
		if inCodeBlock {
			result = append(result, bottom, "")
			inCodeBlock = false
		}
		result = append(result, line)
	}
	if inCodeBlock {
		result = append(result, bottom, "")
	}

	return strings.Join(result, "\n")
}

func stripCodeBlockPrefix(line string) string {
	idx := strings.Index(line, codeBar)
	if idx < 0 {
		return line
	}
	after := idx + len(codeBar)
	if after < len(line) && line[after] == ' ' {
		after++
	}
	return line[after:]
}

// StripANSI removes ANSI escape codes, for width math and tests
func StripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// ResolveTheme turns "auto" (or empty) into "dark" or "light". Call it once,
// before the program takes over the terminal: detecting the background
// queries the TTY.
func ResolveTheme(theme string, darkBackground bool) string {
	if theme != "" && theme != "auto" {
		return theme
	}
	if darkBackground {
		return "dark"
	}
	return "light"
}

// GlamourRenderer renders with charmbracelet/glamour, falling back to raw text
// on failure. One glamour renderer is kept per wrap width.
type GlamourRenderer struct {
	theme string

	mu        sync.Mutex
	renderers map[int]*glamour.TermRenderer
}

// NewGlamourRenderer expects a resolved theme; "auto" falls back to dark
// rather than probing the terminal.
func NewGlamourRenderer(theme string) *GlamourRenderer {
	return &GlamourRenderer{
		theme:     ResolveTheme(theme, true),
		renderers: make(map[int]*glamour.TermRenderer),
	}
}

func (g *GlamourRenderer) Terminal(markup string, width int) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	r, ok := g.renderers[width]
	if !ok {
		var err error
		r, err = glamour.NewTermRenderer(glamour.WithStandardStyle(g.theme), glamour.WithWordWrap(width))
		if err != nil {
			config.Log.Warn().Err(err).Str("theme", g.theme).Msg("glamour renderer unavailable, showing raw markup")
			return markup
		}
		g.renderers[width] = r
	}

	out, err := r.Render(markup)
	if err != nil {
		config.Log.Warn().Err(err).Msg("glamour render failed, showing raw markup")
		return markup
	}
	return strings.Trim(out, "\n")
}
