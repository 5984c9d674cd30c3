package render

import (
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

// HTMLRenderer turns answer markup into sanitized HTML.
// Backend text is untrusted, so every render goes through the UGC policy.
type HTMLRenderer struct {
	extensions parser.Extensions
	flags      html.Flags
	policy     *bluemonday.Policy
}

func NewHTMLRenderer() *HTMLRenderer {
	policy := bluemonday.UGCPolicy()
	policy.AddTargetBlankToFullyQualifiedLinks(true)

	return &HTMLRenderer{
		extensions: parser.CommonExtensions | parser.AutoHeadingIDs,
		flags:      html.CommonFlags,
		policy:     policy,
	}
}

// HTML renders markup. The parser keeps per-document state, so one is built per call.
func (r *HTMLRenderer) HTML(markup string) string {
	p := parser.NewWithExtensions(r.extensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: r.flags})
	unsafe := gomarkdown.ToHTML([]byte(markup), p, renderer)
	return string(r.policy.SanitizeBytes(unsafe))
}
