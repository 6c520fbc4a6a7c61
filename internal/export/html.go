package export

import (
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/ppiankov/factcheck/internal/model"
)

const printCSS = `body{font-family:Georgia,serif;max-width:46rem;margin:2rem auto;line-height:1.5;color:#202124}
table{border-collapse:collapse;width:100%}td,th{border:1px solid #dadce0;padding:.3rem .5rem;text-align:left}
blockquote{border-left:4px solid #dadce0;margin:0;padding-left:1rem;color:#5f6368}
@media print{body{margin:0}a{color:inherit}}`

// HTML renders the markdown document as a complete, printable HTML page.
// Raw HTML carried in provider text is dropped and only safe link schemes are linked.
func HTML(res *model.FactCheckResult, title string) []byte {
	// Parsers keep state and must not be reused
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: title,
		Flags: html.CommonFlags | html.CompletePage | html.HrefTargetBlank | html.SkipHTML | html.Safelink,
		Head:  []byte("<style>" + printCSS + "</style>\n"),
	})
	return markdown.ToHTML([]byte(Markdown(res, title)), p, renderer)
}
