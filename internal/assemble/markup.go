package assemble

import (
	"fmt"
	"html"
	"strings"

	"github.com/jackzampolin/cookbook/internal/types"
)

// Markup serializes a document tree to the printable HTML the renderer
// consumes. Every piece of free text passes through html.EscapeString —
// recipe archives are user input and unescaped text would inject content
// into the assembled document.
func Markup(doc *types.Document) string {
	var b strings.Builder
	b.Grow(64 << 10)

	b.WriteString(markupHead)
	writeCover(&b, doc.Cover)
	writeTOC(&b, doc.TOC)
	for i := range doc.Chapters {
		writeChapter(&b, &doc.Chapters[i])
	}
	fmt.Fprintf(&b, "<div class=\"footer\">Compiled by %s</div>\n", html.EscapeString(doc.Cover.DisplayName))
	b.WriteString("</div>\n</body>\n</html>\n")

	return b.String()
}

func writeCover(b *strings.Builder, c types.Cover) {
	b.WriteString("<div class=\"cover-page\">\n")
	b.WriteString("<div class=\"cover-subtitle\">My Personal</div>\n")
	b.WriteString("<div class=\"cover-title\">Recipe<br>Collection</div>\n")
	b.WriteString("<div class=\"cover-icon\">&#9832;</div>\n")
	fmt.Fprintf(b, "<div class=\"cover-author\">from the kitchen of<br><strong>%s</strong></div>\n",
		html.EscapeString(c.DisplayName))
	fmt.Fprintf(b, "<div class=\"cover-year\">%d</div>\n", c.Year)
	b.WriteString("</div>\n")
}

func writeTOC(b *strings.Builder, toc []types.TOCNode) {
	b.WriteString("<div class=\"toc-container\">\n<div class=\"toc-title\">Table of Contents</div>\n<ul class=\"toc-list\">\n")
	for _, n := range toc {
		if n.IsHeader() {
			fmt.Fprintf(b, "<li class=\"toc-category\">%s</li>\n", html.EscapeString(n.CategoryHeader))
			continue
		}
		// The empty toc-page span is the forward reference the renderer
		// resolves to a page number; we never compute pages here.
		fmt.Fprintf(b, "<li class=\"toc-item\"><a href=\"#%s\"><span>%s</span><span class=\"toc-dots\"></span><span class=\"toc-page\" data-target=\"#%s\"></span></a></li>\n",
			n.AnchorID, html.EscapeString(n.Name), n.AnchorID)
	}
	b.WriteString("</ul>\n</div>\n<div class=\"page-break\"></div>\n")
}

func writeChapter(b *strings.Builder, ch *types.Chapter) {
	b.WriteString("<div class=\"chapter-page\">\n")
	fmt.Fprintf(b, "<h2 class=\"chapter-title\">%s</h2>\n", html.EscapeString(ch.Category))
	b.WriteString("<ul class=\"chapter-index\">\n")
	for _, name := range ch.Index {
		fmt.Fprintf(b, "<li>%s</li>\n", html.EscapeString(name))
	}
	b.WriteString("</ul>\n</div>\n")

	for i := range ch.Cards {
		writeCard(b, &ch.Cards[i])
	}
}

func writeCard(b *strings.Builder, c *types.Card) {
	fmt.Fprintf(b, "<div class=\"recipe-card avoid-break\" id=\"%s\">\n", c.AnchorID)
	fmt.Fprintf(b, "<h1>%s</h1>\n", html.EscapeString(c.Title))

	meta := "&nbsp;"
	if c.MetaLine != "" {
		meta = html.EscapeString(c.MetaLine)
	}
	fmt.Fprintf(b, "<div class=\"meta-info-container\"><div class=\"meta-info\">%s</div></div>\n", meta)

	b.WriteString("<table class=\"layout-table\">\n<tr>\n<td class=\"sidebar-cell\">")
	if c.ImageRef != "" {
		fmt.Fprintf(b, "<img src=\"%s\" class=\"sidebar-image\">", html.EscapeString(c.ImageRef))
	}
	b.WriteString("<h3>Ingredients</h3>\n<ul>\n")
	for _, ing := range c.Ingredients {
		fmt.Fprintf(b, "<li>%s</li>\n", html.EscapeString(ing))
	}
	b.WriteString("</ul>\n</td>\n<td class=\"main-cell\">\n<h3>Directions</h3>\n")
	for i, step := range c.Directions {
		fmt.Fprintf(b, "<div class=\"step\" data-step=\"%d\">%s</div>\n", i+1, html.EscapeString(step))
	}
	if c.Notes != "" {
		fmt.Fprintf(b, "<div class=\"notes\"><strong>Note:</strong> %s</div>\n", html.EscapeString(c.Notes))
	}
	b.WriteString("</td>\n</tr>\n</table>\n</div>\n")
}

const markupHead = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>Recipe Collection</title>
<style>
@media print {
	@page {
		margin: 1.5cm;
		@bottom-center {
			content: "Page " counter(page);
			font-size: 9pt;
			color: #999;
		}
	}
	body { -webkit-print-color-adjust: exact; print-color-adjust: exact; }
	.page-break { page-break-after: always; }
	.avoid-break { page-break-inside: avoid; }
	.cover-page { page-break-after: always; margin: 0; height: 100%; }
	.chapter-page { page-break-before: always; }
}
body { font-family: Georgia, serif; color: #333; line-height: 1.45; margin: 0; padding: 0; background: #fff; }
.container { max-width: 900px; margin: 0 auto; padding: 20px; }
.cover-page { text-align: center; padding: 40px 20px; border: 6px double #2c3e50; height: 85vh;
	display: flex; flex-direction: column; justify-content: center; align-items: center;
	background-color: #fdfbf7; box-sizing: border-box; }
.cover-subtitle { text-transform: uppercase; letter-spacing: 3px; font-size: 0.9rem; color: #e67e22; margin-bottom: 15px; }
.cover-title { font-size: 3.8rem; line-height: 1.1; color: #2c3e50; margin: 10px 0; font-style: italic; }
.cover-author { font-size: 1.3rem; color: #555; margin-top: 30px; }
.cover-author strong { display: block; font-size: 1.8rem; color: #2c3e50; margin-top: 8px; }
.cover-year { margin-top: auto; color: #999; font-size: 0.8rem; padding-top: 20px; }
.cover-icon { font-size: 2.5rem; color: #e67e22; margin: 15px 0; }
.toc-container { padding: 30px 10px; }
.toc-title { font-size: 2rem; color: #2c3e50; border-bottom: 2px solid #e67e22; margin-bottom: 20px; }
.toc-list { list-style: none; padding: 0; }
.toc-category { font-size: 1.2rem; color: #e67e22; text-transform: uppercase; letter-spacing: 2px;
	margin: 18px 0 6px; border-bottom: 1px solid #eee; }
.toc-item a { display: flex; text-decoration: none; color: #333; padding: 3px 0; }
.toc-dots { flex: 1; border-bottom: 1px dotted #bbb; margin: 0 6px 4px; }
.chapter-page { padding: 40px 10px 10px; }
.chapter-title { font-size: 2.4rem; color: #2c3e50; border-bottom: 3px double #e67e22; padding-bottom: 8px; }
.chapter-index { list-style: none; padding: 0; color: #666; }
.chapter-index li { padding: 2px 0; }
.recipe-card { border: 1px solid #e8e8e8; border-radius: 6px; padding: 25px; margin: 25px 0; background: #fffefb; }
.recipe-card h1 { font-size: 1.9rem; color: #2c3e50; margin: 0 0 6px; }
.meta-info { color: #888; font-size: 0.85rem; border-top: 1px solid #eee; border-bottom: 1px solid #eee; padding: 5px 0; }
.layout-table { width: 100%; border-collapse: collapse; margin-top: 15px; }
.sidebar-cell { width: 34%; vertical-align: top; padding-right: 20px; border-right: 1px solid #eee; }
.main-cell { vertical-align: top; padding-left: 20px; }
.sidebar-image { width: 100%; border-radius: 4px; margin-bottom: 12px; }
.step { margin: 10px 0; padding-left: 2.2em; position: relative; }
.step::before { content: attr(data-step); position: absolute; left: 0; top: 0; width: 1.6em; height: 1.6em;
	background: #e67e22; color: #fff; border-radius: 50%; text-align: center; line-height: 1.6em; font-size: 0.8rem; }
.notes { margin-top: 18px; background: #fdf6ec; border-left: 3px solid #e67e22; padding: 10px 14px; font-size: 0.9rem; }
.footer { text-align: center; color: #aaa; font-size: 0.8rem; margin-top: 30px; }
</style>
</head>
<body>
<div class="container">
`
