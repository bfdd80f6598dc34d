package nameform

import (
	"strings"

	"golang.org/x/net/html"
)

// FlattenHTML extracts the visible text of an HTML fragment and collapses it
// to single-spaced plain text. Used to turn vendor detail pages into
// classifier input. Unparseable input flattens to the empty string.
func FlattenHTML(fragment string) string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	var b strings.Builder
	extractText(doc, &b)
	return strings.Join(strings.Fields(b.String()), " ")
}

func extractText(n *html.Node, b *strings.Builder) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript":
			return
		}
	}
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		b.WriteByte(' ')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extractText(c, b)
	}
}
