package gbig

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ownText returns the text nodes that are direct children of the selected
// elements, in document order. Descendant element text is not included.
func ownText(sel *goquery.Selection) []string {
	var out []string
	for _, n := range sel.Nodes {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				out = append(out, c.Data)
			}
		}
	}
	return out
}

// firstOwnText returns the first direct text node of sel.
func firstOwnText(sel *goquery.Selection) (string, bool) {
	texts := ownText(sel)
	if len(texts) == 0 {
		return "", false
	}
	return texts[0], true
}

// firstFilledOwnText returns the first direct text node of sel that is not
// only whitespace.
func firstFilledOwnText(sel *goquery.Selection) (string, bool) {
	for _, t := range ownText(sel) {
		if strings.TrimSpace(t) != "" {
			return t, true
		}
	}
	return "", false
}
