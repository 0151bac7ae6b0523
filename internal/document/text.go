package document

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// blockElements start a new text line when flattened
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true, "br": true,
	"dd": true, "div": true, "dl": true, "dt": true, "figcaption": true, "figure": true,
	"footer": true, "form": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "header": true, "hr": true, "li": true, "main": true,
	"nav": true, "ol": true, "p": true, "pre": true, "section": true, "table": true,
	"tr": true, "ul": true,
}

// inlineElements run into their neighbours; text inside them keeps only the
// whitespace of the source. Any other element is separated by a space.
var inlineElements = map[string]bool{
	"a": true, "abbr": true, "b": true, "bdi": true, "bdo": true, "cite": true,
	"code": true, "data": true, "del": true, "dfn": true, "em": true, "font": true,
	"i": true, "ins": true, "kbd": true, "mark": true, "q": true, "s": true,
	"samp": true, "small": true, "span": true, "strong": true, "sub": true,
	"sup": true, "time": true, "u": true, "var": true, "wbr": true,
}

// flatten extracts visible text, one entry per block-level line
func flatten(n *html.Node) []string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "template", "head":
				return
			}
		}

		var sep byte
		if n.Type == html.ElementNode {
			switch {
			case blockElements[n.Data]:
				sep = '\n'
			case !inlineElements[n.Data]:
				sep = ' '
			}
		}
		if sep != 0 {
			buf.WriteByte(sep)
		}

		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if sep != 0 {
			buf.WriteByte(sep)
		}
	}

	walk(n)

	var lines []string
	for _, line := range strings.Split(buf.String(), "\n") {
		if cleaned := CleanText(line); cleaned != "" {
			lines = append(lines, cleaned)
		}
	}
	return lines
}

// BlockText returns the visible text under n with one line per block
func BlockText(n *html.Node) string {
	if n == nil {
		return ""
	}
	return strings.Join(flatten(n), "\n")
}

// CleanText collapses whitespace runs to single spaces, trims the result and
// composes it to NFC so accented labels compare equal across pages.
func CleanText(s string) string {
	return norm.NFC.String(strings.Join(strings.Fields(s), " "))
}
