// Package goquery implements snapshot parsing and field extraction on top
// of the PuerkitoBio/goquery DOM. Each logical field is extracted by an
// ordered chain of strategies tried against the parsed tree; the first
// strategy that yields a raw value wins and the value is normalized into
// its canonical type.
package goquery

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	petfood "github.com/thaochithai/pet-food-analysis"
)

// Document wraps a parsed snapshot tree and exposes read-only structural
// queries. All queries return matches in document order. The tree is
// built once per snapshot and never mutated.
type Document struct {
	doc *goquery.Document
}

// Parse builds a Document from raw snapshot bytes.
func Parse(body []byte) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, petfood.Errorf(petfood.EUNREADABLE, "failed to parse snapshot: %v", err)
	}
	return &Document{doc: doc}, nil
}

// Selection returns the whole-document scope for chain extraction.
func (d *Document) Selection() *goquery.Selection {
	return d.doc.Selection
}

// QueryOne returns the first node matching the selector, or nil.
func (d *Document) QueryOne(selector string) *goquery.Selection {
	return queryOne(d.doc.Selection, selector)
}

// QueryAll returns every node matching the selector in document order.
// The result may be empty.
func (d *Document) QueryAll(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

// FindTextMatching returns the first text node under the document whose
// content matches pattern, or nil.
func (d *Document) FindTextMatching(pattern *regexp.Regexp) *html.Node {
	return textNodeMatching(d.doc.Selection, pattern)
}

// queryOne scopes a first-match query to a selection.
func queryOne(scope *goquery.Selection, selector string) *goquery.Selection {
	found := scope.Find(selector)
	if found.Length() == 0 {
		return nil
	}
	return found.First()
}

// text returns a selection's text content, whitespace-collapsed and
// trimmed. A nil selection yields the empty string.
func text(sel *goquery.Selection) string {
	if sel == nil {
		return ""
	}
	return petfood.CollapseSpace(sel.Text())
}

// attr returns a trimmed attribute value, or "" when absent.
func attr(sel *goquery.Selection, name string) string {
	if sel == nil {
		return ""
	}
	return strings.TrimSpace(sel.AttrOr(name, ""))
}

// textNodeMatching walks the selection's subtrees depth-first and returns
// the first text node matching pattern, or nil. Script and style bodies
// are skipped so markup payloads cannot masquerade as page text.
func textNodeMatching(scope *goquery.Selection, pattern *regexp.Regexp) *html.Node {
	if scope == nil {
		return nil
	}
	for _, root := range scope.Nodes {
		if found := findTextNode(root, pattern); found != nil {
			return found
		}
	}
	return nil
}

func findTextNode(n *html.Node, pattern *regexp.Regexp) *html.Node {
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return nil
	}
	if n.Type == html.TextNode && pattern.MatchString(n.Data) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findTextNode(c, pattern); found != nil {
			return found
		}
	}
	return nil
}

// nodeText returns the concatenated text content of a node's subtree,
// whitespace-collapsed.
func nodeText(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	collectText(n, &b)
	return petfood.CollapseSpace(b.String())
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		b.WriteByte(' ')
		return
	}
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}

// followingSiblingsText concatenates the text of up to limit element
// siblings following n, in document order.
func followingSiblingsText(n *html.Node, limit int) string {
	if n == nil {
		return ""
	}
	var parts []string
	visited := 0
	for sib := n.NextSibling; sib != nil && visited < limit; sib = sib.NextSibling {
		if sib.Type != html.ElementNode {
			continue
		}
		visited++
		if t := nodeText(sib); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}
