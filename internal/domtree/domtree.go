// Package domtree provides the read-only and mutable traversal capability
// set the pipeline needs over a parsed HTML document: stable node identity,
// descendant iteration, canonical inner text, and rendering.
//
// The underlying representation is a goquery.Document backed by
// golang.org/x/net/html. Stable ids are assigned at load time by walking
// the tree in document order and stamping an attribute; x/net/html nodes
// have no public identity beyond their pointer, which does not survive
// cloning, so an explicit id is required for the candidate table to key on
// cloned subtrees.
package domtree

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// idAttr is the internal attribute used to stamp stable node ids. It is
// never surfaced in output; cleanup strips it along with every other
// non-whitelisted attribute.
const idAttr = "data-lectito-id"

// Tree wraps a parsed document and assigns stable integer ids to every
// element present at load time.
type Tree struct {
	Doc    *goquery.Document
	nextID int
}

// New builds a Tree from an already-parsed goquery document, stamping ids
// on every element node in document order.
func New(doc *goquery.Document) *Tree {
	t := &Tree{Doc: doc, nextID: 1}
	t.Doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		if node := s.Get(0); node != nil {
			t.stamp(node)
		}
	})
	return t
}

func (t *Tree) stamp(n *html.Node) {
	for _, a := range n.Attr {
		if a.Key == idAttr {
			return
		}
	}
	id := t.nextID
	t.nextID++
	n.Attr = append(n.Attr, html.Attribute{Key: idAttr, Val: strconv.Itoa(id)})
}

// ID returns the stable id stamped onto n, or 0 if n was never stamped
// (synthesized nodes created after load, e.g. the synthetic wrapper <div>
// the selector assembles, have no id and are never looked up by one).
func ID(n *html.Node) int {
	for _, a := range n.Attr {
		if a.Key == idAttr {
			id, _ := strconv.Atoi(a.Val)
			return id
		}
	}
	return 0
}

// IsDescendantOf reports whether n is a descendant of ancestor.
func IsDescendantOf(n, ancestor *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p == ancestor {
			return true
		}
	}
	return false
}

// InnerText returns the canonical inner text of a selection: descendant
// text nodes concatenated, whitespace runs collapsed to a single space,
// leading/trailing whitespace trimmed. This is the single canonical
// text-extraction routine every scoring and cleanup decision consults.
func InnerText(s *goquery.Selection) string {
	return CanonicalText(s.Text())
}

// CanonicalText applies the collapse-and-trim rule to an arbitrary string,
// normalizing to NFC first so multi-byte punctuation (including the
// Unicode comma variants the scorer counts) compares consistently
// regardless of the input document's normalization form.
func CanonicalText(raw string) string {
	normalized := norm.NFC.String(raw)
	var b strings.Builder
	inSpace := false
	for _, r := range normalized {
		if isSpace(r) {
			if !inSpace && b.Len() > 0 {
				b.WriteRune(' ')
			}
			inSpace = true
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f', '\v', 0xA0, 0x2000, 0x2001, 0x2002, 0x2003, 0x2028, 0x2029, 0x3000:
		return true
	}
	return false
}

// NodeName returns the uppercased tag name of an element node, or an empty
// string for non-element nodes.
func NodeName(n *html.Node) string {
	if n == nil || n.Type != html.ElementNode {
		return ""
	}
	return strings.ToUpper(n.Data)
}

// OuterHTML renders a selection's first node including its own tag.
func OuterHTML(s *goquery.Selection) (string, error) {
	return goquery.OuterHtml(s)
}
