// Package preprocess implements C2: a single document-order pass that
// prunes obvious non-content before scoring ever sees it.
package preprocess

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/lectito/lectito/internal/domtree"
)

// Unlikely-candidate and rescue patterns, carried over from the teacher's
// constants.go verbatim: these patterns are the product of years of
// Readability.js tuning against real pages and are not worth re-deriving.
var (
	unlikelyCandidates = regexp.MustCompile(`-ad-|ai2html|banner|breadcrumbs|combx|comment|community|cover-wrap|disqus|extra|footer|gdpr|header|legends|menu|related|remark|replies|rss|shoutbox|sidebar|skyscraper|social|sponsor|supplemental|ad-break|agegate|pagination|pager|popup|yom-remote|hidden|modal|share|tweet|skip`)
	maybeCandidate     = regexp.MustCompile(`and|article|body|column|content|main|shadow`)
)

var unlikelyRoles = map[string]bool{
	"menu": true, "menubar": true, "complementary": true, "navigation": true,
	"alert": true, "alertdialog": true, "dialog": true,
}

// Run mutates t.Doc in place, applying the four preprocessing rules in
// order against every element in document order. It never fails: an empty
// document after structural stripping is a legal (if unusual) outcome,
// rejected later by threshold checks in the orchestrator, not here.
func Run(t *domtree.Tree) {
	removeComments(t.Doc.Selection)
	stripStructural(t.Doc.Selection)
	removeUnlikelyCandidates(t.Doc.Selection)
	normalizeTags(t.Doc.Selection)
	normalizeWhitespace(t.Doc.Selection)
}

// removeComments walks the raw x/net/html tree for comment and
// doctype-in-body nodes; goquery's selector API only reaches elements, so
// this step bypasses it.
func removeComments(root *goquery.Selection) {
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		child := n.FirstChild
		for child != nil {
			next := child.NextSibling
			if child.Type == html.CommentNode {
				n.RemoveChild(child)
			} else if child.Type == html.DoctypeNode && n.Data == "body" {
				n.RemoveChild(child)
			} else {
				walk(child)
			}
			child = next
		}
	}
	root.Each(func(_ int, s *goquery.Selection) {
		if n := s.Get(0); n != nil {
			walk(n)
		}
	})
}

// stripStructural removes script/style/noscript/iframe/link elements and
// any element whose inline style hides it.
func stripStructural(root *goquery.Selection) {
	root.Find("script, style, noscript, iframe, link").Remove()
	root.Find("*").Each(func(_ int, s *goquery.Selection) {
		style, ok := s.Attr("style")
		if !ok {
			return
		}
		low := strings.ToLower(style)
		if strings.Contains(low, "display:none") || strings.Contains(low, "display: none") ||
			strings.Contains(low, "visibility:hidden") || strings.Contains(low, "visibility: hidden") {
			s.Remove()
		}
	})
}

// removeUnlikelyCandidates drops elements matching either of two
// independent criteria: a class/id match against the negative pattern
// (without a rescue match), or an unlikely ARIA role — matching the
// teacher's extraction.go, where the class/id check and the role check
// are separate removal criteria, not one gating the other. Both skip
// <html>, <body>, <article>, and ancestors of a grid table.
func removeUnlikelyCandidates(root *goquery.Selection) {
	var candidates []*goquery.Selection
	root.Find("*").Each(func(_ int, s *goquery.Selection) {
		candidates = append(candidates, s)
	})
	for _, s := range candidates {
		tag := domtree.NodeName(s.Get(0))
		if tag == "HTML" || tag == "BODY" || tag == "ARTICLE" {
			continue
		}
		if isGridTableAncestor(s) {
			continue
		}

		if role, ok := s.Attr("role"); ok && unlikelyRoles[strings.ToLower(role)] {
			s.Remove()
			continue
		}

		matchString := strings.ToLower(classAndID(s))
		if matchString == "" {
			continue
		}
		if !unlikelyCandidates.MatchString(matchString) || maybeCandidate.MatchString(matchString) {
			continue
		}
		if hasPositiveDescendant(s) {
			continue
		}
		s.Remove()
	}
}

func isGridTableAncestor(s *goquery.Selection) bool {
	found := false
	s.Find("table[role='grid']").Each(func(_ int, _ *goquery.Selection) {
		found = true
	})
	return found
}

func classAndID(s *goquery.Selection) string {
	class, _ := s.Attr("class")
	id, _ := s.Attr("id")
	return class + " " + id
}

// hasPositiveDescendant preserves an otherwise-unlikely element if a
// descendant's class/id matches the positive content pattern.
func hasPositiveDescendant(s *goquery.Selection) bool {
	found := false
	s.Find("*").EachWithBreak(func(_ int, d *goquery.Selection) bool {
		if maybeCandidate.MatchString(strings.ToLower(classAndID(d))) {
			found = true
			return false
		}
		return true
	})
	return found
}

// normalizeTags replaces <font> with <span>. <div> elements are left as
// they are; none is converted to <p>, whatever its descendants.
func normalizeTags(root *goquery.Selection) {
	root.Find("font").Each(func(_ int, s *goquery.Selection) {
		renameTag(s, "span")
	})
}

func renameTag(s *goquery.Selection, tag string) {
	n := s.Get(0)
	if n == nil {
		return
	}
	n.Data = tag
}

// normalizeWhitespace collapses runs of <br> into paragraph breaks and
// strips whitespace-only text nodes at the start/end of block elements.
func normalizeWhitespace(root *goquery.Selection) {
	root.Find("br + br").Each(func(_ int, s *goquery.Selection) {
		// "br + br" also matches two <br> separated by text; only remove the
		// previous <br> when nothing but whitespace lies between them.
		prev := s.Get(0).PrevSibling
		for prev != nil && isBlankText(prev) {
			prev = prev.PrevSibling
		}
		if prev != nil && prev.Type == html.ElementNode && prev.Data == "br" {
			prev.Parent.RemoveChild(prev)
		}
	})
	root.Find("*").Each(func(_ int, s *goquery.Selection) {
		n := s.Get(0)
		if n == nil || n.Type != html.ElementNode {
			return
		}
		for n.FirstChild != nil && isBlankText(n.FirstChild) {
			n.RemoveChild(n.FirstChild)
		}
		for n.LastChild != nil && isBlankText(n.LastChild) {
			n.RemoveChild(n.LastChild)
		}
	})
}

func isBlankText(n *html.Node) bool {
	return n.Type == html.TextNode && strings.TrimSpace(n.Data) == ""
}
