// Package cleanup implements C5: post-selection cleanup of the cloned
// content subtree. Grounded in the teacher's cleanup.go/preparation.go
// attribute and tag taxonomies (PresentationalAttributes, table
// classification) and spec.md §4.5.
package cleanup

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/lectito/lectito/internal/domtree"
)

// attributeWhitelist is the set of attributes cleanup preserves; everything
// else is dropped, per spec.md §4.5. class/id are preserved only when
// KeepClassAndID is set.
var attributeWhitelist = map[string]bool{
	"href": true, "src": true, "srcset": true, "alt": true, "title": true,
	"colspan": true, "rowspan": true, "datetime": true, "lang": true, "dir": true,
}

// mediaTags are never removed for emptiness even when their canonical text
// is empty, subject to PreserveImages.
var mediaTags = map[string]bool{"IMG": true, "PICTURE": true, "FIGURE": true, "VIDEO": true, "AUDIO": true, "IFRAME": true}

// Config carries the cleanup-relevant configuration knobs.
type Config struct {
	BaseURL        *url.URL
	PreserveImages bool
	KeepClassAndID bool
}

// Run mutates the content root in place, applying every C5 rule in
// document order.
func Run(root *html.Node, cfg Config) {
	doc := goquery.NewDocumentFromNode(root)
	sel := doc.Selection

	removeEmptyElements(sel, cfg)
	sanitizeAttributes(sel, cfg)
	resolveURLs(sel, cfg)
	unwrapRedundantDivs(sel)
	collapseBreaks(sel)
	unwrapLayoutTables(sel)
}

// removeEmptyElements drops elements with empty canonical text that carry
// no whitelisted media.
func removeEmptyElements(root *goquery.Selection, cfg Config) {
	var toRemove []*goquery.Selection
	root.Find("*").Each(func(_ int, s *goquery.Selection) {
		if domtree.InnerText(s) != "" {
			return
		}
		if hasWhitelistedMedia(s, cfg) {
			return
		}
		toRemove = append(toRemove, s)
	})
	for _, s := range toRemove {
		s.Remove()
	}
}

func hasWhitelistedMedia(s *goquery.Selection, cfg Config) bool {
	if !cfg.PreserveImages {
		return false
	}
	found := false
	s.Find("*").AddBack().EachWithBreak(func(_ int, d *goquery.Selection) bool {
		if mediaTags[domtree.NodeName(d.Get(0))] {
			found = true
			return false
		}
		return true
	})
	return found
}

// sanitizeAttributes drops every attribute not in the whitelist.
func sanitizeAttributes(root *goquery.Selection, cfg Config) {
	root.Find("*").Each(func(_ int, s *goquery.Selection) {
		n := s.Get(0)
		if n == nil {
			return
		}
		kept := n.Attr[:0]
		for _, a := range n.Attr {
			key := strings.ToLower(a.Key)
			if attributeWhitelist[key] {
				kept = append(kept, a)
				continue
			}
			if cfg.KeepClassAndID && (key == "class" || key == "id") {
				kept = append(kept, a)
			}
		}
		n.Attr = kept
	})
}

// resolveURLs resolves href/src/srcset against cfg.BaseURL when provided.
func resolveURLs(root *goquery.Selection, cfg Config) {
	if cfg.BaseURL == nil {
		return
	}
	root.Find("[href]").Each(func(_ int, s *goquery.Selection) {
		resolveAttr(s, "href", cfg.BaseURL)
	})
	root.Find("[src]").Each(func(_ int, s *goquery.Selection) {
		resolveAttr(s, "src", cfg.BaseURL)
	})
	root.Find("[srcset]").Each(func(_ int, s *goquery.Selection) {
		resolveSrcset(s, cfg.BaseURL)
	})
}

func resolveAttr(s *goquery.Selection, attr string, base *url.URL) {
	val, ok := s.Attr(attr)
	if !ok || val == "" || strings.HasPrefix(val, "data:") {
		return
	}
	resolved, err := base.Parse(val)
	if err != nil {
		return
	}
	s.SetAttr(attr, resolved.String())
}

func resolveSrcset(s *goquery.Selection, base *url.URL) {
	val, ok := s.Attr("srcset")
	if !ok {
		return
	}
	parts := strings.Split(val, ",")
	for i, part := range parts {
		part = strings.TrimSpace(part)
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		resolved, err := base.Parse(fields[0])
		if err != nil {
			continue
		}
		fields[0] = resolved.String()
		parts[i] = strings.Join(fields, " ")
	}
	s.SetAttr("srcset", strings.Join(parts, ", "))
}

// unwrapRedundantDivs collapses <div><div>...</div></div> nesting where the
// inner div is the sole child.
func unwrapRedundantDivs(root *goquery.Selection) {
	for {
		changed := false
		root.Find("div").Each(func(_ int, s *goquery.Selection) {
			if domtree.NodeName(s.Get(0)) != "DIV" {
				return
			}
			children := s.Children()
			if children.Length() != 1 {
				return
			}
			only := children.First()
			if domtree.NodeName(only.Get(0)) != "DIV" {
				return
			}
			s.ReplaceWithSelection(only)
			changed = true
		})
		if !changed {
			break
		}
	}
}

// collapseBreaks merges runs of consecutive <br> into a single paragraph
// boundary.
func collapseBreaks(root *goquery.Selection) {
	root.Find("br + br").Each(func(_ int, s *goquery.Selection) {
		// "br + br" also matches two <br> separated by text; only remove the
		// previous <br> when nothing but whitespace lies between them.
		prev := s.Get(0).PrevSibling
		for prev != nil && prev.Type == html.TextNode && strings.TrimSpace(prev.Data) == "" {
			prev = prev.PrevSibling
		}
		if prev != nil && prev.Type == html.ElementNode && prev.Data == "br" {
			prev.Parent.RemoveChild(prev)
		}
	})
}

// unwrapLayoutTables removes tables with no <th>, no role="grid", and more
// columns than rows, replacing the table with its contents (§4.5).
func unwrapLayoutTables(root *goquery.Selection) {
	root.Find("table").Each(func(_ int, table *goquery.Selection) {
		if table.Find("th").Length() > 0 {
			return
		}
		if role, ok := table.Attr("role"); ok && role == "grid" {
			return
		}
		rows := table.Find("tr")
		maxCols := 0
		rows.Each(func(_ int, row *goquery.Selection) {
			cols := row.Find("td").Length()
			if cols > maxCols {
				maxCols = cols
			}
		})
		if maxCols > rows.Length() {
			unwrapNode(table.Get(0))
		}
	})
}

// unwrapNode replaces n in its parent's child list with n's own children.
func unwrapNode(n *html.Node) {
	parent := n.Parent
	if parent == nil {
		return
	}
	next := n.NextSibling
	for child := n.FirstChild; child != nil; {
		nextChild := child.NextSibling
		n.RemoveChild(child)
		parent.InsertBefore(child, next)
		child = nextChild
	}
	parent.RemoveChild(n)
}
