// Package selector implements C4: top-candidate selection, the
// alternate-root hoist, and sibling inclusion. Grounded in the teacher's
// addSiblings/buildArticleFromCandidates (extraction.go) and the original
// Rust implementation's extract.rs, which pins the hoist and sibling
// constants spec.md's Open Questions left for implementers to choose.
package selector

import (
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/lectito/lectito/internal/domtree"
	"github.com/lectito/lectito/internal/errs"
	"github.com/lectito/lectito/internal/scoring"
)

// Config carries the tunable constants the original implementation shipped
// as literals, exposed here per spec.md §9's Open Questions.
type Config struct {
	MinScore             float64
	MaxTopCandidates     int
	ScoreHoistThreshold  float64 // fraction P's parent must retain to be hoisted, default 0.25
	SiblingScoreFraction float64 // fraction of P's score a sibling needs to qualify, default 0.2
	SiblingScoreFloor    float64 // absolute floor for the sibling threshold, default 10
}

var semanticRank = map[string]int{"ARTICLE": 3, "SECTION": 2, "DIV": 1}

// Select runs C4 against a populated candidate table, returning a
// detached <div> containing the selected content and the chosen
// candidate's score.
func Select(table *scoring.Table, cfg Config) (*html.Node, float64, error) {
	candidates := rankedCandidates(table, cfg.MaxTopCandidates)
	if len(candidates) == 0 {
		return nil, 0, errs.ErrEmptyDocument
	}

	top := candidates[0]
	if top.Score < cfg.MinScore {
		return nil, top.Score, &errs.NotReaderable{Score: top.Score, Threshold: cfg.MinScore}
	}

	top = hoist(table, top, cfg.ScoreHoistThreshold)
	container := assemble(table, top, cfg)
	return container, top.Score, nil
}

// rankedCandidates sorts by score descending, breaking ties by document
// order then semantic-tag rank, and truncates to MaxTopCandidates.
func rankedCandidates(table *scoring.Table, max int) []*scoring.Record {
	all := table.All()
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Score != all[j].Score {
			return all[i].Score > all[j].Score
		}
		if all[i].DocOrder != all[j].DocOrder {
			return all[i].DocOrder < all[j].DocOrder
		}
		return semanticRank[domtree.NodeName(all[i].Node)] > semanticRank[domtree.NodeName(all[j].Node)]
	})
	if max > 0 && len(all) > max {
		all = all[:max]
	}
	return all
}

// hoist walks upward from top while each successive parent's score is
// within ScoreHoistThreshold of top's score and the parent is not <body>.
// The topmost such parent becomes the new top candidate (§4.4 step 2).
func hoist(table *scoring.Table, top *scoring.Record, threshold float64) *scoring.Record {
	current := top
	for {
		parent := current.Node.Parent
		if parent == nil {
			return current
		}
		parentTag := domtree.NodeName(parent)
		if parentTag == "BODY" || parentTag == "" {
			return current
		}
		parentRec, ok := table.Get(domtree.ID(parent))
		if !ok || parentRec.Score < top.Score*(1-threshold) {
			return current
		}
		current = parentRec
	}
}

// assemble clones the qualifying siblings of top (including top itself) in
// document order under a fresh synthetic <div> (§4.4 step 4).
func assemble(table *scoring.Table, top *scoring.Record, cfg Config) *html.Node {
	container := &html.Node{Type: html.ElementNode, Data: "div"}

	parent := top.Node.Parent
	if parent == nil {
		container.AppendChild(cloneDeep(top.Node))
		return container
	}

	sibThreshold := maxFloat(cfg.SiblingScoreFloor, top.Score*cfg.SiblingScoreFraction)

	for n := parent.FirstChild; n != nil; n = n.NextSibling {
		if n.Type != html.ElementNode {
			continue
		}
		if n == top.Node {
			container.AppendChild(cloneDeep(n))
			continue
		}
		if qualifiesAsSibling(table, n, top, sibThreshold) {
			container.AppendChild(cloneDeep(n))
		}
	}
	return container
}

// qualifiesAsSibling implements §4.4 step 3's four-way test.
func qualifiesAsSibling(table *scoring.Table, n *html.Node, top *scoring.Record, sibThreshold float64) bool {
	if rec, ok := table.Get(domtree.ID(n)); ok {
		if rec.Score >= sibThreshold {
			return true
		}
	}

	tag := domtree.NodeName(n)
	if tag == "P" {
		sel := &goquery.Selection{Nodes: []*html.Node{n}}
		text := domtree.InnerText(sel)
		textLen := len([]rune(text))
		ld := scoring.LinkDensity(sel)
		if textLen > 80 && ld < 0.25 {
			return true
		}
		if textLen <= 80 && ld == 0 && endsWithSentencePunct(text) {
			return true
		}
	}

	if tag == "H2" || tag == "H3" || tag == "H4" {
		return true
	}

	return false
}

func endsWithSentencePunct(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	last := text[len(text)-1]
	return last == '.' || last == '!' || last == '?'
}

// cloneDeep recursively copies an x/net/html node and its descendants into
// a new detached subtree, preserving stamped ids so downstream cleanup can
// still key candidate-table lookups against the cloned nodes if needed.
func cloneDeep(n *html.Node) *html.Node {
	clone := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		clone.AppendChild(cloneDeep(c))
	}
	return clone
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
