// Package lectito extracts the main article body and metadata from an
// arbitrary HTML document, discarding navigation, sidebars, advertising,
// comments, and other boilerplate. It implements the C1-C8 readability
// pipeline: preprocessing, element scoring with ancestor propagation,
// top-candidate selection with sibling inclusion, cleanup, and metadata
// extraction (HTML head tags, Open Graph, Twitter cards, JSON-LD, and
// heuristic fallback).
//
// Usage:
//
//	doc, _ := goquery.NewDocumentFromReader(strings.NewReader(htmlString))
//	article, err := lectito.Parse(doc, lectito.DefaultConfig())
package lectito

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/lectito/lectito/internal/cleanup"
	"github.com/lectito/lectito/internal/domtree"
	"github.com/lectito/lectito/internal/errs"
	"github.com/lectito/lectito/internal/metadata"
	"github.com/lectito/lectito/internal/preprocess"
	"github.com/lectito/lectito/internal/scoring"
	"github.com/lectito/lectito/internal/selector"
)

// Parse runs C8's orchestration over an already-parsed DOM: preprocess,
// score, select, clean up, extract metadata, and assemble the Article
// value. It is pure and synchronous, per spec.md §5: the core exposes no
// cancellation token, and callers needing timeouts bound the preceding
// fetch/parse stage themselves.
func Parse(doc *goquery.Document, cfg Config) (*Article, error) {
	// The pipeline works on a deep copy, so doc itself is left untouched and
	// metadata extraction below still sees its JSON-LD <script> blocks,
	// which preprocessing strips.
	work := goquery.NewDocumentFromNode(doc.Selection.Clone().Get(0))
	tree := domtree.New(work)

	preprocess.Run(tree)

	table := scoring.Score(tree.Doc.Selection)
	if len(table.All()) == 0 {
		return nil, errs.Wrap(errs.StageScore, "Parse", errs.ErrEmptyDocument)
	}

	selCfg := selector.Config{
		MinScore:             cfg.MinScore,
		MaxTopCandidates:     cfg.MaxTopCandidates,
		ScoreHoistThreshold:  cfg.ScoreHoistThreshold,
		SiblingScoreFraction: cfg.SiblingScoreFraction,
		SiblingScoreFloor:    cfg.SiblingScoreFloor,
	}
	contentRoot, score, err := selector.Select(table, selCfg)
	if err != nil {
		return nil, err
	}

	cleanup.Run(contentRoot, cleanup.Config{
		BaseURL:        cfg.BaseURL,
		PreserveImages: cfg.PreserveImages,
		KeepClassAndID: cfg.KeepClassAndID,
	})

	contentSel := goquery.NewDocumentFromNode(contentRoot).Selection
	textContent := domtree.InnerText(contentSel)
	wordCount := countWords(textContent)

	meta := metadata.Extract(doc.Get(0), contentRoot, cfg.BaseURL, firstH1(contentRoot))

	if len(textContent) < cfg.CharThreshold {
		return nil, &errs.NotReaderable{Score: score, Threshold: float64(cfg.CharThreshold)}
	}

	contentHTML, err := domtree.OuterHTML(contentSel)
	if err != nil {
		return nil, errs.Wrap(errs.StageCleanup, "Parse", err)
	}

	return &Article{
		Content:          contentHTML,
		TextContent:      textContent,
		WordCount:        wordCount,
		ReadabilityScore: score,
		Metadata: Metadata{
			Title:            meta.Title,
			Author:           meta.Author,
			Excerpt:          meta.Excerpt,
			SiteName:         meta.SiteName,
			Language:         meta.Language,
			PublishedDate:    meta.PublishedDate,
			PublishedDateRaw: meta.PublishedDateRaw,
		},
	}, nil
}

// IsProbablyReadable runs preprocessing and scoring only, returning whether
// the top candidate meets both the score and character thresholds, without
// running selection, cleanup, or metadata extraction (spec.md §6). It uses
// the top candidate's own cached InnerTextLen rather than the sibling-merged,
// cleaned text Parse would eventually produce, so it can answer without
// paying for selection and cleanup; this can disagree with Parse on
// documents where sibling inclusion or cleanup materially changes the text
// length relative to the top candidate alone.
func IsProbablyReadable(doc *goquery.Document, cfg Config) bool {
	tree := domtree.New(doc)
	preprocess.Run(tree)
	table := scoring.Score(tree.Doc.Selection)

	var top *scoring.Record
	for _, rec := range table.All() {
		if top == nil || rec.Score > top.Score {
			top = rec
		}
	}
	if top == nil {
		return false
	}
	return top.Score >= cfg.MinScore && top.InnerTextLen >= cfg.CharThreshold
}

// ExtractMetadata runs C6/C7 standalone against an already-parsed document,
// without running the content-selection pipeline (spec.md §6). The title
// chain's "first <h1> in the chosen content subtree" fallback degrades to
// the document's first <h1>, since no content subtree has been chosen.
func ExtractMetadata(doc *goquery.Document, cfg Config) Metadata {
	var h1 *html.Node
	if sel := doc.Find("h1").First(); sel.Length() > 0 {
		h1 = sel.Get(0)
	}
	meta := metadata.Extract(doc.Get(0), nil, cfg.BaseURL, h1)
	return Metadata{
		Title:            meta.Title,
		Author:           meta.Author,
		Excerpt:          meta.Excerpt,
		SiteName:         meta.SiteName,
		Language:         meta.Language,
		PublishedDate:    meta.PublishedDate,
		PublishedDateRaw: meta.PublishedDateRaw,
	}
}

func firstH1(root *html.Node) *html.Node {
	var found *html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if domtree.NodeName(n) == "H1" {
			found = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return found
}

func countWords(text string) int {
	return len(strings.Fields(text))
}
