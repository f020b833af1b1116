// Package scoring implements C3: per-element scoring with ancestor score
// propagation, grounded in the teacher's constants.go weight tables and
// extraction.go's scoreAncestors walk, refined with the original Rust
// implementation's code-block penalty and positive-pattern link-density
// discount (see SPEC_FULL.md §4).
package scoring

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/lectito/lectito/internal/domtree"
)

var (
	positivePattern = regexp.MustCompile(`(?i)article|body|content|entry|hentry|h-entry|main|page|post|text|blog|story`)
	negativePattern = regexp.MustCompile(`(?i)banner|breadcrumbs?|combx|comment|community|disqus|extra|foot|header|menu|related|remark|rss|shoutbox|sidebar|sponsor|ad-break|agegate|pagination|pager|popup`)
)

// commaVariants lists every Unicode comma the spec requires counting:
// ASCII, Arabic, ideographic, and fullwidth.
var commaVariants = []rune{',', '،', '、', '，'}

var candidateTags = map[string]bool{
	"P": true, "PRE": true, "TD": true, "ARTICLE": true, "SECTION": true, "DIV": true,
}

var baseTagScore = map[string]float64{
	"ARTICLE": 10, "SECTION": 8, "DIV": 5, "BLOCKQUOTE": 5, "PRE": 5,
	"TD": 3, "P": 3, "TH": 3, "UL": 3, "OL": 3,
	"ADDRESS": -3, "FORM": -3,
	"H1": -0.5, "H2": -0.5, "H3": -0.5, "H4": -0.5, "H5": -0.5, "H6": -0.5,
	"LI": -1,
}

// Record is a candidate-table entry: the accumulated score for one element,
// plus the cached text metrics the spec requires owning per the data
// model's Candidate record.
type Record struct {
	Node          *html.Node
	Sel           *goquery.Selection
	Score         float64
	InnerTextLen  int
	LinkTextLen   int
	Initialized   bool
	DocOrder      int
}

// Table is the candidate table: element id to Record, plus a monotonically
// increasing document-order counter used for stable tie-breaking.
type Table struct {
	records map[int]*Record
	order   int
}

func NewTable() *Table {
	return &Table{records: make(map[int]*Record)}
}

func (t *Table) Get(id int) (*Record, bool) {
	r, ok := t.records[id]
	return r, ok
}

func (t *Table) All() []*Record {
	out := make([]*Record, 0, len(t.records))
	for _, r := range t.records {
		out = append(out, r)
	}
	return out
}

// Score runs C3 over every candidate-eligible element reachable from root,
// initializing ancestor records lazily as propagation reaches them, and
// returns the populated candidate table.
func Score(root *goquery.Selection) *Table {
	table := NewTable()
	root.Find("*").Each(func(_ int, s *goquery.Selection) {
		n := s.Get(0)
		tag := domtree.NodeName(n)
		if !candidateTags[tag] {
			return
		}
		if tag == "DIV" && !containsProse(s) {
			return
		}
		scoreElement(table, s)
	})
	return table
}

func containsProse(s *goquery.Selection) bool {
	text := domtree.InnerText(s)
	return len(text) > 0
}

func scoreElement(table *Table, s *goquery.Selection) {
	n := s.Get(0)
	id := domtree.ID(n)
	text := domtree.InnerText(s)
	raw := baseScore(n) + classIDWeight(s) + contentDensity(text)
	ld := LinkDensity(s)

	isCode := looksLikeCode(n, text)
	hasPositive := classIDWeight(s) > 0
	isContentRich := len([]rune(text)) > 500

	var linkPenalty float64
	if hasPositive || isContentRich {
		linkPenalty = 1 - ld*0.5
	} else {
		linkPenalty = 1 - ld
	}

	codePenalty := 0.0
	if isCode {
		codePenalty = -10
	}

	final := (raw + codePenalty) * linkPenalty

	rec := recordFor(table, id, n, s)
	rec.Score += final
	rec.InnerTextLen = len([]rune(text))
	rec.LinkTextLen = linkTextLen(s)
	rec.Initialized = true

	propagate(table, s, final)
}

// propagate adds half of final to the parent and one quarter to the
// grandparent, creating and base-initializing their records first if they
// are not yet candidates (§4.3).
func propagate(table *Table, s *goquery.Selection, final float64) {
	parent := s.Parent()
	if parent.Length() == 0 || domtree.NodeName(parent.Get(0)) == "" {
		return
	}
	ensureInitialized(table, parent)
	parentID := domtree.ID(parent.Get(0))
	if rec, ok := table.Get(parentID); ok {
		rec.Score += final / 2
	}

	grandparent := parent.Parent()
	if grandparent.Length() == 0 || domtree.NodeName(grandparent.Get(0)) == "" {
		return
	}
	ensureInitialized(table, grandparent)
	gpID := domtree.ID(grandparent.Get(0))
	if rec, ok := table.Get(gpID); ok {
		rec.Score += final / 4
	}
}

func ensureInitialized(table *Table, s *goquery.Selection) {
	n := s.Get(0)
	id := domtree.ID(n)
	if _, ok := table.Get(id); ok {
		return
	}
	rec := recordFor(table, id, n, s)
	rec.Score = baseScore(n) + classIDWeight(s)
}

func recordFor(table *Table, id int, n *html.Node, s *goquery.Selection) *Record {
	if rec, ok := table.Get(id); ok {
		return rec
	}
	table.order++
	rec := &Record{Node: n, Sel: s, DocOrder: table.order}
	table.records[id] = rec
	return rec
}

func baseScore(n *html.Node) float64 {
	return baseTagScore[domtree.NodeName(n)]
}

func classIDWeight(s *goquery.Selection) float64 {
	class, _ := s.Attr("class")
	id, _ := s.Attr("id")
	matchString := strings.ToLower(class + " " + id)
	score := 0.0
	if positivePattern.MatchString(matchString) {
		score += 25
	}
	if negativePattern.MatchString(matchString) {
		score -= 25
	}
	return score
}

func contentDensity(text string) float64 {
	l := len([]rune(text))
	c := countCommaVariants(text)
	charBonus := min(float64(l)/100, 3.0)
	punctBonus := min(float64(c)/5, 3.0)
	return charBonus + punctBonus
}

func countCommaVariants(text string) int {
	count := 0
	for _, r := range text {
		for _, c := range commaVariants {
			if r == c {
				count++
				break
			}
		}
	}
	return count
}

// LinkDensity is the ratio of descendant <a> canonical text length to the
// element's own canonical text length, discounting hash-only links by the
// 0.3 coefficient the teacher's getLinkDensity applies.
func LinkDensity(s *goquery.Selection) float64 {
	text := domtree.InnerText(s)
	totalLen := len([]rune(text))
	if totalLen == 0 {
		return 0
	}
	linkLen := 0.0
	s.Find("a").Each(func(_ int, a *goquery.Selection) {
		aText := domtree.InnerText(a)
		l := float64(len([]rune(aText)))
		if href, ok := a.Attr("href"); ok && strings.HasPrefix(href, "#") {
			l *= 0.3
		}
		linkLen += l
	})
	return linkLen / float64(totalLen)
}

func linkTextLen(s *goquery.Selection) int {
	total := 0
	s.Find("a").Each(func(_ int, a *goquery.Selection) {
		total += len([]rune(domtree.InnerText(a)))
	})
	return total
}

// looksLikeCode flags <pre> blocks whose character makeup resembles source
// code rather than prose: high special-character ratio, low comma/space
// ratio, over 50 characters. Grounded in the original implementation's
// calculate_score code-detection heuristic.
func looksLikeCode(n *html.Node, text string) bool {
	if domtree.NodeName(n) != "PRE" || len(text) <= 50 {
		return false
	}
	var commas, spaces, special float64
	total := float64(len(text))
	for _, r := range text {
		switch {
		case r == ',':
			commas++
		case r == ' ':
			spaces++
		case !isAlnum(r) && !isSpaceRune(r):
			special++
		}
	}
	specialRatio := special / total
	commaRatio := commas / total
	spaceRatio := spaces / total
	return specialRatio > 0.15 && commaRatio < 0.01 && spaceRatio < 0.15
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func isSpaceRune(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
