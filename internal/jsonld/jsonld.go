// Package jsonld implements C7: discovery and tolerant parsing of
// application/ld+json blocks. Unlike the teacher's regex-based getJSONLD
// (internal/readability/metadata.go, self-documented as a simplification),
// this walks decoded JSON directly with encoding/json so @graph wrappers
// and top-level arrays are handled structurally rather than by pattern
// matching, per spec.md §4.7 and the original Rust implementation's use of
// serde_json::Value.
package jsonld

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Record is one Article-typed JSON-LD record, with the fields the metadata
// extractor's (C6) fallback chains consult.
type Record struct {
	Headline      string
	AuthorName    string
	DatePublished string
	Description   string
	PublisherName string
	InLanguage    string
}

var articleTypes = map[string]bool{
	"Article": true, "NewsArticle": true, "BlogPosting": true,
	"AdvertiserContentArticle": true, "AnalysisNewsArticle": true,
	"AskPublicNewsArticle": true, "BackgroundNewsArticle": true,
	"OpinionNewsArticle": true, "ReportageNewsArticle": true,
	"ReviewNewsArticle": true, "Report": true, "SatiricalArticle": true,
	"ScholarlyArticle": true, "MedicalScholarlyArticle": true,
	"SocialMediaPosting": true, "LiveBlogPosting": true,
	"DiscussionForumPosting": true, "TechArticle": true, "APIReference": true,
}

// Extract finds every <script type="application/ld+json"> node in doc and
// returns the first Article-typed record found in document order. A
// malformed block is skipped, not fatal, per spec.md §4.7/§9.
func Extract(doc *goquery.Selection) (*Record, bool) {
	var found *Record
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		rec := parseBlock(s.Text())
		if rec != nil {
			found = rec
			return false
		}
		return true
	})
	return found, found != nil
}

// parseBlock isolates one block's parse in its own scope: any failure
// (malformed JSON, no qualifying record) returns nil rather than
// propagating an error, so one bad block never poisons the others.
func parseBlock(raw string) *Record {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var top any
	if err := json.Unmarshal([]byte(raw), &top); err != nil {
		return nil
	}

	for _, obj := range flatten(top) {
		if rec := recordFromObject(obj); rec != nil {
			return rec
		}
	}
	return nil
}

// flatten walks a decoded JSON-LD value, unwrapping top-level arrays and
// @graph containers, and returns every object found along the way.
func flatten(v any) []map[string]any {
	var out []map[string]any
	switch t := v.(type) {
	case map[string]any:
		out = append(out, t)
		if graph, ok := t["@graph"]; ok {
			out = append(out, flatten(graph)...)
		}
	case []any:
		for _, item := range t {
			out = append(out, flatten(item)...)
		}
	}
	return out
}

func recordFromObject(obj map[string]any) *Record {
	if !matchesArticleType(obj["@type"]) {
		return nil
	}
	rec := &Record{
		Headline:      stringField(obj["headline"]),
		DatePublished: stringField(obj["datePublished"]),
		Description:   stringField(obj["description"]),
		InLanguage:    stringField(obj["inLanguage"]),
	}
	rec.AuthorName = nameOf(obj["author"])
	rec.PublisherName = nameOf(obj["publisher"])
	return rec
}

func matchesArticleType(v any) bool {
	switch t := v.(type) {
	case string:
		return articleTypes[t]
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && articleTypes[s] {
				return true
			}
		}
	}
	return false
}

// nameOf resolves an author/publisher field, which JSON-LD allows to be
// either a plain string or an object/array of objects carrying a "name".
func nameOf(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		return stringField(t["name"])
	case []any:
		for _, item := range t {
			if name := nameOf(item); name != "" {
				return name
			}
		}
	}
	return ""
}

func stringField(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}
