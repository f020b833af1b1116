// Package metadata implements C6: title/author/date/excerpt/site/language
// extraction via the fallback priority chains in spec.md §4.6. Each chain
// is a list of XPath 1.0 expressions evaluated in priority order with
// antchfx/htmlquery + antchfx/xpath, first non-empty result wins — the
// real XPath evaluation the teacher's go.mod declared but never actually
// imported (internal/extractors instead hand-rolled a CSS-selector
// approximation). This is the mechanism spec.md §9's Site-config escape
// hatch design note describes the FTR collaborator plugging into.
package metadata

import (
	"html"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	nhtml "golang.org/x/net/html"

	"github.com/antchfx/htmlquery"

	"github.com/lectito/lectito/internal/jsonld"
)

// Metadata is C6's output: the optional fields of the Article value.
type Metadata struct {
	Title            string
	Author           string
	PublishedDate    string // best-effort ISO-8601 normalization
	PublishedDateRaw string // always preserved, per spec.md §9's Open Question 2
	Excerpt          string
	SiteName         string
	Language         string
}

// Extract runs every fallback chain against the original document. firstH1
// is the first <h1> in the chosen content subtree (may be nil if selection
// failed, e.g. when called standalone via the public ExtractMetadata API).
// contentRoot is the selected/cleaned content subtree the excerpt and
// in-content date chains are scoped to, per spec.md §4.6 ("first paragraph
// of the content subtree", "<time datetime=…> in content"); it falls back
// to root when no subtree has been chosen yet, e.g. the standalone
// ExtractMetadata API.
func Extract(root *nhtml.Node, contentRoot *nhtml.Node, baseURL *url.URL, firstH1 *nhtml.Node) Metadata {
	ld, _ := jsonld.Extract(goquery.NewDocumentFromNode(root).Selection)

	scope := contentRoot
	if scope == nil {
		scope = root
	}

	m := Metadata{}
	m.SiteName = firstNonEmpty(
		metaContent(root, "og:site_name"),
		ldPublisherName(ld),
		hostLabel(baseURL),
	)
	m.Title = firstNonEmpty(
		ldHeadline(ld),
		metaContent(root, "og:title"),
		metaName(root, "twitter:title"),
		metaName(root, "title"),
		h1Text(firstH1),
		trimSiteSuffix(titleTagText(root), m.SiteName),
	)
	m.Author = firstNonEmpty(
		ldAuthorName(ld),
		metaName(root, "author"),
		metaContent(root, "article:author"),
		relAuthorText(root),
		bylineClassText(root),
	)
	rawDate := firstNonEmpty(
		ldDatePublished(ld),
		metaContent(root, "article:published_time"),
		timeDatetimeAttr(scope),
		metaName(root, "date"),
	)
	m.PublishedDateRaw = rawDate
	m.PublishedDate = normalizeDate(rawDate)
	m.Excerpt = firstNonEmpty(
		metaName(root, "description"),
		metaContent(root, "og:description"),
		ldDescription(ld),
		firstParagraphExcerpt(scope),
	)
	m.Language = firstNonEmpty(
		htmlLangAttr(root),
		metaHTTPEquiv(root, "content-language"),
		ldInLanguage(ld),
	)
	return m
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		v = strings.TrimSpace(v)
		if v != "" {
			return html.UnescapeString(v)
		}
	}
	return ""
}

func query(root *nhtml.Node, expr string) *nhtml.Node {
	n, err := htmlquery.Query(root, expr)
	if err != nil || n == nil {
		return nil
	}
	return n
}

func queryText(root *nhtml.Node, expr string) string {
	n := query(root, expr)
	if n == nil {
		return ""
	}
	return strings.TrimSpace(htmlquery.InnerText(n))
}

func metaContent(root *nhtml.Node, property string) string {
	return queryText(root, `//meta[@property="`+property+`"]/@content`)
}

func metaName(root *nhtml.Node, name string) string {
	return queryText(root, `//meta[@name="`+name+`"]/@content`)
}

func metaHTTPEquiv(root *nhtml.Node, name string) string {
	return queryText(root, `//meta[@http-equiv="`+name+`"]/@content`)
}

func h1Text(n *nhtml.Node) string {
	if n == nil {
		return ""
	}
	return strings.TrimSpace(htmlquery.InnerText(n))
}

func titleTagText(root *nhtml.Node) string {
	return queryText(root, "//title")
}

// trimSiteSuffix strips a trailing " — site" / " | site" / " - site" when
// site_name is known, per spec.md §4.6's title chain.
func trimSiteSuffix(title, siteName string) string {
	if title == "" || siteName == "" {
		return title
	}
	for _, sep := range []string{" — ", " | ", " - "} {
		if idx := strings.LastIndex(title, sep+siteName); idx >= 0 {
			return title[:idx]
		}
	}
	return title
}

func relAuthorText(root *nhtml.Node) string {
	return queryText(root, `//a[@rel="author"]`)
}

func bylineClassText(root *nhtml.Node) string {
	if v := queryText(root, `//*[contains(@class,"byline")]`); v != "" {
		return v
	}
	return queryText(root, `//*[contains(@class,"author")]`)
}

func timeDatetimeAttr(root *nhtml.Node) string {
	return queryText(root, "//time/@datetime")
}

func htmlLangAttr(root *nhtml.Node) string {
	return queryText(root, "//html/@lang")
}

func firstParagraphExcerpt(root *nhtml.Node) string {
	text := queryText(root, "//p")
	return truncateOnWordBoundary(text, 200)
}

func truncateOnWordBoundary(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := s[:max]
	if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimSpace(cut) + "…"
}

func hostLabel(base *url.URL) string {
	if base == nil {
		return ""
	}
	return strings.TrimPrefix(base.Hostname(), "www.")
}

// dateLayouts lists the shapes a best-effort normalization attempts before
// falling back to the raw string, per spec.md §9's Open Question 2.
var dateLayouts = []string{
	time.RFC3339,
	time.RFC1123,
	time.RFC1123Z,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"02 Jan 2006",
}

func normalizeDate(raw string) string {
	if raw == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(time.RFC3339)
		}
	}
	return raw
}

func ldHeadline(r *jsonld.Record) string {
	if r == nil {
		return ""
	}
	return r.Headline
}

func ldAuthorName(r *jsonld.Record) string {
	if r == nil {
		return ""
	}
	return r.AuthorName
}

func ldDatePublished(r *jsonld.Record) string {
	if r == nil {
		return ""
	}
	return r.DatePublished
}

func ldDescription(r *jsonld.Record) string {
	if r == nil {
		return ""
	}
	return r.Description
}

func ldPublisherName(r *jsonld.Record) string {
	if r == nil {
		return ""
	}
	return r.PublisherName
}

func ldInLanguage(r *jsonld.Record) string {
	if r == nil {
		return ""
	}
	return r.InLanguage
}
