package metadata_test

import (
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lectito/lectito/internal/metadata"
)

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtractPrefersJSONLDTitleOverMeta(t *testing.T) {
	doc := parseDoc(t, `<html><head>
		<script type="application/ld+json">{"@type":"Article","headline":"JL Title"}</script>
		<meta property="og:title" content="OG Title">
		<title>Tag Title</title>
	</head><body></body></html>`)

	m := metadata.Extract(doc.Get(0), nil, nil, nil)
	assert.Equal(t, "JL Title", m.Title)
}

func TestExtractFallsBackThroughChain(t *testing.T) {
	doc := parseDoc(t, `<html><head><title>Fallback Title</title></head><body></body></html>`)
	m := metadata.Extract(doc.Get(0), nil, nil, nil)
	assert.Equal(t, "Fallback Title", m.Title)
}

func TestExtractTrimsSiteSuffixFromTitleTag(t *testing.T) {
	doc := parseDoc(t, `<html><head>
		<meta property="og:site_name" content="Example News">
		<title>Big Story Today - Example News</title>
	</head><body></body></html>`)
	m := metadata.Extract(doc.Get(0), nil, nil, nil)
	assert.Equal(t, "Big Story Today", m.Title)
	assert.Equal(t, "Example News", m.SiteName)
}

func TestExtractSiteNameFallsBackToHost(t *testing.T) {
	base, err := url.Parse("https://www.example.com/a/b")
	require.NoError(t, err)
	doc := parseDoc(t, `<html><head><title>T</title></head><body></body></html>`)
	m := metadata.Extract(doc.Get(0), nil, base, nil)
	assert.Equal(t, "example.com", m.SiteName)
}

func TestExtractAuthorFromRelAuthorLink(t *testing.T) {
	doc := parseDoc(t, `<html><body><a rel="author">Jane Doe</a></body></html>`)
	m := metadata.Extract(doc.Get(0), nil, nil, nil)
	assert.Equal(t, "Jane Doe", m.Author)
}

func TestExtractDateNormalizesISO(t *testing.T) {
	doc := parseDoc(t, `<html><head><meta property="article:published_time" content="2024-03-05T10:00:00Z"></head><body></body></html>`)
	m := metadata.Extract(doc.Get(0), nil, nil, nil)
	assert.Equal(t, "2024-03-05T10:00:00Z", m.PublishedDate)
	assert.Equal(t, "2024-03-05T10:00:00Z", m.PublishedDateRaw)
}

func TestExtractDatePreservesRawWhenUnparseable(t *testing.T) {
	doc := parseDoc(t, `<html><head><meta name="date" content="sometime last week"></head><body></body></html>`)
	m := metadata.Extract(doc.Get(0), nil, nil, nil)
	assert.Equal(t, "sometime last week", m.PublishedDateRaw)
	assert.Equal(t, "sometime last week", m.PublishedDate)
}

func TestExtractExcerptFromFirstParagraph(t *testing.T) {
	doc := parseDoc(t, `<html><body><p>`+strings.Repeat("word ", 60)+`</p></body></html>`)
	m := metadata.Extract(doc.Get(0), nil, nil, nil)
	assert.NotEmpty(t, m.Excerpt)
	assert.LessOrEqual(t, len([]rune(m.Excerpt)), 201)
}

func TestExtractLanguageFromHTMLLangAttr(t *testing.T) {
	doc := parseDoc(t, `<html lang="fr"><body></body></html>`)
	m := metadata.Extract(doc.Get(0), nil, nil, nil)
	assert.Equal(t, "fr", m.Language)
}

func TestExtractTitleFallsBackToH1WhenNoHeadMetadata(t *testing.T) {
	doc := parseDoc(t, `<html><body><article><h1>Heading Title</h1></article></body></html>`)
	h1 := doc.Find("h1").Get(0)
	m := metadata.Extract(doc.Get(0), nil, nil, h1)
	assert.Equal(t, "Heading Title", m.Title)
}

// TestExtractExcerptScopedToContentSubtree confirms the excerpt chain's
// "first paragraph" fallback reads from the selected content subtree, not
// an earlier-in-document-order paragraph living outside it (a sidebar
// teaser, say), when a content subtree is supplied.
func TestExtractExcerptScopedToContentSubtree(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<aside><p>Sidebar teaser text that appears first in document order.</p></aside>
		<article><p>The actual article's opening paragraph.</p></article>
	</body></html>`)
	contentRoot := doc.Find("article").Get(0)

	withScope := metadata.Extract(doc.Get(0), contentRoot, nil, nil)
	assert.Contains(t, withScope.Excerpt, "actual article")

	withoutScope := metadata.Extract(doc.Get(0), nil, nil, nil)
	assert.Contains(t, withoutScope.Excerpt, "Sidebar teaser")
}

// TestExtractDateScopedToContentSubtree confirms the in-content <time>
// fallback reads from the content subtree rather than an out-of-content
// <time> tag (e.g. a related-articles widget) earlier in the document.
func TestExtractDateScopedToContentSubtree(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<aside><time datetime="2020-01-01T00:00:00Z">old</time></aside>
		<article><time datetime="2024-06-15T12:00:00Z">june</time></article>
	</body></html>`)
	contentRoot := doc.Find("article").Get(0)

	withScope := metadata.Extract(doc.Get(0), contentRoot, nil, nil)
	assert.Equal(t, "2024-06-15T12:00:00Z", withScope.PublishedDateRaw)

	withoutScope := metadata.Extract(doc.Get(0), nil, nil, nil)
	assert.Equal(t, "2020-01-01T00:00:00Z", withoutScope.PublishedDateRaw)
}
