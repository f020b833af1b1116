package lectito_test

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lectito/lectito"
)

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

// TestParseSemanticArticle is spec.md §8 scenario 1.
func TestParseSemanticArticle(t *testing.T) {
	prose := strings.Repeat("word ", 120)
	html := `<html><body><article class="post"><h1>T</h1><p>` + prose + `</p></article></body></html>`

	article, err := lectito.Parse(parseDoc(t, html), lectito.NewConfig(lectito.WithMinScore(20)))
	require.NoError(t, err)

	assert.Equal(t, "T", article.Metadata.Title)
	assert.Greater(t, article.WordCount, 50)
	assert.GreaterOrEqual(t, article.ReadabilityScore, 20.0)
	assert.Contains(t, article.Content, "<h1>")
	assert.Contains(t, article.Content, "<p>")
}

// TestParseRejectsThinNavigation is spec.md §8 scenario 2.
func TestParseRejectsThinNavigation(t *testing.T) {
	html := `<html><body><nav><a href="x">x</a><a href="y">y</a></nav></body></html>`

	_, err := lectito.Parse(parseDoc(t, html), lectito.DefaultConfig())
	require.Error(t, err)
}

// TestParseSiblingInclusion is spec.md §8 scenario 3.
func TestParseSiblingInclusion(t *testing.T) {
	prose := strings.Repeat("word ", 80)
	outside := strings.Repeat("prose ", 60)
	html := `<html><body><div class="post">` +
		`<p>` + prose + `</p><p>` + prose + `</p><p>` + prose + `</p></div>` +
		`<p>` + outside + `</p></body></html>`

	article, err := lectito.Parse(parseDoc(t, html), lectito.NewConfig(lectito.WithMinScore(10)))
	require.NoError(t, err)
	assert.Contains(t, article.Content, "prose")
}

// TestParseMetadataFallback is spec.md §8 scenario 5.
func TestParseMetadataFallback(t *testing.T) {
	prose := strings.Repeat("word ", 120)
	html := `<html><head><meta property="og:title" content="OG"><title>Fallback</title></head>` +
		`<body><article><p>` + prose + `</p></article></body></html>`

	article, err := lectito.Parse(parseDoc(t, html), lectito.NewConfig(lectito.WithMinScore(5)))
	require.NoError(t, err)
	assert.Equal(t, "OG", article.Metadata.Title)
}

// TestParseJSONLDWinsOverMeta is spec.md §8 scenario 6.
func TestParseJSONLDWinsOverMeta(t *testing.T) {
	prose := strings.Repeat("word ", 120)
	html := `<html><head>` +
		`<script type="application/ld+json">{"@type":"Article","headline":"JL","author":{"name":"A"}}</script>` +
		`<meta property="og:title" content="OG"></head>` +
		`<body><article><p>` + prose + `</p></article></body></html>`

	article, err := lectito.Parse(parseDoc(t, html), lectito.NewConfig(lectito.WithMinScore(5)))
	require.NoError(t, err)
	assert.Equal(t, "JL", article.Metadata.Title)
	assert.Equal(t, "A", article.Metadata.Author)
}

func TestIsProbablyReadable(t *testing.T) {
	prose := strings.Repeat("word ", 120)
	readable := `<html><body><article class="post"><p>` + prose + `</p></article></body></html>`
	unreadable := `<html><body><nav><a href="x">x</a></nav></body></html>`

	assert.True(t, lectito.IsProbablyReadable(parseDoc(t, readable), lectito.DefaultConfig()))
	assert.False(t, lectito.IsProbablyReadable(parseDoc(t, unreadable), lectito.DefaultConfig()))
}
