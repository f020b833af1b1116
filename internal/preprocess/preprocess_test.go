package preprocess_test

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lectito/lectito/internal/domtree"
	"github.com/lectito/lectito/internal/preprocess"
)

func mustTree(t *testing.T, html string) *domtree.Tree {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return domtree.New(doc)
}

func TestRunRemovesComments(t *testing.T) {
	tree := mustTree(t, `<html><body><!-- a comment --><p>text</p></body></html>`)
	preprocess.Run(tree)
	html, err := tree.Doc.Html()
	require.NoError(t, err)
	assert.NotContains(t, html, "a comment")
}

func TestRunStripsScriptsAndStyles(t *testing.T) {
	tree := mustTree(t, `<html><head><style>.x{color:red}</style></head><body><script>alert(1)</script><p>text</p></body></html>`)
	preprocess.Run(tree)
	assert.Equal(t, 0, tree.Doc.Find("script").Length())
	assert.Equal(t, 0, tree.Doc.Find("style").Length())
}

func TestRunRemovesHiddenElements(t *testing.T) {
	tree := mustTree(t, `<html><body><div style="display:none">hidden</div><p>visible</p></body></html>`)
	preprocess.Run(tree)
	assert.Equal(t, 0, tree.Doc.Find("div").Length())
}

func TestRunRemovesUnlikelyCandidateByClass(t *testing.T) {
	tree := mustTree(t, `<html><body><div class="sidebar">nav stuff</div><article><p>real content here</p></article></body></html>`)
	preprocess.Run(tree)
	assert.Equal(t, 0, tree.Doc.Find("div.sidebar").Length())
	assert.Equal(t, 1, tree.Doc.Find("article").Length())
}

func TestRunKeepsUnlikelyCandidateWithPositiveDescendant(t *testing.T) {
	tree := mustTree(t, `<html><body><div class="sidebar-comment"><div class="article-content"><p>keep me</p></div></div></body></html>`)
	preprocess.Run(tree)
	assert.Equal(t, 1, tree.Doc.Find("div.sidebar-comment").Length())
}

func TestRunRemovesElementByUnlikelyRoleAlone(t *testing.T) {
	tree := mustTree(t, `<html><body><div role="navigation" class="content-block">nav by role only</div><article><p>real content here</p></article></body></html>`)
	preprocess.Run(tree)
	assert.Equal(t, 0, tree.Doc.Find(`div[role="navigation"]`).Length())
}

func TestRunKeepsElementWithLikelyRole(t *testing.T) {
	tree := mustTree(t, `<html><body><div role="main">keep me</div></body></html>`)
	preprocess.Run(tree)
	assert.Equal(t, 1, tree.Doc.Find(`div[role="main"]`).Length())
}

func TestRunNeverRemovesArticleTag(t *testing.T) {
	tree := mustTree(t, `<html><body><article class="comment-hidden-sidebar">content</article></body></html>`)
	preprocess.Run(tree)
	assert.Equal(t, 1, tree.Doc.Find("article").Length())
}

func TestRunRenamesFontToSpan(t *testing.T) {
	tree := mustTree(t, `<html><body><font color="red">text</font></body></html>`)
	preprocess.Run(tree)
	assert.Equal(t, 0, tree.Doc.Find("font").Length())
	assert.Equal(t, 1, tree.Doc.Find("span").Length())
}

func TestRunCollapsesDoubleBreaks(t *testing.T) {
	tree := mustTree(t, `<html><body><p>one<br><br>two</p></body></html>`)
	preprocess.Run(tree)
	assert.Equal(t, 1, tree.Doc.Find("br").Length())
}
