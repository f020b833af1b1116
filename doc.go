/*
Package lectito extracts the main article body and associated metadata
from an arbitrary HTML document, discarding navigation, sidebars,
advertising, comments, and other boilerplate. It is a pure, single-pass
readability pipeline designed for feeding clean prose to downstream
consumers: readers, language models, archives.

Basic usage:

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlString))
	if err != nil {
		// handle error
	}

	article, err := lectito.Parse(doc, lectito.DefaultConfig())
	if err != nil {
		// handle error, possibly *errs.NotReaderable
	}

	fmt.Println(article.Metadata.Title)
	fmt.Println(article.Content)

Configuration uses functional options:

	cfg := lectito.NewConfig(
		lectito.WithMinScore(15),
		lectito.WithCharThreshold(250),
		lectito.WithBaseURL(baseURL),
	)
	article, err := lectito.Parse(doc, cfg)

The pipeline has no cancellation token and performs no I/O: it consumes an
already-parsed DOM and produces an in-memory Article value. Callers needing
timeouts should bound the preceding fetch/parse stage themselves.
*/
package lectito
