package lectito

// Metadata carries the optional fields spec.md §3 attaches to an Article:
// resolved via C6's fallback priority chains, trimmed, with HTML entities
// decoded. Absent fields are the zero value.
type Metadata struct {
	Title    string
	Author   string
	Excerpt  string
	SiteName string
	Language string // BCP-47 when available

	// PublishedDate is a best-effort ISO-8601 normalization of the
	// resolved date string. PublishedDateRaw always preserves the
	// original, unnormalized value per spec.md §9's Open Question 2:
	// "if parsing fails, return the raw string."
	PublishedDate    string
	PublishedDateRaw string
}

// Article is the terminal output of C8, matching spec.md §3's Article
// value.
type Article struct {
	// Content is the cleaned HTML fragment: a subtree rooted at a
	// synthesized container, disjoint from the original document.
	Content string
	// TextContent is the plain text extracted from Content.
	TextContent string
	// WordCount is the whitespace-delimited token count of TextContent.
	WordCount int
	// ReadabilityScore is the score of the chosen top candidate.
	ReadabilityScore float64
	// Metadata is the resolved optional metadata fields.
	Metadata Metadata
}
