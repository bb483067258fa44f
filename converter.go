package docrag

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms clean HTML content (e.g., from an Extractor)
	// into Markdown.
	Convert(html string) (string, error)
}
