package mock

import "github.com/dkowalski/docrag"

var _ docrag.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of docrag.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*docrag.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*docrag.ExtractResult, error) {
	return e.ExtractFn(html)
}
