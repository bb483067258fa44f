package mock

import "github.com/dkowalski/docrag"

var _ docrag.Converter = (*Converter)(nil)

// Converter is a mock implementation of docrag.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
