package mock

import (
	"context"

	"github.com/dkowalski/docrag"
)

var _ docrag.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of docrag.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *docrag.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *docrag.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}

var _ docrag.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of docrag.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html string, baseURL string) ([]string, error)
}

func (l *LinkExtractor) ExtractLinks(html string, baseURL string) ([]string, error) {
	return l.ExtractLinksFn(html, baseURL)
}
