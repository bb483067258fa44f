package docrag

import (
	"context"
	"time"
)

// CrawledPage represents a documentation page produced by the crawler.
// Pages are immutable once created and are consumed only by the ingestion
// pipeline.
type CrawledPage struct {
	URL            string    `json:"url"`
	Title          string    `json:"title"`
	Module         string    `json:"module"`
	Section        string    `json:"section"`
	RawText        string    `json:"rawText"`
	HierarchyLevel int       `json:"hierarchyLevel"`
	CrawledAt      time.Time `json:"crawledAt"`
}

// Validate returns an error if the page contains invalid fields.
func (p *CrawledPage) Validate() error {
	if p.URL == "" {
		return Errorf(EINVALID, "page URL required")
	}
	if p.RawText == "" {
		return Errorf(EINVALID, "page text required")
	}
	return nil
}

// CrawlProgress reports progress during a crawl.
type CrawlProgress struct {
	URL       string
	Completed int
	Total     int
	Err       error
}

// CrawlProgressFunc is called as pages are processed.
type CrawlProgressFunc func(CrawlProgress)

// PageSource produces crawled documentation pages for a site.
// Implementations hide URL discovery, fetching, content extraction,
// and markdown conversion.
type PageSource interface {
	// CrawlSite discovers and fetches all documentation pages under baseURL.
	// The progress callback, if provided, receives events as pages complete.
	CrawlSite(ctx context.Context, baseURL string, progress CrawlProgressFunc) ([]*CrawledPage, error)
}
