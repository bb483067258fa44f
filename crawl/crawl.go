// Package crawl implements documentation site crawling: URL discovery via
// sitemaps with a breadth-first fallback, polite fetching with retries and
// per-domain rate limits, and content extraction into crawled pages.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"time"

	"github.com/dkowalski/docrag"
	"github.com/dkowalski/docrag/goquery"
)

// expectedURLs sizes the discovery frontier's Bloom filter.
const expectedURLs = 100_000

// Compile-time interface verification.
var _ docrag.PageSource = (*Crawler)(nil)

// Crawler implements docrag.PageSource. URL discovery prefers the site's
// sitemap and falls back to breadth-first link walking when no sitemap
// exists.
type Crawler struct {
	Fetcher   docrag.Fetcher
	Extractor docrag.Extractor
	Converter docrag.Converter
	Sitemap   docrag.SitemapService
	Links     docrag.LinkExtractor
	Limiter   docrag.DomainLimiter

	// Filter restricts which discovered URLs are crawled. Defaults to
	// DefaultURLFilter.
	Filter *docrag.URLFilter

	// MaxPages caps the number of pages crawled. Zero means no cap.
	MaxPages int

	// RetryDelays is the fetch backoff schedule. Defaults to
	// DefaultRetryDelays.
	RetryDelays []time.Duration

	Logger *slog.Logger
}

// DefaultURLFilter matches conventional documentation paths.
func DefaultURLFilter() *docrag.URLFilter {
	return &docrag.URLFilter{
		Include: []*regexp.Regexp{
			regexp.MustCompile(`(?i)/docs`),
			regexp.MustCompile(`(?i)/documentation`),
			regexp.MustCompile(`(?i)/guide`),
			regexp.MustCompile(`(?i)/manual`),
		},
	}
}

// CrawlSite discovers and fetches all documentation pages under baseURL.
// Individual page failures are logged and skipped; the crawl continues.
func (c *Crawler) CrawlSite(ctx context.Context, baseURL string, progress docrag.CrawlProgressFunc) ([]*docrag.CrawledPage, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, docrag.Errorf(docrag.EINVALID, "invalid base URL: %v", err)
	}

	urls, err := c.discoverURLs(ctx, baseURL, base.Host)
	if err != nil {
		return nil, err
	}
	if c.MaxPages > 0 && len(urls) > c.MaxPages {
		urls = urls[:c.MaxPages]
	}

	var pages []*docrag.CrawledPage
	for i, pageURL := range urls {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := c.crawlPage(ctx, base.Host, pageURL)
		if progress != nil {
			progress(docrag.CrawlProgress{
				URL:       pageURL,
				Completed: i + 1,
				Total:     len(urls),
				Err:       err,
			})
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.log("page skipped", "url", pageURL, "err", err)
			continue
		}
		pages = append(pages, page)
	}

	return pages, nil
}

// discoverURLs lists candidate page URLs, preferring the sitemap.
func (c *Crawler) discoverURLs(ctx context.Context, baseURL, host string) ([]string, error) {
	filter := c.Filter
	if filter == nil {
		filter = DefaultURLFilter()
	}

	if c.Sitemap != nil {
		urls, err := c.Sitemap.DiscoverURLs(ctx, baseURL, filter)
		if err == nil && len(urls) > 0 {
			c.log("sitemap discovery", "url", baseURL, "count", len(urls))
			return urls, nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.log("sitemap discovery failed, walking links", "url", baseURL, "err", err)
		}
	}

	return c.walkLinks(ctx, baseURL, host, filter)
}

// walkLinks discovers URLs breadth-first from the base page.
func (c *Crawler) walkLinks(ctx context.Context, baseURL, host string, filter *docrag.URLFilter) ([]string, error) {
	frontier := NewFrontier(expectedURLs, 0.01)
	frontier.Push(baseURL)

	var discovered []string
	for {
		if c.MaxPages > 0 && len(discovered) >= c.MaxPages {
			break
		}
		current, ok := frontier.Pop()
		if !ok {
			break
		}
		discovered = append(discovered, current)

		html, err := c.fetch(ctx, host, current)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.log("discovery fetch failed", "url", current, "err", err)
			continue
		}

		links, err := c.Links.ExtractLinks(html, current)
		if err != nil {
			c.log("link extraction failed", "url", current, "err", err)
			continue
		}
		for _, link := range links {
			if filter.Match(link) {
				frontier.Push(link)
			}
		}
	}

	return discovered, nil
}

// crawlPage fetches one URL and converts it into a CrawledPage.
func (c *Crawler) crawlPage(ctx context.Context, host, pageURL string) (*docrag.CrawledPage, error) {
	html, err := c.fetch(ctx, host, pageURL)
	if err != nil {
		return nil, err
	}

	meta, err := goquery.ExtractMeta(pageURL, html)
	if err != nil {
		return nil, err
	}

	extracted, err := c.Extractor.Extract(html)
	if err != nil {
		return nil, err
	}

	markdown, err := c.Converter.Convert(extracted.ContentHTML)
	if err != nil {
		return nil, err
	}

	title := extracted.Title
	if title == "" {
		title = meta.Title
	}
	section := meta.Section
	if section == "" {
		section = docrag.FirstSection(markdown)
	}

	page := &docrag.CrawledPage{
		URL:            pageURL,
		Title:          title,
		Module:         meta.Module,
		Section:        section,
		RawText:        markdown,
		HierarchyLevel: meta.HierarchyLevel,
		CrawledAt:      time.Now().UTC(),
	}
	if err := page.Validate(); err != nil {
		return nil, err
	}
	return page, nil
}

// fetch applies the rate limit and retry schedule around the fetcher.
func (c *Crawler) fetch(ctx context.Context, host, pageURL string) (string, error) {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx, host); err != nil {
			return "", err
		}
	}

	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}

	var logger LogFunc
	if c.Logger != nil {
		logger = func(format string, args ...any) {
			c.Logger.Debug(fmt.Sprintf(format, args...))
		}
	}

	return FetchWithRetry(ctx, pageURL, c.Fetcher.Fetch, logger, delays)
}

func (c *Crawler) log(msg string, args ...any) {
	if c.Logger != nil {
		c.Logger.Info(msg, args...)
	}
}
