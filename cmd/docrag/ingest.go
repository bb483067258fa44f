package main

import (
	"fmt"
	"regexp"

	"github.com/dkowalski/docrag"
)

// Run executes the ingest command.
func (c *IngestCmd) Run(deps *Dependencies) error {
	// Compile filters to URLFilter (validates regex patterns early)
	var urlFilter *docrag.URLFilter
	if len(c.Filter) > 0 {
		urlFilter = &docrag.URLFilter{}
		for _, pattern := range c.Filter {
			re, err := regexp.Compile(pattern)
			if err != nil {
				fmt.Fprintf(deps.Stderr, "error: invalid filter pattern %q: %v\n", pattern, err)
				return err
			}
			urlFilter.Include = append(urlFilter.Include, re)
		}
	}

	// Preview mode: show discovered URLs without ingesting
	if c.Preview {
		urls, err := deps.Sitemaps.DiscoverURLs(deps.Ctx, c.URL, urlFilter)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docrag.ErrorMessage(err))
			return err
		}
		for _, u := range urls {
			fmt.Fprintln(deps.Stdout, u)
		}
		return nil
	}

	if urlFilter != nil {
		deps.Crawler.Filter = urlFilter
	}

	var announced bool
	progress := func(event docrag.CrawlProgress) {
		if !announced && event.Total > 0 {
			fmt.Fprintf(deps.Stdout, "  Found %d URLs\n", event.Total)
			announced = true
		}
		if event.Err != nil {
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", event.URL, event.Err)
		}
	}

	pages, err := deps.Crawler.CrawlSite(deps.Ctx, c.URL, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error crawling: %s\n", docrag.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "  Crawled %d pages\n", len(pages))

	result, err := deps.Pipeline.Ingest(deps.Ctx, pages)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error ingesting: %s\n", docrag.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "  Indexed %d chunks into %q (%d deduplicated, %d embeddings stored)\n",
		result.ChunksCreated, c.Collection, result.ChunksDeduplicated, result.EmbeddingsStored)
	return nil
}
