package main

import (
	"context"
	"io"

	"github.com/dkowalski/docrag"
	"github.com/dkowalski/docrag/crawl"
	"github.com/dkowalski/docrag/ingest"
	"github.com/dkowalski/docrag/rag"
	"github.com/dkowalski/docrag/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	DB       *sqlite.DB
	Store    docrag.VectorStore
	Sitemaps docrag.SitemapService
	Crawler  *crawl.Crawler
	Pipeline *ingest.Pipeline
	RAG      *rag.Service
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Log service operations to stderr"`

	Ingest IngestCmd `cmd:"" help:"Crawl a documentation site and index it"`
	Query  QueryCmd  `cmd:"" help:"Ask a question against the indexed documentation"`
	Stats  StatsCmd  `cmd:"" help:"Show collection statistics"`
}

// IngestCmd is the "ingest" subcommand.
type IngestCmd struct {
	URL        string   `arg:"" help:"Documentation site URL"`
	Collection string   `default:"docs" env:"DOCRAG_COLLECTION" help:"Target collection name"`
	MaxPages   int      `short:"m" default:"0" help:"Maximum pages to crawl (0 = no limit)"`
	Filter     []string `short:"F" name:"filter" help:"Filter URLs by regex (repeatable)"`
	Preview    bool     `short:"p" help:"Show discovered URLs without ingesting"`
}

// QueryCmd is the "query" subcommand.
type QueryCmd struct {
	Question   string  `arg:"" help:"Question to ask about the documentation"`
	Collection string  `default:"docs" env:"DOCRAG_COLLECTION" help:"Collection to search"`
	Context    string  `short:"c" help:"Extra context prepended to the search"`
	TopK       int     `short:"k" default:"0" help:"Number of chunks to retrieve (0 = default)"`
	Threshold  float32 `short:"t" default:"0" help:"Minimum similarity score (0 = default)"`
}

// StatsCmd is the "stats" subcommand.
type StatsCmd struct {
	Collection string `default:"docs" env:"DOCRAG_COLLECTION" help:"Collection to inspect"`
}
