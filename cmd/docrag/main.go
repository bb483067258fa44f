package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/dkowalski/docrag"
	"github.com/dkowalski/docrag/crawl"
	"github.com/dkowalski/docrag/gemini"
	"github.com/dkowalski/docrag/goquery"
	"github.com/dkowalski/docrag/htmltomarkdown"
	dochttp "github.com/dkowalski/docrag/http"
	"github.com/dkowalski/docrag/ingest"
	"github.com/dkowalski/docrag/rag"
	"github.com/dkowalski/docrag/retry"
	docslog "github.com/dkowalski/docrag/slog"
	"github.com/dkowalski/docrag/sqlite"
	"github.com/dkowalski/docrag/trafilatura"
	"google.golang.org/genai"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// Pipeline configuration. Defaults to docrag.DefaultConfig().
	Config docrag.Config

	// SQLite database backing the vector store.
	DB *sqlite.DB

	// Vector store for end-to-end testing.
	Store docrag.VectorStore
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
		Config: docrag.DefaultConfig(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docrag"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'docrag --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	if err := m.Config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Open database
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set DOCRAG_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	var logger *slog.Logger
	if cli.Verbose {
		logger = slog.New(slog.NewTextHandler(stderr, nil))
	}

	// Wire core services into dependencies
	m.Store = sqlite.NewVectorStore(m.DB)
	if logger != nil {
		m.Store = docslog.NewLoggingVectorStore(m.Store, logger)
	}
	deps.DB = m.DB
	deps.Store = m.Store
	deps.Sitemaps = dochttp.NewSitemapService(nil)
	if logger != nil {
		deps.Sitemaps = docslog.NewLoggingSitemapService(deps.Sitemaps, logger)
	}

	// Wire command-specific dependencies based on command
	if cmd == "ingest" && !cli.Ingest.Preview {
		client, err := m.geminiClient(ctx, stderr)
		if err != nil {
			return err
		}

		tokenCounter, err := gemini.NewTokenCounter(tokenizerModel)
		if err != nil {
			return fmt.Errorf("failed to create token counter: %w", err)
		}

		embedder := m.embedder(client, logger)

		deps.Crawler = &crawl.Crawler{
			Fetcher:   dochttp.NewFetcher(),
			Extractor: trafilatura.NewExtractor(),
			Converter: htmltomarkdown.NewConverter(),
			Sitemap:   deps.Sitemaps,
			Links:     goquery.NewLinkExtractor(),
			Limiter:   crawl.NewDomainLimiter(1.0),
			MaxPages:  cli.Ingest.MaxPages,
			Logger:    logger,
		}

		deps.Pipeline = ingest.NewPipeline(m.Config, tokenCounter, embedder, deps.Store, cli.Ingest.Collection)
	}

	if cmd == "query" {
		client, err := m.geminiClient(ctx, stderr)
		if err != nil {
			return err
		}

		embedder := m.embedder(client, logger)
		generator := gemini.NewGenerator(client)

		deps.RAG = rag.NewService(m.Config, embedder, deps.Store, generator, cli.Query.Collection)
	}

	return kongCtx.Run(deps)
}

// geminiClient connects to the Gemini API using GEMINI_API_KEY.
func (m *Main) geminiClient(ctx context.Context, stderr io.Writer) (*genai.Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
		return nil, fmt.Errorf("GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
		return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
	}
	return client, nil
}

// embedder builds the embedding chain: Gemini client wrapped with retries
// and, when verbose, operation logging.
func (m *Main) embedder(client *genai.Client, logger *slog.Logger) docrag.Embedder {
	var e docrag.Embedder = gemini.NewEmbedder(client, m.Config.EmbeddingDimension)
	e = retry.NewEmbedder(e, retry.PolicyFromConfig(m.Config))
	if logger != nil {
		e = docslog.NewLoggingEmbedder(e, logger)
	}
	return e
}

// tokenizerModel is used for token counting during chunk assembly.
const tokenizerModel = "gemini-2.5-flash"

func defaultDBPath() string {
	if path := os.Getenv("DOCRAG_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "docrag.db"
	}
	dir := filepath.Join(home, ".docrag")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "docrag.db")
}
