package goquery_test

import (
	"testing"

	"github.com/dkowalski/docrag"
	"github.com/dkowalski/docrag/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkExtractor_ExtractLinks(t *testing.T) {
	t.Parallel()

	e := goquery.NewLinkExtractor()
	base := "https://example.com/docs/intro"

	t.Run("resolves relative links against the base URL", func(t *testing.T) {
		t.Parallel()

		html := `<a href="/docs/setup">Setup</a><a href="advanced">Advanced</a>`

		links, err := e.ExtractLinks(html, base)

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://example.com/docs/setup",
			"https://example.com/docs/advanced",
		}, links)
	})

	t.Run("filters external hosts", func(t *testing.T) {
		t.Parallel()

		html := `<a href="https://other.com/docs">External</a><a href="https://sub.example.com/docs">Subdomain</a><a href="/docs/local">Local</a>`

		links, err := e.ExtractLinks(html, base)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/docs/local"}, links)
	})

	t.Run("strips fragments and deduplicates", func(t *testing.T) {
		t.Parallel()

		html := `<a href="/docs/page#a">A</a><a href="/docs/page#b">B</a><a href="/docs/page">C</a>`

		links, err := e.ExtractLinks(html, base)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/docs/page"}, links)
	})

	t.Run("drops self-referential and non-http links", func(t *testing.T) {
		t.Parallel()

		html := `<a href="#section">Anchor</a><a href="mailto:x@example.com">Mail</a><a href="javascript:void(0)">JS</a>`

		links, err := e.ExtractLinks(html, base)

		require.NoError(t, err)
		assert.Empty(t, links)
	})

	t.Run("rejects an invalid base URL", func(t *testing.T) {
		t.Parallel()

		_, err := e.ExtractLinks("<a href='/x'>x</a>", "://bad")

		assert.Equal(t, docrag.EINVALID, docrag.ErrorCode(err))
	})
}

func TestExtractMeta(t *testing.T) {
	t.Parallel()

	t.Run("prefers the first h1 for the title", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>Tab Title</title></head><body><h1>Page Title</h1><h2>First Section</h2></body></html>`

		meta, err := goquery.ExtractMeta("https://example.com/docs/module-3/lesson-2/intro", html)

		require.NoError(t, err)
		assert.Equal(t, "Page Title", meta.Title)
		assert.Equal(t, "First Section", meta.Section)
		assert.Equal(t, "Module 3", meta.Module)
	})

	t.Run("falls back to title tag then url slug", func(t *testing.T) {
		t.Parallel()

		meta, err := goquery.ExtractMeta("https://example.com/docs/a", `<html><head><title>Tab Title</title></head><body></body></html>`)
		require.NoError(t, err)
		assert.Equal(t, "Tab Title", meta.Title)

		meta, err = goquery.ExtractMeta("https://example.com/docs/getting-started", `<html><body></body></html>`)
		require.NoError(t, err)
		assert.Equal(t, "Getting Started", meta.Title)
	})

	t.Run("defaults module and section", func(t *testing.T) {
		t.Parallel()

		meta, err := goquery.ExtractMeta("https://example.com/docs/plain", `<html><body><h1>Plain</h1></body></html>`)

		require.NoError(t, err)
		assert.Equal(t, "General", meta.Module)
		assert.Empty(t, meta.Section)
	})

	t.Run("reports hierarchy depth from the url path", func(t *testing.T) {
		t.Parallel()

		shallow, err := goquery.ExtractMeta("https://example.com/docs", "<html></html>")
		require.NoError(t, err)
		deep, err := goquery.ExtractMeta("https://example.com/docs/a/b/c", "<html></html>")
		require.NoError(t, err)

		assert.Greater(t, deep.HierarchyLevel, shallow.HierarchyLevel)
	})
}
