package http_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/dkowalski/docrag"
	docraghttp "github.com/dkowalski/docrag/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSitemapService_DiscoverURLs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("discovers urls from robots.txt sitemap directive", func(t *testing.T) {
		t.Parallel()

		var srv *httptest.Server
		srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/robots.txt":
				fmt.Fprintf(w, "User-agent: *\nSitemap: %s/sitemap.xml\n", srv.URL)
			case "/sitemap.xml":
				fmt.Fprintf(w, `<?xml version="1.0"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>%s/docs/intro</loc></url>
  <url><loc>%s/docs/setup</loc></url>
</urlset>`, srv.URL, srv.URL)
			default:
				http.NotFound(w, r)
			}
		}))
		defer srv.Close()

		s := docraghttp.NewSitemapService(srv.Client())

		urls, err := s.DiscoverURLs(ctx, srv.URL, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/docs/intro", srv.URL + "/docs/setup"}, urls)
	})

	t.Run("falls back to sitemap.xml without robots.txt", func(t *testing.T) {
		t.Parallel()

		var srv *httptest.Server
		srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/sitemap.xml":
				fmt.Fprintf(w, `<?xml version="1.0"?>
<urlset><url><loc>%s/docs/only</loc></url></urlset>`, srv.URL)
			default:
				http.NotFound(w, r)
			}
		}))
		defer srv.Close()

		s := docraghttp.NewSitemapService(srv.Client())

		urls, err := s.DiscoverURLs(ctx, srv.URL, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/docs/only"}, urls)
	})

	t.Run("resolves sitemap indexes recursively", func(t *testing.T) {
		t.Parallel()

		var srv *httptest.Server
		srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/sitemap.xml":
				fmt.Fprintf(w, `<?xml version="1.0"?>
<sitemapindex>
  <sitemap><loc>%s/sitemap-docs.xml</loc></sitemap>
</sitemapindex>`, srv.URL)
			case "/sitemap-docs.xml":
				fmt.Fprintf(w, `<?xml version="1.0"?>
<urlset><url><loc>%s/docs/nested</loc></url></urlset>`, srv.URL)
			default:
				http.NotFound(w, r)
			}
		}))
		defer srv.Close()

		s := docraghttp.NewSitemapService(srv.Client())

		urls, err := s.DiscoverURLs(ctx, srv.URL, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/docs/nested"}, urls)
	})

	t.Run("returns empty slice when no sitemap exists", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.NotFoundHandler())
		defer srv.Close()

		s := docraghttp.NewSitemapService(srv.Client())

		urls, err := s.DiscoverURLs(ctx, srv.URL, nil)

		require.NoError(t, err)
		assert.Empty(t, urls)
		assert.NotNil(t, urls)
	})

	t.Run("filters by base url path prefix", func(t *testing.T) {
		t.Parallel()

		var srv *httptest.Server
		srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/sitemap.xml":
				fmt.Fprintf(w, `<?xml version="1.0"?>
<urlset>
  <url><loc>%s/docs/intro</loc></url>
  <url><loc>%s/blog/post</loc></url>
  <url><loc>%s/documentation/other</loc></url>
</urlset>`, srv.URL, srv.URL, srv.URL)
			default:
				http.NotFound(w, r)
			}
		}))
		defer srv.Close()

		s := docraghttp.NewSitemapService(srv.Client())

		urls, err := s.DiscoverURLs(ctx, srv.URL+"/docs", nil)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/docs/intro"}, urls)
	})

	t.Run("applies the user filter", func(t *testing.T) {
		t.Parallel()

		var srv *httptest.Server
		srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/sitemap.xml":
				fmt.Fprintf(w, `<?xml version="1.0"?>
<urlset>
  <url><loc>%s/docs/keep</loc></url>
  <url><loc>%s/docs/skip</loc></url>
</urlset>`, srv.URL, srv.URL)
			default:
				http.NotFound(w, r)
			}
		}))
		defer srv.Close()

		s := docraghttp.NewSitemapService(srv.Client())
		filter := &docrag.URLFilter{
			Exclude: []*regexp.Regexp{regexp.MustCompile(`/skip$`)},
		}

		urls, err := s.DiscoverURLs(ctx, srv.URL, filter)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/docs/keep"}, urls)
	})
}
