package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PageMeta holds hierarchy metadata extracted from a page's URL and HTML.
type PageMeta struct {
	Title          string
	Module         string
	Section        string
	HierarchyLevel int
}

// ExtractMeta derives page metadata: the title from the first h1 (falling
// back to the <title> tag, then to a titleized URL slug), the module from a
// module-* or lesson-* path segment, and the section from the first h2.
func ExtractMeta(pageURL, html string) (*PageMeta, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	meta := &PageMeta{
		Module: "General",
	}

	meta.Title = strings.TrimSpace(doc.Find("h1").First().Text())
	if meta.Title == "" {
		meta.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if meta.Title == "" {
		meta.Title = titleFromSlug(pageURL)
	}

	meta.Section = strings.TrimSpace(doc.Find("h2").First().Text())

	if parsed, err := url.Parse(pageURL); err == nil {
		parts := strings.Split(parsed.Path, "/")
		meta.HierarchyLevel = len(parts)
		for _, part := range parts {
			if strings.HasPrefix(part, "module-") || strings.HasPrefix(part, "lesson-") {
				meta.Module = titleize(strings.ReplaceAll(part, "-", " "))
				break
			}
		}
	}

	return meta, nil
}

// titleFromSlug turns the last URL path segment into a readable title.
func titleFromSlug(pageURL string) string {
	slug := pageURL
	if idx := strings.LastIndex(slug, "/"); idx != -1 {
		slug = slug[idx+1:]
	}
	return titleize(strings.ReplaceAll(slug, "-", " "))
}

// titleize capitalizes the first letter of each space-separated word.
func titleize(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
