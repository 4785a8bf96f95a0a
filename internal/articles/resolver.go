package articles

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

const userAgent = "conversa/1.0 (+https://github.com/conversalabs/conversa)"

// Resolver fetches article context over the network: page titles for
// known URLs and recent section headlines from a publication feed.
// All methods are optional enrichment; callers treat failures as
// "no context available", never as pipeline errors.
type Resolver struct {
	client *http.Client
	parser *gofeed.Parser
}

// NewResolver creates a resolver with a conservative HTTP timeout.
func NewResolver() *Resolver {
	return &Resolver{
		client: &http.Client{Timeout: 10 * time.Second},
		parser: gofeed.NewParser(),
	}
}

// ResolveTitle fetches the article page and returns its title,
// preferring og:title over <title>.
func (r *Resolver) ResolveTitle(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("articles: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("articles: fetch %s: status %d", url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("articles: parse %s: %w", url, err)
	}

	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && strings.TrimSpace(og) != "" {
		return strings.TrimSpace(og), nil
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		return "", fmt.Errorf("articles: no title found at %s", url)
	}
	return title, nil
}

// SectionHeadlines returns up to limit recent headlines from the
// publication's RSS feed, used as extra context for dataset narration.
func (r *Resolver) SectionHeadlines(ctx context.Context, feedURL string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}
	feed, err := r.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("articles: parse feed %s: %w", feedURL, err)
	}

	headlines := make([]string, 0, limit)
	for _, item := range feed.Items {
		if item == nil || strings.TrimSpace(item.Title) == "" {
			continue
		}
		headlines = append(headlines, strings.TrimSpace(item.Title))
		if len(headlines) >= limit {
			break
		}
	}
	return headlines, nil
}
