package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/briefwright/orchestrator/internal/models"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Fetcher retrieves pages from a brief's allowed domains and extracts their
// readable text for use as evidence.
type Fetcher struct {
	client *http.Client
}

// NewFetcher wires an HTTP client; a nil client gets a 30s timeout default.
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Fetcher{client: client}
}

// ValidateURL checks that rawURL's host is one of the allowed domains.
func ValidateURL(rawURL string, allowedDomains []string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	for _, d := range allowedDomains {
		if parsed.Host == d {
			return nil
		}
	}
	return fmt.Errorf("url not in allowed domains: %s", rawURL)
}

// Fetch retrieves one page, validates its domain against the brief, and
// returns the extracted evidence content.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, brief models.ResearchBrief) (*models.EvidencePage, error) {
	if err := ValidateURL(rawURL, brief.AllowedDomains); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("failed to fetch %s: status %d", rawURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", rawURL, err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())

	// Drop chrome that never carries evidence.
	doc.Find("script, style, nav, footer, header").Remove()

	// Prefer the main content container when one exists.
	content := doc.Find("main").First()
	if content.Length() == 0 {
		content = doc.Find("article").First()
	}
	if content.Length() == 0 {
		content = doc.Find("body").First()
	}
	if content.Length() == 0 {
		content = doc.Selection
	}

	text := extractText(content)
	return &models.EvidencePage{URL: rawURL, Title: title, Text: text}, nil
}

// extractText walks block-level elements so the output keeps line structure;
// the extraction engine scans evidence line by line.
func extractText(sel *goquery.Selection) string {
	var lines []string
	sel.Find("h1, h2, h3, h4, h5, h6, p, li, td, th, blockquote, pre").Each(func(_ int, s *goquery.Selection) {
		t := strings.TrimSpace(s.Text())
		if t != "" {
			lines = append(lines, t)
		}
	})
	if len(lines) == 0 {
		if t := strings.TrimSpace(sel.Text()); t != "" {
			lines = append(lines, t)
		}
	}
	return strings.Join(lines, "\n")
}
