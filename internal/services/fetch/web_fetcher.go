package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"

	"github.com/francids/escruta/internal/common"
	"github.com/francids/escruta/internal/interfaces"
	"github.com/francids/escruta/internal/models"
)

// WebFetcher retrieves a single page over HTTP and reduces it to a title
// and a markup-free text body. Every failure is wrapped in a
// *models.FetchError carrying the requested URL.
type WebFetcher struct {
	config *common.FetcherConfig
	logger arbor.ILogger
	client *http.Client
}

// NewWebFetcher creates a web fetcher with a bounded request timeout.
func NewWebFetcher(config *common.FetcherConfig, logger arbor.ILogger) *WebFetcher {
	return &WebFetcher{
		config: config,
		logger: logger,
		client: &http.Client{
			Timeout: config.RequestTimeout,
		},
	}
}

// Fetch retrieves the page at targetURL and extracts its title and body
// text. The body is converted to markdown so paragraph and heading
// structure survives; boilerplate elements are removed first.
func (f *WebFetcher) Fetch(ctx context.Context, targetURL string) (*interfaces.WebContent, error) {
	parsed, err := url.Parse(targetURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, &models.FetchError{URL: targetURL, Err: fmt.Errorf("invalid URL")}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, &models.FetchError{URL: targetURL, Err: err}
	}
	req.Header.Set("User-Agent", f.config.UserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	f.logger.Debug().Str("url", targetURL).Msg("Fetching web content")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &models.FetchError{URL: targetURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &models.FetchError{URL: targetURL, Err: fmt.Errorf("HTTP status code: %d", resp.StatusCode)}
	}

	body := io.Reader(resp.Body)
	if f.config.MaxBodySize > 0 {
		body = io.LimitReader(resp.Body, f.config.MaxBodySize)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, &models.FetchError{URL: targetURL, Err: fmt.Errorf("failed to parse HTML: %w", err)}
	}

	title := f.extractTitle(doc, parsed)
	text := f.extractText(doc, targetURL)

	f.logger.Debug().
		Str("url", targetURL).
		Str("title", title).
		Int("text_length", len(text)).
		Msg("Web content fetched")

	return &interfaces.WebContent{
		Title: title,
		Text:  text,
	}, nil
}

// extractTitle resolves a display title from the document with a chain of
// fallbacks: title tag, og:title meta tag, then a host-derived label.
func (f *WebFetcher) extractTitle(doc *goquery.Document, parsed *url.URL) string {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title != "" {
		return title
	}

	ogTitle, _ := doc.Find("meta[property='og:title']").First().Attr("content")
	ogTitle = strings.TrimSpace(ogTitle)
	if ogTitle != "" {
		return ogTitle
	}

	host := strings.TrimPrefix(parsed.Hostname(), "www.")
	if host != "" {
		return "Content from " + host
	}

	return "Untitled Web Content"
}

// extractText strips boilerplate and converts the remaining body to
// markdown. Plain text extraction is the fallback when conversion fails.
func (f *WebFetcher) extractText(doc *goquery.Document, targetURL string) string {
	body := doc.Find("body")
	if body.Length() == 0 {
		return ""
	}

	body.Find("script, style, noscript").Remove()
	body.Find("nav, header, footer, aside").Remove()

	main := body.Find("main, article, [role=main]").First()
	content := body
	if main.Length() > 0 {
		content = main
	}

	html, err := content.Html()
	if err == nil {
		converter := md.NewConverter(targetURL, true, nil)
		markdown, convErr := converter.ConvertString(html)
		if convErr == nil && strings.TrimSpace(markdown) != "" {
			return strings.TrimSpace(markdown)
		}
		if convErr != nil {
			f.logger.Warn().Err(convErr).Str("url", targetURL).Msg("Markdown conversion failed, falling back to plain text")
		}
	}

	return cleanWhitespace(content.Text())
}

var (
	spaceRegex   = regexp.MustCompile(`[ \t]+`)
	newlineRegex = regexp.MustCompile(`\n{3,}`)
)

func cleanWhitespace(text string) string {
	text = spaceRegex.ReplaceAllString(text, " ")
	text = newlineRegex.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
