package task

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/phrazzld/shortlink-api/internal/domain"
)

// Metadata fetch defaults
const (
	DefaultMetadataTimeout = 10 * time.Second
	MetadataUserAgent      = "URLShortener-Bot/1.0"

	// maxMetadataBody caps how much of the page is scanned for tags.
	maxMetadataBody = 1 << 20
)

// MetadataResult is the payload of a completed metadata job.
type MetadataResult struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	StatusCode  int    `json:"status_code"`
	ContentType string `json:"content_type"`
}

// MetadataProcessor fetches the original URL and extracts its title and
// description. Any HTTP response counts as completed; only transport
// failures and timeouts fail the job.
type MetadataProcessor struct {
	client *http.Client
}

// NewMetadataProcessor creates a processor whose fetches give up after timeout.
// A nil client uses a fresh http.Client.
func NewMetadataProcessor(client *http.Client, timeout time.Duration) *MetadataProcessor {
	if timeout <= 0 {
		timeout = DefaultMetadataTimeout
	}
	if client == nil {
		client = &http.Client{}
	}
	c := *client
	c.Timeout = timeout
	return &MetadataProcessor{client: &c}
}

// Process implements Processor
func (p *MetadataProcessor) Process(ctx context.Context, item domain.JobItem) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, item.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", MetadataUserAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", item.URL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	result := MetadataResult{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
	}
	if result.ContentType == "" {
		result.ContentType = "unknown"
	}

	if strings.Contains(strings.ToLower(result.ContentType), "html") {
		result.Title, result.Description = extractMetadata(io.LimitReader(resp.Body, maxMetadataBody))
	}

	return result, nil
}

// extractMetadata scans an HTML document for its title and description.
// og:title and og:description are used when the plain tags are missing.
func extractMetadata(r io.Reader) (title, description string) {
	var ogTitle, ogDescription string
	var inTitle bool
	z := html.NewTokenizer(r)

	for {
		switch z.Next() {
		case html.ErrorToken:
			if title == "" {
				title = ogTitle
			}
			if description == "" {
				description = ogDescription
			}
			return strings.TrimSpace(title), strings.TrimSpace(description)

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			switch tok.Data {
			case "title":
				inTitle = true
			case "meta":
				name, property, content := metaAttrs(tok)
				switch {
				case name == "description" && description == "":
					description = content
				case property == "og:title" && ogTitle == "":
					ogTitle = content
				case property == "og:description" && ogDescription == "":
					ogDescription = content
				}
			}

		case html.TextToken:
			if inTitle && title == "" {
				title = string(z.Text())
			}

		case html.EndTagToken:
			tok := z.Token()
			switch tok.Data {
			case "title":
				inTitle = false
			case "head":
				if title != "" && description != "" {
					return strings.TrimSpace(title), strings.TrimSpace(description)
				}
			}
		}
	}
}

func metaAttrs(tok html.Token) (name, property, content string) {
	for _, a := range tok.Attr {
		switch strings.ToLower(a.Key) {
		case "name":
			name = strings.ToLower(a.Val)
		case "property":
			property = strings.ToLower(a.Val)
		case "content":
			content = a.Val
		}
	}
	return name, property, content
}
