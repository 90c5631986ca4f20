package generation

import (
	"context"
	"fmt"
	"io"
	"net/http"
	nurl "net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-shiori/go-readability"

	"github.com/yungbote/courseforge-backend/internal/platform/logger"
)

const (
	maxSourceBodySize = 5 * 1024 * 1024
	maxSourceChars    = 6000
	minSourceChars    = 100
	maxSources        = 5
)

// SourceFetcher turns reference URLs into prompt-ready text. Failures are
// skipped; generation never fails because a source was unreachable.
type SourceFetcher interface {
	Fetch(ctx context.Context, urls []string) string
}

// ReadabilityFetcher extracts the main text of each page with go-readability.
type ReadabilityFetcher struct {
	client *http.Client
	log    *logger.Logger
}

func NewReadabilityFetcher(log *logger.Logger, timeout time.Duration) *ReadabilityFetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ReadabilityFetcher{
		client: &http.Client{Timeout: timeout},
		log:    log.With("service", "ReadabilityFetcher"),
	}
}

func (f *ReadabilityFetcher) Fetch(ctx context.Context, urls []string) string {
	var b strings.Builder
	n := 0
	for _, u := range urls {
		if n >= maxSources {
			break
		}
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		text, err := f.extract(ctx, u)
		if err != nil {
			f.log.Warn("source fetch skipped", "url", u, "error", err)
			continue
		}
		n++
		fmt.Fprintf(&b, "SOURCE %d: %s\n%s\n\n", n, u, text)
	}
	return strings.TrimSpace(b.String())
}

func (f *ReadabilityFetcher) extract(ctx context.Context, rawURL string) (string, error) {
	parsedURL, err := nurl.Parse(rawURL)
	if err != nil || (parsedURL.Scheme != "http" && parsedURL.Scheme != "https") {
		return "", fmt.Errorf("unsupported url")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	article, err := readability.FromReader(io.LimitReader(resp.Body, maxSourceBodySize), parsedURL)
	if err != nil {
		return "", fmt.Errorf("readability: %w", err)
	}
	text := normalizeText(article.TextContent)
	if utf8.RuneCountInString(text) < minSourceChars {
		return "", fmt.Errorf("extracted content too short")
	}
	if utf8.RuneCountInString(text) > maxSourceChars {
		text = string([]rune(text)[:maxSourceChars]) + "\n... [truncated]"
	}
	return text, nil
}

var (
	multiSpace   = regexp.MustCompile(`[ \t]+`)
	multiNewline = regexp.MustCompile(`\n{3,}`)
)

func normalizeText(s string) string {
	s = strings.TrimSpace(s)
	s = multiSpace.ReplaceAllString(s, " ")
	return multiNewline.ReplaceAllString(s, "\n\n")
}
