package extractor

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/time/rate"

	"github.com/makerlens/makerlens-cli/internal/core/domain"
	"github.com/makerlens/makerlens-cli/internal/core/ports/driven"
	"github.com/makerlens/makerlens-cli/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.PageExtractor = (*Extractor)(nil)

// Default configuration values.
const (
	DefaultTimeout      = 15 * time.Second
	DefaultMaxRedirects = 5

	// maxBodyBytes bounds how much of a page is read.
	maxBodyBytes = 2 << 20

	// fullTextLimit caps the stored body text.
	fullTextLimit = 2000

	// descriptionLimit caps the fallback description taken from body text.
	descriptionLimit = 300

	// probeRate spaces out pricing-path requests against the same host.
	probeRate = 2.0
)

// userAgent mimics a desktop browser; many product sites refuse obvious bots.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Config holds configuration for the extractor.
type Config struct {
	// Timeout is the per-request timeout (default: 15s).
	Timeout time.Duration

	// MaxRedirects bounds redirect chains (default: 5).
	MaxRedirects int
}

// Extractor fetches and parses product pages.
type Extractor struct {
	client  *http.Client
	limiter *rate.Limiter
}

// New creates a page extractor.
func New(cfg Config) *Extractor {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	maxRedirects := cfg.MaxRedirects
	if maxRedirects == 0 {
		maxRedirects = DefaultMaxRedirects
	}

	return &Extractor{
		client: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
		limiter: rate.NewLimiter(rate.Limit(probeRate), 1),
	}
}

// Extract fetches the URL and returns the parsed page content.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (*domain.PageContent, error) {
	logger.Debug("Fetching %s", rawURL)

	if _, err := validateScheme(rawURL); err != nil {
		return nil, err
	}

	html, err := e.fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	name := firstNonEmpty(
		metaProperty(html, "og:title"),
		titleText(html),
		firstHeading(html),
		"Untitled",
	)

	bodyText := cleanBodyText(html)
	description := firstNonEmpty(
		metaProperty(html, "og:description"),
		metaName(html, "description"),
		truncate(bodyText, descriptionLimit),
	)

	content := &domain.PageContent{
		Name:          strings.TrimSpace(name),
		Description:   strings.TrimSpace(description),
		FullText:      truncate(bodyText, fullTextLimit),
		CreatorHandle: metaName(html, "twitter:creator"),
		SiteHandle:    metaName(html, "twitter:site"),
		URL:           rawURL,
	}
	content.Tags = deriveTags(html, content.Name, content.Description, rawURL)

	logger.Debug("Extracted %q with %d tags", content.Name, len(content.Tags))
	return content, nil
}

// fetch performs a browser-like GET and returns the page body.
// HTTP error statuses map to the blocked error class; transport failures
// to the unreachable class.
func (e *Extractor) fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidURL, err)
	}
	setBrowserHeaders(req)

	resp, err := e.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		return "", &domain.ExtractionError{URL: rawURL, Err: domain.ErrExtractionUnreachable}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", &domain.ExtractionError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Err:        domain.ErrExtractionBlocked,
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", &domain.ExtractionError{URL: rawURL, Err: domain.ErrExtractionUnreachable}
	}
	return string(body), nil
}

// setBrowserHeaders applies the request headers a desktop browser sends.
func setBrowserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "none")
	req.Header.Set("Cache-Control", "max-age=0")
}

// validateScheme accepts only http and https URLs.
func validateScheme(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: only http and https URLs are allowed", domain.ErrInvalidURL)
	}
	return u, nil
}

// Pre-compiled regular expressions for HTML parsing.
var (
	titleTag    = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	h1Tag       = regexp.MustCompile(`(?is)<h1[^>]*>(.*?)</h1>`)
	scriptTag   = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag    = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	noscriptTag = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	headTag     = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	svgTag      = regexp.MustCompile(`(?is)<svg[^>]*>.*?</svg>`)
	navTag      = regexp.MustCompile(`(?is)<nav[^>]*>.*?</nav>`)
	headerTag   = regexp.MustCompile(`(?is)<header[^>]*>.*?</header>`)
	footerTag   = regexp.MustCompile(`(?is)<footer[^>]*>.*?</footer>`)
	asideTag    = regexp.MustCompile(`(?is)<aside[^>]*>.*?</aside>`)
	iframeTag   = regexp.MustCompile(`(?is)<iframe[^>]*>.*?</iframe>`)
	htmlComment = regexp.MustCompile(`(?s)<!--.*?-->`)
	allTags     = regexp.MustCompile(`<[^>]+>`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// metaPattern builds a regex matching a <meta> tag's content attribute by
// name or property, tolerating either attribute order.
func metaPattern(attr, value string) *regexp.Regexp {
	v := regexp.QuoteMeta(value)
	return regexp.MustCompile(
		`(?is)<meta[^>]+` + attr + `=["']` + v + `["'][^>]+content=["']([^"']*)["']` +
			`|<meta[^>]+content=["']([^"']*)["'][^>]+` + attr + `=["']` + v + `["']`)
}

// metaContent extracts a meta tag's content attribute.
func metaContent(html, attr, value string) string {
	m := metaPattern(attr, value).FindStringSubmatch(html)
	if m == nil {
		return ""
	}
	if m[1] != "" {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(m[2])
}

// metaName extracts <meta name="..." content="...">.
func metaName(html, name string) string {
	return metaContent(html, "name", name)
}

// metaProperty extracts <meta property="..." content="...">.
func metaProperty(html, property string) string {
	return metaContent(html, "property", property)
}

// titleText extracts the <title> tag's text.
func titleText(html string) string {
	m := titleTag.FindStringSubmatch(html)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(stripTags(m[1]))
}

// firstHeading extracts the first <h1>'s text.
func firstHeading(html string) string {
	m := h1Tag.FindStringSubmatch(html)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(stripTags(m[1]))
}

// cleanBodyText strips non-content elements and collapses the remaining
// text into a single whitespace-normalized string.
func cleanBodyText(html string) string {
	for _, re := range []*regexp.Regexp{
		scriptTag, styleTag, noscriptTag, headTag, svgTag,
		navTag, headerTag, footerTag, asideTag, iframeTag, htmlComment,
	} {
		html = re.ReplaceAllString(html, " ")
	}
	return strings.TrimSpace(whitespace.ReplaceAllString(stripTags(html), " "))
}

// stripTags removes all remaining HTML tags and decodes entities.
func stripTags(s string) string {
	return html.UnescapeString(allTags.ReplaceAllString(s, " "))
}

// truncate cuts s to at most n bytes at a rune boundary.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := s[:n]
	for len(cut) > 0 && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return strings.TrimSpace(cut)
}

// firstNonEmpty returns the first non-empty trimmed candidate.
func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if strings.TrimSpace(c) != "" {
			return c
		}
	}
	return ""
}
