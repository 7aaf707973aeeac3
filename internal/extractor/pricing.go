package extractor

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/makerlens/makerlens-cli/internal/core/domain"
	"github.com/makerlens/makerlens-cli/internal/logger"
)

// pricingPaths are common pricing-page locations, probed in order.
var pricingPaths = []string{"/pricing", "/plans", "/buy", "/purchase", "/pricing-plans", "/price"}

// pricingSnippetLimit caps the reported pricing excerpt.
const pricingSnippetLimit = 500

// pricingMarkup matches elements whose class or id mentions pricing.
var pricingMarkup = regexp.MustCompile(`(?is)<[a-z][^>]*(?:class|id)=["'][^"']*pric[^"']*["'][^>]*>(.{0,400}?)</`)

// ProbePricing checks the common pricing-page paths and reports whether
// pricing-like markup was found. Informational only; individual probe
// failures move on to the next path and never error out.
func (e *Extractor) ProbePricing(ctx context.Context, rawURL string) (*domain.PricingInfo, error) {
	base, err := validateScheme(rawURL)
	if err != nil {
		return nil, err
	}
	origin := &url.URL{Scheme: base.Scheme, Host: base.Host}

	for _, path := range pricingPaths {
		// Space out probes against the same host.
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		probeURL := origin.JoinPath(path).String()
		html, err := e.fetch(ctx, probeURL)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Debug("Pricing probe %s failed: %v", probeURL, err)
			continue
		}

		matches := pricingMarkup.FindAllStringSubmatch(html, 4)
		if len(matches) == 0 {
			continue
		}

		parts := make([]string, 0, len(matches))
		for _, m := range matches {
			if text := strings.TrimSpace(stripTags(m[1])); text != "" {
				parts = append(parts, text)
			}
		}
		logger.Info("Found pricing info at %s", probeURL)
		return &domain.PricingInfo{
			Found:   true,
			Snippet: truncate(strings.Join(parts, " "), pricingSnippetLimit),
		}, nil
	}

	return &domain.PricingInfo{Found: false}, nil
}
