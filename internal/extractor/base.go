package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"listapresentes/productworker/helpers"
	"listapresentes/productworker/logger"
	apperrors "listapresentes/productworker/pkg/errors"
)

// SiteConfig contains the configuration of a site extractor
type SiteConfig struct {
	Site      string
	Headers   map[string]string
	Selectors Selectors
	// TitleCleaner post-processes the winning title candidate
	TitleCleaner func(string) string
}

// SiteExtractor applies a SiteConfig's selector chains to a fetched page.
// It holds no mutable state.
type SiteExtractor struct {
	SiteConfig
	fetcher Fetcher
}

// NewSiteExtractor creates a new site extractor
func NewSiteExtractor(config SiteConfig, fetcher Fetcher) *SiteExtractor {
	return &SiteExtractor{
		SiteConfig: config,
		fetcher:    fetcher,
	}
}

// Name returns the extractor name
func (e *SiteExtractor) Name() string {
	return e.Site
}

// Extract fetches the page and runs the title, price and image chains
func (e *SiteExtractor) Extract(ctx context.Context, url string) (Product, error) {
	doc, err := e.fetchDocument(ctx, url)
	if err != nil {
		return Product{}, err
	}

	product := e.extractFrom(doc.Selection, url)

	logger.ForExtractor(e.Name()).Info().
		Str("url", url).
		Bool("title_found", product.Title != "").
		Str("price", formatPrice(product.Price)).
		Bool("image_found", product.ImageURL != "").
		Msg("Extraction finished")

	if !product.Valid() {
		return product, apperrors.NewParsing(e.Name(), fmt.Sprintf(
			"could not extract title from %s; partial data: price=%s, image=%t",
			e.Name(), formatPrice(product.Price), product.ImageURL != ""))
	}

	return product, nil
}

// fetchDocument fetches and parses the page. Every failure at this stage is a
// network failure, never a parsing one.
func (e *SiteExtractor) fetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	body, err := e.fetcher.Fetch(ctx, url, e.Headers)
	if err != nil {
		return nil, apperrors.NewNetwork(e.Name(), "failed to fetch page", err)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, apperrors.NewNetwork(e.Name(), "failed to read page", err)
	}
	return doc, nil
}

// extractFrom runs all chains against an already parsed document
func (e *SiteExtractor) extractFrom(root *goquery.Selection, pageURL string) Product {
	product := Product{
		Title:    firstValue(root, e.Selectors.Title, nil),
		ImageURL: firstImage(root, e.Selectors.Image, pageURL),
	}

	if product.Title != "" && e.TitleCleaner != nil {
		product.Title = e.TitleCleaner(product.Title)
	}

	for _, candidate := range e.Selectors.Price {
		if price := CleanPrice(candidate.value(root)); price != nil {
			product.Price = price
			break
		}
	}

	return product
}

// firstValue returns the first non-empty candidate value accepted by accept
func firstValue(root *goquery.Selection, candidates []Selector, accept func(string) bool) string {
	for _, candidate := range candidates {
		value := candidate.value(root)
		if value == "" {
			continue
		}
		if accept == nil || accept(value) {
			return value
		}
	}
	return ""
}

// firstImage returns the first candidate that resolves to an absolute
// http(s) URL. Every attribute of a selector is tried before the next one.
func firstImage(root *goquery.Selection, candidates []Selector, pageURL string) string {
	for _, candidate := range candidates {
		for _, value := range candidate.values(root) {
			if strings.HasPrefix(value, "{") {
				value = widestDynamicImage(value)
			}
			resolved := helpers.ResolveURL(pageURL, value)
			if helpers.IsHTTPURL(resolved) {
				return resolved
			}
		}
	}
	return ""
}

// value evaluates the selector against the document root
func (s Selector) value(root *goquery.Selection) string {
	if values := s.values(root); len(values) > 0 {
		return values[0]
	}
	return ""
}

// values returns every non-empty value the selector yields, in Attrs order
func (s Selector) values(root *goquery.Selection) []string {
	var raws []string
	switch {
	case s.Handler != nil:
		raws = append(raws, s.Handler(root))
	default:
		sel := root.Find(s.Query).First()
		if sel.Length() == 0 {
			return nil
		}
		if len(s.Attrs) == 0 {
			raws = append(raws, sel.Text())
		}
		for _, attr := range s.Attrs {
			if v, exists := sel.Attr(attr); exists {
				raws = append(raws, v)
			}
		}
	}

	var values []string
	for _, raw := range raws {
		if value := s.match(collapseSpaces(raw)); value != "" {
			values = append(values, value)
		}
	}
	return values
}

// match applies the selector pattern, returning the first group when present
func (s Selector) match(value string) string {
	if value == "" || s.Pattern == nil {
		return value
	}

	match := s.Pattern.FindStringSubmatch(value)
	switch {
	case match == nil:
		return ""
	case len(match) > 1:
		return strings.TrimSpace(match[1])
	default:
		return match[0]
	}
}

// widestDynamicImage picks the widest entry of an Amazon data-a-dynamic-image
// map ({"url": [width, height], ...}). Ties go to the lexically smallest URL.
func widestDynamicImage(raw string) string {
	var images map[string][]int
	if err := json.Unmarshal([]byte(raw), &images); err != nil {
		return ""
	}

	best, bestWidth := "", -1
	for url, size := range images {
		width := 0
		if len(size) > 0 {
			width = size[0]
		}
		if width > bestWidth || (width == bestWidth && url < best) {
			best, bestWidth = url, width
		}
	}
	return best
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
