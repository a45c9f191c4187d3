package extractor

import (
	"context"
	"io"
	"net/http"
	"regexp"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"

	"listapresentes/productworker/helpers"
)

// Product is the normalized result of one extraction attempt. Empty strings and
// a nil Price mean the field could not be recovered.
type Product struct {
	Title    string
	Price    *decimal.Decimal
	ImageURL string
}

// Valid reports whether the product carries the minimum required data
func (p Product) Valid() bool {
	return p.Title != ""
}

// Extractor turns a product page into a Product for one family of sites
type Extractor interface {
	// Name identifies the extractor in logs and reports
	Name() string

	// Extract fetches url and recovers the product. On a parsing failure the
	// returned Product holds whatever fields were recovered.
	Extract(ctx context.Context, url string) (Product, error)
}

// Fetcher retrieves a page body as UTF-8
type Fetcher interface {
	Fetch(ctx context.Context, url string, headers map[string]string) (io.Reader, error)
}

// FetcherFunc adapts a function to the Fetcher interface
type FetcherFunc func(ctx context.Context, url string, headers map[string]string) (io.Reader, error)

// Fetch calls f
func (f FetcherFunc) Fetch(ctx context.Context, url string, headers map[string]string) (io.Reader, error) {
	return f(ctx, url, headers)
}

// HTTPFetcher fetches pages over HTTP with browser-like headers
type HTTPFetcher struct {
	Client *http.Client
}

// Fetch implements Fetcher
func (f HTTPFetcher) Fetch(ctx context.Context, url string, headers map[string]string) (io.Reader, error) {
	return helpers.FetchPage(ctx, f.Client, url, headers)
}

// ElementHandler is a custom probe over the document root
type ElementHandler func(*goquery.Selection) string

// Selector describes one candidate location for a field value.
//
// Query is evaluated against its first match only. Attrs are tried in order and
// the element text is used when Attrs is empty. Pattern, when set, keeps the
// first submatch of the value. Handler replaces Query/Attrs entirely.
type Selector struct {
	Query   string
	Attrs   []string
	Pattern *regexp.Regexp
	Handler ElementHandler
}

// Selectors holds the ordered candidate chains for each field
type Selectors struct {
	Title []Selector
	Price []Selector
	Image []Selector
}

// Notifier receives escalation events. Implementations must return promptly
// and must never panic or block the caller.
type Notifier interface {
	NotifyParsingFailure(url string, partial Product)
	NotifyGenericExtractor(url, domain string, extracted Product)
}
