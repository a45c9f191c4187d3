package extractor

import (
	"strings"

	"listapresentes/productworker/helpers"
)

// route maps host fragments to a dedicated extractor constructor
type route struct {
	hosts []string
	build func(Fetcher) *SiteExtractor
}

// routes are matched in order against the lower-cased host
var routes = []route{
	{hosts: []string{"amazon.com"}, build: NewAmazonExtractor},
	{hosts: []string{"mercadolivre.com", "mercadolibre.com"}, build: NewMercadoLivreExtractor},
	{hosts: []string{"kabum.com"}, build: NewKabumExtractor},
}

// Dispatcher picks the extractor for a URL
type Dispatcher struct {
	fetcher Fetcher
}

// NewDispatcher creates a dispatcher whose extractors share fetcher
func NewDispatcher(fetcher Fetcher) *Dispatcher {
	return &Dispatcher{fetcher: fetcher}
}

// Select returns a fresh extractor for url. The second value is true when no
// dedicated extractor matched and the generic one was returned.
func (d *Dispatcher) Select(url string) (Extractor, bool) {
	host := Domain(url)
	if host != "" {
		for _, r := range routes {
			for _, fragment := range r.hosts {
				if strings.Contains(host, fragment) {
					return r.build(d.fetcher), false
				}
			}
		}
	}
	return NewGenericExtractor(d.fetcher), true
}

// Domain returns the lower-cased host of url, or "" when it cannot be parsed
func Domain(url string) string {
	return helpers.Host(url)
}
