package extractor

// NewMercadoLivreExtractor creates a Mercado Livre / Mercado Libre extractor
func NewMercadoLivreExtractor(fetcher Fetcher) *SiteExtractor {
	imageAttrs := []string{"data-zoom", "src", "data-src"}

	return NewSiteExtractor(SiteConfig{
		Site: "MercadoLivre",
		Selectors: Selectors{
			Title: []Selector{
				{Query: "h1.ui-pdp-title"},
				{Query: "h1[class*=title]"},
			},
			Price: []Selector{
				{Query: "span.andes-money-amount__fraction"},
				{Query: "span[class*=price-tag-fraction]"},
				{Query: `meta[property="product:price:amount"]`, Attrs: []string{"content"}},
			},
			Image: []Selector{
				{Query: "figure.ui-pdp-gallery__figure img", Attrs: imageAttrs},
				{Query: "img.ui-pdp-image", Attrs: imageAttrs},
				{Query: `meta[property="og:image"]`, Attrs: []string{"content"}},
			},
		},
	}, fetcher)
}
