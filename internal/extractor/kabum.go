package extractor

// NewKabumExtractor creates a Kabum extractor
func NewKabumExtractor(fetcher Fetcher) *SiteExtractor {
	return NewSiteExtractor(SiteConfig{
		Site: "Kabum",
		Selectors: Selectors{
			Title: []Selector{
				{Query: "h1[class*=title], h1[class*=product]"},
				{Query: "h1"},
			},
			Price: []Selector{
				{Query: "span[class*=price], span[class*=preco]"},
				{Query: "h4[class*=price], h4[class*=preco]"},
			},
			Image: []Selector{
				{Query: `meta[property="og:image"]`, Attrs: []string{"content"}},
			},
		},
	}, fetcher)
}
