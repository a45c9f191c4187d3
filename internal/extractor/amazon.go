package extractor

// NewAmazonExtractor creates an Amazon extractor
func NewAmazonExtractor(fetcher Fetcher) *SiteExtractor {
	imageAttrs := []string{"data-old-hires", "data-a-dynamic-image", "src"}

	return NewSiteExtractor(SiteConfig{
		Site: "Amazon",
		// Amazon rejects bare requests more often than other stores
		Headers: map[string]string{
			"Accept-Encoding":           "gzip, deflate, br",
			"Referer":                   "https://www.amazon.com.br/",
			"DNT":                       "1",
			"Upgrade-Insecure-Requests": "1",
		},
		Selectors: Selectors{
			Title: []Selector{
				{Query: "span#productTitle"},
				{Query: "h1#title"},
				{Query: "h1.a-size-large"},
				{Query: "span.product-title-word-break"},
			},
			Price: []Selector{
				{Query: "span.a-price-whole"},
				{Query: "span.a-offscreen"},
				{Query: "span.priceBlockBuyingPriceString"},
				{Query: "span.a-price.priceToPay"},
				{Query: "span[data-a-color=price]"},
				{Query: ".a-price .a-offscreen"},
				{Query: "#priceblock_ourprice"},
				{Query: "#priceblock_dealprice"},
			},
			Image: []Selector{
				{Query: "img#landingImage", Attrs: imageAttrs},
				{Query: "img.a-dynamic-image", Attrs: imageAttrs},
				{Query: "div#imgTagWrapperId img", Attrs: imageAttrs},
				{Query: "img[data-a-image-name=landingImage]", Attrs: imageAttrs},
				{Query: "#imageBlock img", Attrs: imageAttrs},
				{Query: ".imgTagWrapper img", Attrs: imageAttrs},
			},
		},
	}, fetcher)
}
