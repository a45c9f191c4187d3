package extractor

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const maxGenericTitleLength = 200

var (
	titleSuffixRegex = regexp.MustCompile(`\s*[|\-]\s*[A-Za-z0-9\s]+$`)
	priceClassRegex  = regexp.MustCompile(`(?i)price|preco|valor|value`)
	pricePatterns    = []*regexp.Regexp{
		regexp.MustCompile(`(?i)R\$?\s*(\d+(?:[.,]\d{3})*(?:[.,]\d{2}))`),
		regexp.MustCompile(`(?i)(\d+(?:[.,]\d{3})*(?:[.,]\d{2}))\s*reais?`),
	}
)

// NewGenericExtractor creates the fallback extractor used for hosts without a
// dedicated extractor. It relies on Open Graph, Twitter card and microdata tags.
func NewGenericExtractor(fetcher Fetcher) *SiteExtractor {
	return NewSiteExtractor(SiteConfig{
		Site: "Generic",
		Selectors: Selectors{
			Title: []Selector{
				{Query: `meta[property="og:title"]`, Attrs: []string{"content"}},
				{Query: `meta[name="twitter:title"]`, Attrs: []string{"content"}},
				{Query: "title"},
				{Query: "h1"},
			},
			Price: []Selector{
				{Query: `meta[property="product:price:amount"]`, Attrs: []string{"content"}},
				{Query: `meta[itemprop="price"]`, Attrs: []string{"content"}},
				{Handler: scanPriceElements},
			},
			Image: []Selector{
				{Query: `meta[property="og:image"]`, Attrs: []string{"content"}},
				{Query: `meta[name="twitter:image"]`, Attrs: []string{"content"}},
			},
		},
		TitleCleaner: cleanGenericTitle,
	}, fetcher)
}

// cleanGenericTitle drops a trailing " | Store" or " - Store" suffix
func cleanGenericTitle(title string) string {
	title = strings.TrimSpace(titleSuffixRegex.ReplaceAllString(title, ""))
	if utf8.RuneCountInString(title) > maxGenericTitleLength {
		title = string([]rune(title)[:maxGenericTitleLength])
	}
	return title
}

// scanPriceElements looks through price-like elements for an amount written in
// reais and returns the first one found
func scanPriceElements(root *goquery.Selection) string {
	var found string
	root.Find("span, div, strong, p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		if !priceClassRegex.MatchString(class) {
			return true
		}

		text := collapseSpaces(s.Text())
		for _, pattern := range pricePatterns {
			if match := pattern.FindStringSubmatch(text); len(match) > 1 {
				found = match[1]
				return false
			}
		}
		return true
	})
	return found
}
