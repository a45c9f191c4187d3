package escalation

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"listapresentes/productworker/internal/extractor"
)

const maxBodyTitleLength = 100

// parsingFailureBody renders the issue body for a page whose title could not
// be extracted
func parsingFailureBody(url, domain string, partial extractor.Product, now time.Time, version string) string {
	var b strings.Builder

	b.WriteString("## Automatic scraping failure\n\n")
	b.WriteString("The page was fetched successfully but no product title could be extracted.\n")
	b.WriteString("The site layout has probably changed or is not covered by the selectors.\n\n")

	fmt.Fprintf(&b, "### Product URL\n```\n%s\n```\n\n", url)

	b.WriteString("### Partial data\n")
	writeProductData(&b, partial)
	b.WriteString("\n")

	b.WriteString("### Steps to reproduce\n")
	fmt.Fprintf(&b, "1. Open `%s` in a browser\n", url)
	b.WriteString("2. Inspect the title, price and image elements\n")
	b.WriteString("3. Compare them with the selector chains of the extractor\n\n")

	b.WriteString("### Suggested actions\n")
	b.WriteString("- [ ] Check whether the page needs JavaScript to render\n")
	b.WriteString("- [ ] Check for anti-bot pages or captchas\n")
	b.WriteString("- [ ] Update the selectors for this site\n")
	fmt.Fprintf(&b, "- [ ] Consider a dedicated `%s`\n\n", suggestedExtractorName(domain))

	writeContext(&b, map[string]string{
		"Domain":     domain,
		"Error type": "parsing",
	}, []string{"Domain", "Error type"})
	writeFooter(&b, now, version)

	return b.String()
}

// genericExtractorBody renders the issue body suggesting a dedicated extractor
// for a site handled by the generic one
func genericExtractorBody(url, domain string, extracted extractor.Product, now time.Time, version string) string {
	var b strings.Builder
	name := suggestedExtractorName(domain)

	b.WriteString("## Unmapped site detected\n\n")
	b.WriteString("Product data was extracted with the **generic extractor** but this site has no dedicated support.\n\n")

	fmt.Fprintf(&b, "### Domain\n`%s`\n\n", domain)
	fmt.Fprintf(&b, "### Example URL\n```\n%s\n```\n\n", url)

	b.WriteString("### Data extracted by the generic extractor\n")
	writeProductData(&b, extracted)
	b.WriteString("\n")

	b.WriteString("### Suggested actions\n")
	fmt.Fprintf(&b, "- [ ] Analyze the HTML structure of `%s`\n", domain)
	b.WriteString("- [ ] Identify selectors for title, price and image\n")
	fmt.Fprintf(&b, "- [ ] Create `%s` in `internal/extractor`\n", name)
	b.WriteString("- [ ] Add the host to the dispatcher routes\n")
	b.WriteString("- [ ] Test with several product URLs of the site\n\n")

	writeContext(&b, map[string]string{
		"Domain":    domain,
		"URL":       url,
		"Extractor": "Generic",
		"Status":    "success with generic extractor",
	}, []string{"Domain", "URL", "Extractor", "Status"})
	writeFooter(&b, now, version)

	return b.String()
}

func writeProductData(b *strings.Builder, p extractor.Product) {
	title := "N/A"
	if p.Title != "" {
		title = truncate(p.Title, maxBodyTitleLength)
	}
	image := "no"
	if p.ImageURL != "" {
		image = p.ImageURL
	}

	fmt.Fprintf(b, "- **Title**: %s\n", title)
	fmt.Fprintf(b, "- **Price**: %s\n", formatBRL(p.Price))
	fmt.Fprintf(b, "- **Image**: %s\n", image)
}

func writeContext(b *strings.Builder, values map[string]string, order []string) {
	b.WriteString("### Context\n")
	for _, key := range order {
		fmt.Fprintf(b, "- **%s**: %s\n", key, values[key])
	}
	b.WriteString("\n")
}

func writeFooter(b *strings.Builder, now time.Time, version string) {
	b.WriteString("---\n")
	fmt.Fprintf(b, "*Generated automatically at %s*\n", now.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(b, "*Version: %s*\n", version)
}

// suggestedExtractorName derives an extractor constructor name from the first
// meaningful label of domain: "www.lojaazul.com.br" -> "NewLojaazulExtractor"
func suggestedExtractorName(domain string) string {
	label := strings.TrimPrefix(strings.ToLower(domain), "www.")
	if i := strings.IndexByte(label, '.'); i >= 0 {
		label = label[:i]
	}

	var b strings.Builder
	upper := true
	for _, r := range label {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	if b.Len() == 0 {
		return "NewSiteExtractor"
	}
	return "New" + b.String() + "Extractor"
}

// formatBRL renders a price as "R$ 1.234,56"
func formatBRL(price *decimal.Decimal) string {
	if price == nil {
		return "N/A"
	}

	fixed := price.StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var grouped strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(r)
	}
	return "R$ " + sign + grouped.String() + "," + fracPart
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
