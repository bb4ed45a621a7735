package validate

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"

	"github.com/sparetex/leadgen-cli/internal/filter"
	"github.com/sparetex/leadgen-cli/internal/keywords"
)

// maxKeyPages caps how many additional pages are fetched beyond the homepage.
const maxKeyPages = 4

// keyPageIndicators match anchor text or hrefs pointing at contact/about
// pages across the languages of our markets.
var keyPageIndicators = []string{
	"contact", "contato", "contacto", "iletisim", "kontakt",
	"about", "hakkimizda", "hakkinda", "quem-somos", "quem somos",
	"sobre", "empresa", "uber-uns", "impressum", "o-nas", "about-us",
	"gioi-thieu", "lien-he", "company",
}

// ParsePage builds a goquery document from fetched HTML.
func ParsePage(res *FetchResult) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body))
	if err != nil {
		return nil, eris.Wrapf(err, "validate: parse %s", res.URL)
	}
	return doc, nil
}

// DiscoverKeyPages returns up to maxKeyPages same-domain links from doc whose
// anchor text or href looks like a contact or about page.
func DiscoverKeyPages(doc *goquery.Document, baseURL string) []string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}
	baseDomain := filter.Domain(baseURL)

	var pages []string
	seen := map[string]bool{baseURL: true}

	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") ||
			strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "tel:") ||
			strings.HasPrefix(href, "javascript:") {
			return true
		}

		anchor := keywords.Fold(sel.Text())
		target := keywords.Fold(href)
		if !matchesIndicator(anchor) && !matchesIndicator(target) {
			return true
		}

		ref, err := url.Parse(href)
		if err != nil {
			return true
		}
		abs := base.ResolveReference(ref)
		abs.Fragment = ""
		if filter.Domain(abs.String()) != baseDomain {
			return true
		}

		u := abs.String()
		if seen[u] {
			return true
		}
		seen[u] = true
		pages = append(pages, u)
		return len(pages) < maxKeyPages
	})

	return pages
}

func matchesIndicator(s string) bool {
	for _, ind := range keyPageIndicators {
		if strings.Contains(s, ind) {
			return true
		}
	}
	return false
}

// VisibleText extracts the page's visible text with scripts, styles, and
// boilerplate chrome removed, whitespace-collapsed.
func VisibleText(doc *goquery.Document) string {
	clone := doc.Clone()
	clone.Find("script, style, noscript, iframe, svg").Remove()
	return strings.Join(strings.Fields(clone.Text()), " ")
}
