package filter

import (
	"net/url"
	"strings"
)

// directoryDomains is the blocklist of certification, association, social,
// and marketplace hosts that are never a company's own website.
var directoryDomains = []string{
	// Certification and standards bodies.
	"oeko-tex.com", "services.oeko-tex.com", "global-standard.org",
	"gots.org", "bluesign.com", "usterized.com", "textileexchange.org",
	// Associations and chambers.
	"itkib.org.tr", "tgsd.org.tr", "itu.edu.tr", "textile-federation.org",
	"euratex.eu", "itmf.org", "texfed.org",
	// Social media.
	"facebook.com", "linkedin.com", "instagram.com", "twitter.com",
	"x.com", "youtube.com", "pinterest.com",
	// B2B marketplaces and directories.
	"alibaba.com", "made-in-china.com", "indiamart.com", "tradeindia.com",
	"globalsources.com", "europages.com", "europages.co.uk", "kompass.com",
	"yellowpages.com", "thomasnet.com", "exportersindia.com", "go4worldbusiness.com",
	"tradekey.com", "ec21.com", "ecplaza.net", "fibre2fashion.com",
	"textileinfomedia.com", "turkishexporter.net", "zauba.com", "volza.com",
	"importgenius.com", "panjiva.com",
	// Trade fairs.
	"itma.com", "messefrankfurt.com", "texprocess.com", "igatex.pk",
	// Generic profile hosts.
	"crunchbase.com", "zoominfo.com", "dnb.com", "bloomberg.com",
	"wikipedia.org", "glassdoor.com",
}

// directoryPathPatterns catch listing pages on otherwise-unblocked hosts.
var directoryPathPatterns = []string{
	"/member/", "/members/", "/directory/", "/exhibitor/", "/exhibitors/",
	"/profile/", "/supplier/", "/suppliers/", "/company-list", "/listing/",
	"/companies/", "/b2b/",
}

// IsDirectoryURL reports whether a URL points at a directory/aggregator page
// rather than a company's own website. Empty or unparseable input returns
// false; this predicate never fails.
func IsDirectoryURL(rawURL string) bool {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return false
	}

	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")

	for _, blocked := range directoryDomains {
		if host == blocked || strings.HasSuffix(host, "."+blocked) {
			return true
		}
	}

	lowerPath := strings.ToLower(u.Path)
	for _, p := range directoryPathPatterns {
		if strings.Contains(lowerPath, p) {
			return true
		}
	}

	return false
}

// Domain extracts the registrable-ish host from a URL for same-domain
// comparisons, lowercased with the www prefix stripped. Returns "" on
// unparseable input.
func Domain(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
