package model

import (
	"regexp"
	"strings"
)

// Upstream tabular collaborators have historically shipped records with URLs
// or emails in the country column (a schema-mapping bug in the OEKO-TEX
// directory dump). Normalize rejects those at ingestion so downstream
// classifiers can assume well-typed optional fields.

var (
	urlishPattern  = regexp.MustCompile(`(?i)(https?://|www\.|\.com\b|\.net\b|\.org\b)`)
	emailPattern   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	nanLikeValues  = map[string]bool{"nan": true, "none": true, "null": true, "n/a": true, "-": true}
)

// Normalize sanitizes a raw lead in place and returns validation errors for
// any policy-violating fields. A non-empty error list means the record should
// be rejected (with the errors retained on the record), never thrown.
func Normalize(lead *Lead) []string {
	var errs []string

	lead.Company = cleanField(lead.Company)
	lead.Country = cleanField(lead.Country)
	lead.Website = cleanField(lead.Website)
	lead.Context = cleanField(lead.Context)

	if lead.Company == "" {
		errs = append(errs, "company is empty")
	}
	if emailPattern.MatchString(lead.Company) {
		errs = append(errs, "company is an email")
	}
	if strings.HasPrefix(strings.ToLower(lead.Company), "http://") ||
		strings.HasPrefix(strings.ToLower(lead.Company), "https://") {
		errs = append(errs, "company is a URL")
	}

	if lead.Country != "" && (urlishPattern.MatchString(lead.Country) || strings.Contains(lead.Country, "@")) {
		errs = append(errs, "country is a URL/email")
	}

	if lead.Website != "" && !strings.Contains(lead.Website, ".") {
		// Not a resolvable host; drop rather than carrying junk forward.
		lead.Website = ""
	}

	lead.ValidationErrors = append(lead.ValidationErrors, errs...)
	return errs
}

// cleanField trims whitespace and coerces NaN-like placeholder values from
// tabular sources to empty strings.
func cleanField(s string) string {
	s = strings.TrimSpace(s)
	if nanLikeValues[strings.ToLower(s)] {
		return ""
	}
	return s
}
