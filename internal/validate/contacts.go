package validate

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const maxContacts = 5

var emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// emailBlocklist drops machine-generated addresses and asset-file false
// positives picked up from minified HTML.
var emailBlocklist = []string{
	"noreply", "no-reply", "donotreply", "example.", "test@", "@test.",
	"@example", "sentry", "wixpress", "your-email", "email@",
	".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".js", ".css",
}

// ExtractEmails returns up to maxContacts plausible contact emails from text.
func ExtractEmails(text string) []string {
	var emails []string
	seen := make(map[string]bool)

	for _, m := range emailRe.FindAllString(text, -1) {
		email := strings.ToLower(m)
		if seen[email] || blockedEmail(email) {
			continue
		}
		seen[email] = true
		emails = append(emails, email)
		if len(emails) >= maxContacts {
			break
		}
	}
	return emails
}

func blockedEmail(email string) bool {
	for _, b := range emailBlocklist {
		if strings.Contains(email, b) {
			return true
		}
	}
	return false
}

var phoneCandidateRe = regexp.MustCompile(`[+(]?[0-9][0-9 ().\-/]{6,18}[0-9]`)

// placeholderDigits are sequences that show up in templates, not real numbers.
var placeholderDigits = []string{
	"1234567", "0000000", "1111111", "9999999", "5555555",
}

// countryRegions maps lowercase country names to ISO 3166-1 alpha-2 regions
// for phone parsing. Unknown countries parse with no default region, which
// still accepts numbers written with an international prefix.
var countryRegions = map[string]string{
	"turkey": "TR", "türkiye": "TR", "brazil": "BR", "portugal": "PT",
	"spain": "ES", "italy": "IT", "germany": "DE", "france": "FR",
	"india": "IN", "pakistan": "PK", "bangladesh": "BD", "vietnam": "VN",
	"indonesia": "ID", "china": "CN", "mexico": "MX", "usa": "US",
	"united states": "US", "uk": "GB", "united kingdom": "GB",
}

// ExtractPhones returns up to maxContacts validated phone numbers from text,
// formatted E.164 where the number library accepts them and kept raw as a
// fallback when it does not but the digit count is plausible.
func ExtractPhones(text, country string) []string {
	region := countryRegions[strings.ToLower(strings.TrimSpace(country))]

	var phones []string
	seen := make(map[string]bool)

	for _, candidate := range phoneCandidateRe.FindAllString(text, -1) {
		digits := digitsOnly(candidate)
		if len(digits) < 8 || len(digits) > 15 || isPlaceholder(digits) {
			continue
		}

		formatted := candidate
		if num, err := phonenumbers.Parse(candidate, region); err == nil {
			if !phonenumbers.IsValidNumber(num) {
				continue
			}
			formatted = phonenumbers.Format(num, phonenumbers.E164)
		} else if !strings.HasPrefix(strings.TrimSpace(candidate), "+") {
			// Unparseable without a region and no international prefix:
			// too likely a fax/ID/date fragment.
			continue
		}

		if seen[formatted] {
			continue
		}
		seen[formatted] = true
		phones = append(phones, formatted)
		if len(phones) >= maxContacts {
			break
		}
	}
	return phones
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteByte(byte(r))
		}
	}
	return b.String()
}

func isPlaceholder(digits string) bool {
	for _, p := range placeholderDigits {
		if strings.Contains(digits, p) {
			return true
		}
	}
	return false
}
