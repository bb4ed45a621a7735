package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_CountryAsURL(t *testing.T) {
	// Regression for the OEKO-TEX schema-mapping bug: directory dumps shipped
	// URLs and emails in the country column.
	tests := []struct {
		country string
		reject  bool
	}{
		{"https://services.oeko-tex.com/profile/123", true},
		{"www.example.com", true},
		{"info@textilecorp.com", true},
		{"textilecorp.com", true},
		{"Brazil", false},
		{"Türkiye", false},
		{"United States", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.country, func(t *testing.T) {
			lead := &Lead{Company: "ABC Tekstil", Country: tt.country}
			errs := Normalize(lead)
			if tt.reject {
				assert.Contains(t, errs, "country is a URL/email")
			} else {
				assert.Empty(t, errs)
			}
		})
	}
}

func TestNormalize_CompanyDefects(t *testing.T) {
	lead := &Lead{Company: "sales@mill.com"}
	errs := Normalize(lead)
	assert.Contains(t, errs, "company is an email")

	lead = &Lead{Company: "https://mill.com"}
	errs = Normalize(lead)
	assert.Contains(t, errs, "company is a URL")

	lead = &Lead{Company: "   "}
	errs = Normalize(lead)
	assert.Contains(t, errs, "company is empty")
}

func TestNormalize_NaNCoercion(t *testing.T) {
	lead := &Lead{Company: "ABC Tekstil", Country: "NaN", Context: "None", Website: "n/a"}
	errs := Normalize(lead)
	assert.Empty(t, errs)
	assert.Equal(t, "", lead.Country)
	assert.Equal(t, "", lead.Context)
	assert.Equal(t, "", lead.Website)
}

func TestNormalize_ErrorsRetainedOnRecord(t *testing.T) {
	lead := &Lead{Company: "View Co", Country: "http://x.com"}
	errs := Normalize(lead)
	assert.Len(t, errs, 1)
	assert.Equal(t, errs, lead.ValidationErrors)
}

func TestNormalize_HostlessWebsiteDropped(t *testing.T) {
	lead := &Lead{Company: "ABC Tekstil", Website: "localhost"}
	Normalize(lead)
	assert.Equal(t, "", lead.Website)
}
