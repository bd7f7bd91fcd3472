package generate

import (
	"errors"
	"regexp"
	"strings"

	"github.com/rezonia/eu-einvoice/internal/cii"
)

var (
	countryCodePattern = regexp.MustCompile(`^[A-Z]{2}$`)
	vatNumberPattern   = regexp.MustCompile(`^[0-9A-Za-z\+\*\.]{2,12}$`)
)

// NormalizeVATID checks an EU VAT identifier and returns it in canonical
// form (upper-case country prefix, no spaces in the number part).
func NormalizeVATID(vatID string) (string, error) {
	if len(vatID) < 2 {
		return "", errors.New("invalid country code")
	}
	countryCode := strings.ToUpper(vatID[:2])
	vatNumber := strings.ReplaceAll(vatID[2:], " ", "")

	if !countryCodePattern.MatchString(countryCode) {
		return "", errors.New("invalid country code")
	}
	if !vatNumberPattern.MatchString(vatNumber) {
		return "", errors.New("invalid VAT number")
	}
	return countryCode + vatNumber, nil
}

// taxRegistration builds the tax registration for a party. A well-formed
// VAT identifier is tagged with scheme "VA", anything else is carried as a
// local tax number under scheme "FC".
func taxRegistration(taxID string) *cii.SchemeID {
	taxID = strings.TrimSpace(taxID)
	if taxID == "" {
		return nil
	}
	if normalized, err := NormalizeVATID(taxID); err == nil {
		return &cii.SchemeID{SchemeID: "VA", Value: normalized}
	}
	return &cii.SchemeID{SchemeID: "FC", Value: taxID}
}
