// Package profile models the Factur-X conformance levels and their
// standardized identifiers.
//
// Profiles according to Factur-X Specification 1.07.2 page 18.
// 'MINIMUM' and 'BASIC WL' are not included because they are not valid
// tax invoices.
package profile

import "fmt"

// Profile is a named conformance level of the e-invoice standard.
type Profile string

const (
	Basic     Profile = "BASIC"
	EN16931   Profile = "EN 16931"
	Extended  Profile = "EXTENDED"
	XRechnung Profile = "XRECHNUNG"
)

// rank defines the comparison order of the profiles. XRECHNUNG sorts below
// EXTENDED even though its rule set is stricter at validation time; this
// ordering governs which fields may be populated, not rule strictness.
var rank = map[Profile]int{
	Basic:     0,
	EN16931:   1,
	XRechnung: 2,
	Extended:  3,
}

// schemas maps each profile to the schema it is serialized against.
var schemas = map[Profile]string{
	Basic:     "FACTUR-X_BASIC",
	EN16931:   "FACTUR-X_EN16931",
	XRechnung: "FACTUR-X_EN16931",
	Extended:  "FACTUR-X_EXTENDED",
}

// guidelines maps each profile to its GuidelineSpecifiedDocumentContextParameter.
var guidelines = map[Profile]string{
	Basic:     "urn:cen.eu:en16931:2017#compliant#urn:factur-x.eu:1p0:basic",
	EN16931:   "urn:cen.eu:en16931:2017",
	XRechnung: "urn:cen.eu:en16931:2017#compliant#urn:xeinkauf.de:kosit:xrechnung_3.0",
	Extended:  "urn:cen.eu:en16931:2017#conformant#urn:factur-x.eu:1p0:extended",
}

var byGuideline = func() map[string]Profile {
	m := make(map[string]Profile, len(guidelines))
	for p, g := range guidelines {
		m[g] = p
	}
	return m
}()

// Parse converts a profile name into a Profile.
func Parse(s string) (Profile, error) {
	p := Profile(s)
	if _, ok := rank[p]; !ok {
		return "", fmt.Errorf("unknown e-invoice profile %q", s)
	}
	return p, nil
}

// Valid reports whether p is one of the known profiles.
func (p Profile) Valid() bool {
	_, ok := rank[p]
	return ok
}

// Compare returns -1, 0 or 1 according to the profile order
// BASIC < EN16931 < XRECHNUNG < EXTENDED.
func Compare(a, b Profile) int {
	switch {
	case rank[a] < rank[b]:
		return -1
	case rank[a] > rank[b]:
		return 1
	default:
		return 0
	}
}

// Less reports whether p sorts strictly before other.
func (p Profile) Less(other Profile) bool {
	return Compare(p, other) < 0
}

// AtLeast reports whether p sorts at or above other.
func (p Profile) AtLeast(other Profile) bool {
	return Compare(p, other) >= 0
}

// Schema returns the schema name the profile is serialized against.
func (p Profile) Schema() string {
	return schemas[p]
}

// Guideline returns the guideline identifier for the profile.
func (p Profile) Guideline() string {
	return guidelines[p]
}

// FromGuideline returns the profile for a guideline identifier, inverse to
// Guideline.
func FromGuideline(guideline string) (Profile, error) {
	p, ok := byGuideline[guideline]
	if !ok {
		return "", fmt.Errorf("unknown guideline identifier %q", guideline)
	}
	return p, nil
}
