package utils

import "strings"

// DefaultCountry is Rwanda, the country the service is built for.
const DefaultCountry = "RWA"

var countryCodes = map[string]string{
	"rwanda":       "RWA",
	"u rwanda":     "RWA",
	"kenya":        "KEN",
	"uganda":       "UGA",
	"tanzania":     "TZA",
	"tanzaniya":    "TZA",
	"burundi":      "BDI",
	"drc":          "COD",
	"dr congo":     "COD",
	"congo":        "COD",
	"kongo":        "COD",
	"ethiopia":     "ETH",
	"south sudan":  "SSD",
	"somalia":      "SOM",
	"nigeria":      "NGA",
	"ghana":        "GHA",
	"south africa": "ZAF",
	"zambia":       "ZMB",
	"malawi":       "MWI",
	"mozambique":   "MOZ",
	"zimbabwe":     "ZWE",
}

// NormalizeCountry maps a free-text country or ISO3 code to ISO3. Inputs of
// exactly three upper-case letters are trusted as ISO3, known codes are
// accepted in any case, and anything unrecognised becomes DefaultCountry.
func NormalizeCountry(input string) string {
	input = strings.TrimSpace(input)
	if isISO3(input) {
		return input
	}
	if code, ok := countryCodes[strings.ToLower(input)]; ok {
		return code
	}
	if code := strings.ToUpper(input); isKnownISO3(code) {
		return code
	}
	return DefaultCountry
}

func isKnownISO3(code string) bool {
	for _, known := range countryCodes {
		if known == code {
			return true
		}
	}
	return false
}

func isISO3(s string) bool {
	if len(s) != 3 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}
