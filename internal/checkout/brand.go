package checkout

import "strings"

// Card brand identifiers as accepted by the payment gateway.
const (
	BrandVisa      = "visa"
	BrandMaster    = "master"
	BrandAmex      = "amex"
	BrandDiscover  = "discover"
	BrandDiners    = "diners"
	BrandJCB       = "jcb"
	BrandElo       = "elo"
	BrandHipercard = "hipercard"
)

// DetectBrand maps a card number to a gateway payment_method_id using fixed
// numeric-prefix rules. Longer prefixes are checked first so that, e.g.,
// Hipercard 606282 wins over the Elo 60 range. Unmatched numbers default to
// master.
func DetectBrand(number string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
	if digits == "" {
		return BrandMaster
	}

	switch {
	case hasPrefix(digits, "606282", "3841"):
		return BrandHipercard
	case hasPrefix(digits, "34", "37"):
		return BrandAmex
	case inRange(digits, 3, 300, 305), hasPrefix(digits, "36", "38"):
		return BrandDiners
	case hasPrefix(digits, "35"):
		return BrandJCB
	case hasPrefix(digits, "6011", "65"):
		return BrandDiscover
	case hasPrefix(digits, "50"), inRange(digits, 2, 60, 69):
		return BrandElo
	case hasPrefix(digits, "4"):
		return BrandVisa
	case inRange(digits, 2, 51, 55):
		return BrandMaster
	default:
		return BrandMaster
	}
}

func hasPrefix(digits string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(digits, p) {
			return true
		}
	}
	return false
}

// inRange reports whether the first n digits form a number in [lo, hi].
func inRange(digits string, n, lo, hi int) bool {
	if len(digits) < n {
		return false
	}
	value := 0
	for _, r := range digits[:n] {
		value = value*10 + int(r-'0')
	}
	return value >= lo && value <= hi
}
