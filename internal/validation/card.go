package validation

import (
	"regexp"
	"strings"
)

// Card number length bounds accepted by ValidateCardNumber.
const (
	MinCardDigits = 13
	MaxCardDigits = 19
)

var nonDigits = regexp.MustCompile(`\D`)

// Digits strips every non-digit character from v.
func Digits(v string) string {
	return nonDigits.ReplaceAllString(v, "")
}

// ValidateCardNumber reports whether number (digits only, separators
// allowed) has a valid length and passes the Luhn checksum.
func ValidateCardNumber(number string) bool {
	digits := Digits(number)
	if len(digits) < MinCardDigits || len(digits) > MaxCardDigits {
		return false
	}

	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// Card brands returned by CardBrand.
const (
	BrandVisa       = "visa"
	BrandMastercard = "mastercard"
	BrandAmex       = "amex"
	BrandDiscover   = "discover"
	BrandJCB        = "jcb"
	BrandDiners     = "diners"
	BrandElo        = "elo"
	BrandHipercard  = "hipercard"
	BrandGeneric    = "generic"
)

// Order matters: elo and hipercard prefixes overlap visa, mastercard and
// discover ranges, so they are checked first.
var brandPatterns = []struct {
	brand   string
	pattern *regexp.Regexp
}{
	{BrandElo, regexp.MustCompile(`^(636368|438935|504175|451416|636297|5067|4576|4011)`)},
	{BrandHipercard, regexp.MustCompile(`^(606282|3841)`)},
	{BrandVisa, regexp.MustCompile(`^4`)},
	{BrandMastercard, regexp.MustCompile(`^5[1-5]`)},
	{BrandAmex, regexp.MustCompile(`^3[47]`)},
	{BrandDiscover, regexp.MustCompile(`^6(?:011|5)`)},
	{BrandJCB, regexp.MustCompile(`^(?:2131|1800|35)`)},
	{BrandDiners, regexp.MustCompile(`^3(?:0[0-5]|[68])`)},
}

// CardBrand detects the card network from the number prefix.
func CardBrand(number string) string {
	digits := Digits(number)
	if digits == "" {
		return BrandGeneric
	}
	for _, b := range brandPatterns {
		if b.pattern.MatchString(digits) {
			return b.brand
		}
	}
	return BrandGeneric
}

// MaskCardNumber keeps only the last four digits.
func MaskCardNumber(number string) string {
	digits := Digits(number)
	if len(digits) <= 4 {
		return digits
	}
	return strings.Repeat("*", len(digits)-4) + digits[len(digits)-4:]
}
