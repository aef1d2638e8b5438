package phone

import "strings"

// countryCodes are tried in order when a number carries a + prefix.
// The order matters for overlapping prefixes (91 before 9, 1 before 19).
var countryCodes = []string{
	"91", // India
	"1",  // US/Canada
	"44", // UK
	"86", // China
	"81", // Japan
	"49", // Germany
	"33", // France
	"39", // Italy
	"7",  // Russia
	"55", // Brazil
}

const nationalNumberLength = 10

// StripCountryCode removes a leading international calling code from a
// phone number, best effort, producing the national-format number the
// issuance API expects. The heuristic is ambiguous for numbers whose
// national part is itself 10 or more digits and starts with a valid
// calling code; in that case the calling code wins.
func StripCountryCode(number string) string {
	cleaned := clean(number)

	if strings.HasPrefix(cleaned, "+") {
		withoutPlus := cleaned[1:]

		for _, code := range countryCodes {
			if strings.HasPrefix(withoutPlus, code) {
				remainder := withoutPlus[len(code):]
				if len(remainder) >= nationalNumberLength {
					return remainder
				}
			}
		}

		// Unknown calling code: assume it is 1-3 digits and keep the
		// last 10 digits.
		if len(withoutPlus) > nationalNumberLength {
			return withoutPlus[len(withoutPlus)-nationalNumberLength:]
		}
		return withoutPlus
	}

	// No + prefix: only the two common cases are recognized.
	if len(cleaned) == 12 && strings.HasPrefix(cleaned, "91") {
		return cleaned[2:]
	}
	if len(cleaned) == 11 && strings.HasPrefix(cleaned, "1") {
		return cleaned[1:]
	}

	return cleaned
}

// IsNationalNumber reports whether the country-code-stripped form of
// number is a plausible national number: 10 to 15 digits, digits only.
func IsNationalNumber(number string) bool {
	stripped := StripCountryCode(number)
	if len(stripped) < nationalNumberLength || len(stripped) > 15 {
		return false
	}
	for _, r := range stripped {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// clean drops everything except digits and a leading +.
func clean(number string) string {
	var b strings.Builder
	for _, r := range number {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else if r == '+' && b.Len() == 0 {
			b.WriteRune(r)
		}
	}
	return b.String()
}
