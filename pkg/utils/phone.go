package utils

import "strings"

// FormatPhoneNumber normalizes a US phone number to (XXX) XXX-XXXX.
// Numbers with a leading country code 1 are accepted; anything that is not
// a 10-digit number after stripping is returned trimmed but unchanged.
func FormatPhoneNumber(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	var digits strings.Builder
	for _, r := range trimmed {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if len(d) == 11 && d[0] == '1' {
		d = d[1:]
	}
	if len(d) != 10 {
		return trimmed
	}

	return "(" + d[:3] + ") " + d[3:6] + "-" + d[6:]
}
