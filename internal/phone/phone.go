// Package phone turns free-form user input into canonical digit strings and
// back into display forms.
package phone

import "strings"

// maxMaskedDigits caps how many digits the as-you-type mask keeps.
const maxMaskedDigits = 11

// Normalize drops every character that is not an ASCII digit.
func Normalize(input string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, input)
}

// AreaCode returns the first three digits of a canonical number, or the
// whole number when it is shorter.
func AreaCode(canonical string) string {
	if len(canonical) < 3 {
		return canonical
	}
	return canonical[:3]
}

// FormatDisplay renders 10 digits as (XXX) XXX-XXXX and 11 digits as
// X (XXX) XXX-XXXX. Anything else is returned as bare digits.
func FormatDisplay(input string) string {
	n := Normalize(input)
	switch len(n) {
	case 10:
		return "(" + n[0:3] + ") " + n[3:6] + "-" + n[6:10]
	case 11:
		return n[0:1] + " (" + n[1:4] + ") " + n[4:7] + "-" + n[7:11]
	}
	return n
}

// MaskInput formats a partially typed number. Digits past the eleventh are
// discarded and the eleventh is never shown.
func MaskInput(input string) string {
	n := Normalize(input)
	if len(n) > maxMaskedDigits {
		n = n[:maxMaskedDigits]
	}
	if n == "" {
		return ""
	}

	var b strings.Builder
	b.WriteString("(")
	b.WriteString(n[:min(3, len(n))])
	if len(n) > 3 {
		b.WriteString(") ")
		b.WriteString(n[3:min(6, len(n))])
	}
	if len(n) > 6 {
		b.WriteString("-")
		b.WriteString(n[6:min(10, len(n))])
	}
	return b.String()
}
