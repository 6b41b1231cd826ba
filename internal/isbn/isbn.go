// Package isbn validates ISBN-10 and ISBN-13 values and converts between them.
//
// Every value this package hands back as "canonical" is a 13-digit ISBN whose
// final digit satisfies the mod-10 weighted checksum. Inputs that cannot be
// coerced into that form are reported as absent rather than as errors, so
// callers can drop them without special handling.
package isbn

import "strings"

// CheckDigit10 returns the check character for the first nine digits of an
// ISBN-10. The boolean is false unless nine is exactly nine ASCII digits.
func CheckDigit10(nine string) (string, bool) {
	if len(nine) != 9 || !allDigits(nine) {
		return "", false
	}
	sum := 0
	for i := 0; i < 9; i++ {
		// weights run 2..10 from the least significant digit
		sum += (i + 2) * int(nine[8-i]-'0')
	}
	remainder := sum % 11
	if remainder == 0 {
		return "0", true
	}
	check := 11 - remainder
	if check == 10 {
		return "X", true
	}
	return string(rune('0' + check)), true
}

// CheckDigit13 returns the check digit for the first twelve digits of an
// ISBN-13. The boolean is false unless twelve is exactly twelve ASCII digits.
func CheckDigit13(twelve string) (string, bool) {
	if len(twelve) != 12 || !allDigits(twelve) {
		return "", false
	}
	sum := 0
	for i := 0; i < 12; i++ {
		weight := 1
		if i%2 == 1 {
			weight = 3
		}
		sum += weight * int(twelve[i]-'0')
	}
	check := 10 - sum%10
	if check == 10 {
		return "0", true
	}
	return string(rune('0' + check)), true
}

// IsValid10 reports whether value, once reduced to digits and X, is a
// well-formed ISBN-10 with a matching check character.
func IsValid10(value string) bool {
	cleaned := Clean(value)
	if len(cleaned) != 10 {
		return false
	}
	check, ok := CheckDigit10(cleaned[:9])
	return ok && check == cleaned[9:]
}

// IsValid13 reports whether value, once reduced to digits and X, is a
// 978/979-prefixed ISBN-13 with a matching check digit.
func IsValid13(value string) bool {
	cleaned := Clean(value)
	if len(cleaned) != 13 {
		return false
	}
	if !strings.HasPrefix(cleaned, "978") && !strings.HasPrefix(cleaned, "979") {
		return false
	}
	check, ok := CheckDigit13(cleaned[:12])
	return ok && check == cleaned[12:]
}

// Convert10To13 converts a valid ISBN-10 into its 978-prefixed ISBN-13 form.
func Convert10To13(value string) (string, bool) {
	if !IsValid10(value) {
		return "", false
	}
	stem := "978" + Clean(value)[:9]
	check, ok := CheckDigit13(stem)
	if !ok {
		return "", false
	}
	return stem + check, true
}

// Parse coerces arbitrary text into a canonical ISBN-13. Hyphens, spaces,
// qualifiers such as "(pbk.)" and any other non-digit characters are
// discarded first; a valid ISBN-10 is upgraded automatically.
func Parse(text string) (string, bool) {
	cleaned := Clean(text)
	if IsValid10(cleaned) {
		converted, ok := Convert10To13(cleaned)
		if !ok {
			return "", false
		}
		cleaned = converted
	}
	if !IsValid13(cleaned) {
		return "", false
	}
	return cleaned, true
}

// Clean upper-cases value and removes every character other than digits and X.
func Clean(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for i := 0; i < len(value); i++ {
		c := value[i]
		switch {
		case c >= '0' && c <= '9':
			b.WriteByte(c)
		case c == 'X' || c == 'x':
			b.WriteByte('X')
		}
	}
	return b.String()
}

func allDigits(value string) bool {
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return false
		}
	}
	return true
}
