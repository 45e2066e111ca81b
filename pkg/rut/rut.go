// Package rut validates and formats Chilean RUT identifiers.
//
// A RUT is a sequence of digits followed by a base-11 check character
// ('0'-'9' or 'k'). Normalize accepts any punctuation ("12.345.678-5",
// "12345678-5", "123456785") and returns the canonical dotted form with
// an uppercase check digit.
package rut

import (
	"errors"
	"strings"
)

// ErrInvalid is returned for any input that does not carry a valid checksum.
var ErrInvalid = errors.New("invalid RUT")

// Normalize validates raw and returns its canonical form
// ("12.345.678-5"). It never panics; any malformed input yields ErrInvalid.
func Normalize(raw string) (string, error) {
	clean := strip(raw)
	if len(clean) < 2 {
		return "", ErrInvalid
	}

	body := clean[:len(clean)-1]
	check := clean[len(clean)-1]

	if !allDigits(body) {
		return "", ErrInvalid
	}
	if checkDigit(body) != check {
		return "", ErrInvalid
	}
	return format(body, check), nil
}

// IsValid reports whether raw carries a valid checksum.
func IsValid(raw string) bool {
	_, err := Normalize(raw)
	return err == nil
}

// strip removes everything but digits and the check letter, lowercased.
func strip(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == 'k' || r == 'K':
			b.WriteRune('k')
		}
	}
	return b.String()
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// checkDigit computes the expected check character for a digit body using
// the standard base-11 algorithm: weights cycle 2..7 from the least
// significant digit, and 11-(sum mod 11) maps 11 to '0' and 10 to 'k'.
func checkDigit(body string) byte {
	sum := 0
	weight := 2
	for i := len(body) - 1; i >= 0; i-- {
		sum += int(body[i]-'0') * weight
		if weight < 7 {
			weight++
		} else {
			weight = 2
		}
	}

	switch expected := 11 - (sum % 11); expected {
	case 11:
		return '0'
	case 10:
		return 'k'
	default:
		return byte('0' + expected)
	}
}

// format groups the body in thousands with dots and appends the uppercase
// check digit: 12345678 + '5' -> "12.345.678-5".
func format(body string, check byte) string {
	var b strings.Builder
	lead := len(body) % 3
	if lead > 0 {
		b.WriteString(body[:lead])
	}
	for i := lead; i < len(body); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(body[i : i+3])
	}
	b.WriteByte('-')
	b.WriteByte(upper(check))
	return b.String()
}

func upper(c byte) byte {
	if c == 'k' {
		return 'K'
	}
	return c
}
