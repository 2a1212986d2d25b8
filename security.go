package portfolio

import (
	"fmt"
	"regexp"
)

// isinRegex checks for the basic structure: 2 letters, 9 alphanumeric, 1 digit.
var isinRegex = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{9}[0-9]$`)

// currencyCodeRegex checks for the format: 3 uppercase letters.
var currencyCodeRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// ValidateISIN checks the ISO 6166 format and check digit of isin.
// Errors wrap ErrInvalidISIN.
func ValidateISIN(isin string) error {
	if len(isin) != 12 {
		return fmt.Errorf("%w %q: must be 12 characters, got %d", ErrInvalidISIN, isin, len(isin))
	}
	if !isinRegex.MatchString(isin) {
		return fmt.Errorf("%w %q: must be 2 uppercase letters, 9 alphanumeric chars and 1 digit", ErrInvalidISIN, isin)
	}
	if want, got := isinCheckDigit(isin[:11]), int(isin[11]-'0'); want != got {
		return fmt.Errorf("%w %q: check digit is %d, expected %d", ErrInvalidISIN, isin, got, want)
	}
	return nil
}

// isinCheckDigit runs Luhn over the body where letters expand to two digits (A=10 ... Z=35).
func isinCheckDigit(body string) int {
	digits := make([]int, 0, 2*len(body))
	for _, c := range body {
		if c >= 'A' && c <= 'Z' {
			n := int(c-'A') + 10
			digits = append(digits, n/10, n%10)
		} else {
			digits = append(digits, int(c-'0'))
		}
	}
	sum := 0
	double := true // the rightmost digit of the body is doubled
	for i := len(digits) - 1; i >= 0; i-- {
		d := digits[i]
		if double {
			d *= 2
		}
		sum += d/10 + d%10
		double = !double
	}
	return (10 - sum%10) % 10
}

// ValidateCurrency checks that cur is a 3-letter ISO 4217 code.
func ValidateCurrency(cur string) error {
	if !currencyCodeRegex.MatchString(cur) {
		return fmt.Errorf("invalid currency %q: must be 3 uppercase letters", cur)
	}
	return nil
}
