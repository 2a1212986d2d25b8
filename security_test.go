package portfolio

import (
	"errors"
	"testing"
)

func TestValidateISIN(t *testing.T) {
	testCases := []struct {
		isin  string
		valid bool
	}{
		{"IE00B4L5Y983", true},
		{"IE00BKM4GZ66", true},
		{"LU0908500753", true},
		{"DE0005933931", true},
		{"US0378331005", true},
		{"IE00B4L5Y98", false},  // too short
		{"IE00B4L5Y9833", false}, // too long
		{"ie00b4l5y983", false},  // lower case
		{"IE00B4L5Y98X", false},  // check is not a digit
		{"IE00B4L5Y984", false},  // wrong check digit
		{"", false},
	}
	for _, tc := range testCases {
		t.Run(tc.isin, func(t *testing.T) {
			err := ValidateISIN(tc.isin)
			if tc.valid && err != nil {
				t.Errorf("ValidateISIN(%q) = %v, want nil", tc.isin, err)
			}
			if !tc.valid && !errors.Is(err, ErrInvalidISIN) {
				t.Errorf("ValidateISIN(%q) = %v, want ErrInvalidISIN", tc.isin, err)
			}
		})
	}
}

func TestValidateCurrency(t *testing.T) {
	for _, cur := range []string{"EUR", "USD", "CHF"} {
		if err := ValidateCurrency(cur); err != nil {
			t.Errorf("ValidateCurrency(%q) = %v", cur, err)
		}
	}
	for _, cur := range []string{"", "eur", "EURO", "E1R"} {
		if err := ValidateCurrency(cur); err == nil {
			t.Errorf("ValidateCurrency(%q) = nil, want error", cur)
		}
	}
}

func TestParseQuantityMethod(t *testing.T) {
	for _, m := range []QuantityMethod{ByAmount, ByShares} {
		got, err := ParseQuantityMethod(m.String())
		if err != nil || got != m {
			t.Errorf("ParseQuantityMethod(%q) = %v, %v", m.String(), got, err)
		}
	}
	if _, err := ParseQuantityMethod("euros"); !errors.Is(err, ErrInvalidMethod) {
		t.Errorf("ParseQuantityMethod(euros) = %v, want ErrInvalidMethod", err)
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{Live, Demo} {
		got, err := ParseMode(string(m))
		if err != nil || got != m {
			t.Errorf("ParseMode(%q) = %v, %v", m, got, err)
		}
	}
	if _, err := ParseMode("sandbox"); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("ParseMode(sandbox) = %v, want ErrUnknownMode", err)
	}
}
