// Package currency converts amounts between ISO 4217 currencies using a remote rate
// source behind a TTL cache.
package currency

import (
	"strings"

	"golang.org/x/text/currency"
)

// Fallback is served by Supported when the rate source is unavailable.
var Fallback = []string{"USD", "EUR", "GBP", "INR", "JPY", "CAD", "AUD", "CHF", "CNY"}

// IsValid reports whether code is a known upper-case ISO 4217 code.
func IsValid(code string) bool {
	if len(code) != 3 || strings.ToUpper(code) != code {
		return false
	}

	_, err := currency.ParseISO(code)

	return err == nil
}
