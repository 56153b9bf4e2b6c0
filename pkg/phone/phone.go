package phone

import (
	"DrowsyGuard/internal/entity"
	"strings"
)

const (
	CountryCode      = "+91"
	SubscriberDigits = 10
)

// Format drops every non-digit from raw and turns the remaining ten digits
// into a Contact. Any other digit count is rejected.
func Format(raw string) (entity.Contact, bool) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	if digits.Len() != SubscriberDigits {
		return "", false
	}

	return entity.Contact(CountryCode + digits.String()), true
}
