package phone

import "strings"

// Mask hides all but the last four characters of a phone number.
func Mask(raw string) string {
	if len(raw) <= 4 {
		return strings.Repeat("*", len(raw))
	}
	return strings.Repeat("*", len(raw)-4) + raw[len(raw)-4:]
}
