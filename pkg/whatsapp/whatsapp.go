package whatsapp

import (
	"net/url"
	"strings"
)

// NormalizePhone reduces a phone number to the digits-only international form
// wa.me expects. Indonesian local numbers ("08xx") become "628xx".
func NormalizePhone(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	normalized := digits.String()
	if strings.HasPrefix(normalized, "0") {
		normalized = "62" + normalized[1:]
	}
	return normalized
}

// BuildLink builds a wa.me deep link opening a chat with the given number,
// pre-filled with the URL-encoded text. Delivery and replies are outside this
// system's responsibility.
func BuildLink(phone, text string) string {
	return "https://wa.me/" + NormalizePhone(phone) + "?text=" + url.QueryEscape(text)
}
