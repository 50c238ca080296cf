package services

import (
	"net/url"
	"strings"
)

const orderMessagePrefix = "I'd like to inquire about"

// BuildOrderLink returns a WhatsApp deep link pre-filled with an inquiry
// message for the given product. The link is one-way; there is no delivery
// confirmation.
func BuildOrderLink(phone, productName string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	message := orderMessagePrefix
	if productName != "" {
		message += " " + productName
	}

	// %20 rather than '+': WhatsApp decodes the text as a URI component
	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")

	return "https://wa.me/" + digits.String() + "?text=" + text
}
