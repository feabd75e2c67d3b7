package storefront

import (
	"net/url"
	"strings"
)

const (
	ChatTechnicalDifficulties = "I'm experiencing technical difficulties. Please try again in a moment or contact us directly at 01678-134547."
	ChatUnavailable           = "Sorry, I'm having trouble right now. Please contact us at 01678-134547."
	ChatHighDemand            = "I'm experiencing high demand right now. Please wait a moment and try again, or contact us directly at 01678-134547 for immediate assistance."
)

// ChatFallbackMessage is what the customer sees instead of a raw chat error.
func ChatFallbackMessage(err error) string {
	if err != nil && strings.Contains(err.Error(), "demand") {
		return ChatHighDemand
	}
	return ChatUnavailable
}

func pathSegment(s string) string {
	return url.PathEscape(s)
}
