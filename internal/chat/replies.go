package chat

import "strings"

type reply struct {
	keywords []string
	text     string
}

var replies = []reply{
	{
		keywords: []string{"price", "cost", "how much", "expensive"},
		text:     "The RK3588 Interactive Smart Board is $1,300. Add it to your cart and place an order; our team will confirm delivery details by email.",
	},
	{
		keywords: []string{"spec", "processor", "rk3588", "ram", "storage", "display", "4k"},
		text:     "The board runs on the octa-core Rockchip RK3588 with 8GB RAM, 128GB storage and an 86 inch 4K UHD touch display.",
	},
	{
		keywords: []string{"deliver", "shipping", "ship"},
		text:     "We deliver nationwide. Once your order is confirmed we will contact you to schedule delivery and installation.",
	},
	{
		keywords: []string{"warranty", "guarantee", "support"},
		text:     "Every board comes with a two-year warranty and remote technical support.",
	},
	{
		keywords: []string{"order", "buy", "purchase", "checkout"},
		text:     "To order, add the smart board to your cart, open checkout and fill in your contact details. You will receive a confirmation email shortly.",
	},
	{
		keywords: []string{"hello", "hi", "hey"},
		text:     "Hello! I'm the SmartTech assistant. Ask me about the smart board's features, price or delivery.",
	},
}

const defaultReply = "Thanks for your message! I can help with the smart board's features, pricing, delivery and warranty. For anything else please contact our sales team."

// Reply picks the canned answer whose keywords appear in message.
func Reply(message string) string {
	lower := strings.ToLower(message)
	for _, r := range replies {
		for _, kw := range r.keywords {
			if containsWord(lower, kw) {
				return r.text
			}
		}
	}
	return defaultReply
}

// containsWord matches kw at word boundaries so "hi" does not fire inside "shipping".
func containsWord(text, kw string) bool {
	for idx := 0; ; {
		pos := strings.Index(text[idx:], kw)
		if pos < 0 {
			return false
		}
		start := idx + pos
		end := start + len(kw)
		if (start == 0 || !isWordChar(text[start-1])) && (end == len(text) || !isWordChar(text[end]) || isPrefixKeyword(kw)) {
			return true
		}
		idx = start + 1
	}
}

// some keywords are stems ("deliver", "spec", "ship") that should match longer words.
func isPrefixKeyword(kw string) bool {
	switch kw {
	case "deliver", "spec", "ship", "order", "purchase":
		return true
	}
	return false
}

func isWordChar(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}
