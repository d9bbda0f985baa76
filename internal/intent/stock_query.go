package intent

import (
	"regexp"
	"strings"
)

// Stock query patterns, in priority order.
var stockQueryPatterns = []*regexp.Regexp{
	// how many X
	regexp.MustCompile(`(?i)\bhow\s+many\s+([a-z0-9][\w\s-]*?)(?:\s+(?:do\s+(?:we|i|you)\s+(?:still\s+)?have(?:\s+left)?(?:\s+in\s+stock)?|are\s+(?:there\s+|still\s+)?(?:left|remaining|in\s+stock|on\s+hand)|are\s+there|is\s+(?:there|left)|left(?:\s+in\s+stock)?|remaining|in\s+stock|on\s+hand))?\s*\?*$`),
	// X left
	regexp.MustCompile(`(?i)\b([a-z0-9][\w-]*)\s+left\s*\?*$`),
	// remaining X
	regexp.MustCompile(`(?i)\bremaining\s+([a-z0-9][\w\s-]*?)\s*\?*$`),
	// stock of X
	regexp.MustCompile(`(?i)\bstock\s+of\s+([a-z0-9][\w\s-]*?)\s*\?*$`),
	// X?
	regexp.MustCompile(`(?i)^([a-z0-9][\w-]*)\s*\?$`),
}

// StockQuery is a direct stock-level question answered without the translator.
type StockQuery struct {
	Item     string
	Quantity int
}

// DetectStockQuery matches text against the stock query patterns. Unknown
// items resolve to their literal name with a quantity of zero.
func DetectStockQuery(text string, inventory map[string]int) (StockQuery, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return StockQuery{}, false
	}

	for _, pattern := range stockQueryPatterns {
		match := pattern.FindStringSubmatch(trimmed)
		if match == nil {
			continue
		}
		word := strings.TrimSpace(match[1])
		if word == "" {
			continue
		}
		item := ResolveItemKeyword(word, inventory)
		return StockQuery{Item: item, Quantity: inventory[item]}, true
	}
	return StockQuery{}, false
}
