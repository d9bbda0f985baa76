// Package intent turns free text and translator output into validated
// inventory actions. Nothing in here fails a request: a non-match means
// "ask the translator" or "use the text as the item name".
package intent

import (
	"strings"

	"stocky/internal/models"
)

// ResolveItemKeyword folds a typed item name onto an existing inventory key.
// A case-insensitive exact match wins, then the first key (in sorted order)
// starting with the lower-cased word, then the first key containing it;
// otherwise the word itself is returned, which means a typo creates a new item.
func ResolveItemKeyword(word string, inventory map[string]int) string {
	return resolveAgainst(word, models.SortedKeys(inventory))
}

func resolveAgainst(word string, keys []string) string {
	literal := strings.TrimSpace(word)
	needle := strings.ToLower(literal)
	if needle == "" {
		return literal
	}

	for _, key := range keys {
		if strings.ToLower(key) == needle {
			return key
		}
	}
	for _, key := range keys {
		if strings.HasPrefix(strings.ToLower(key), needle) {
			return key
		}
	}
	for _, key := range keys {
		if strings.Contains(strings.ToLower(key), needle) {
			return key
		}
	}
	return literal
}

// ResolveActionItems returns the action with its item name folded onto the
// inventory keys. Actions without an item are returned unchanged.
func ResolveActionItems(action models.Action, inventory map[string]int) models.Action {
	switch a := action.(type) {
	case models.AddStock:
		a.Item = ResolveItemKeyword(a.Item, inventory)
		return a
	case models.SellStock:
		a.Item = ResolveItemKeyword(a.Item, inventory)
		return a
	case models.SetMinimum:
		a.Item = ResolveItemKeyword(a.Item, inventory)
		return a
	case models.SetCategory:
		a.Item = ResolveItemKeyword(a.Item, inventory)
		return a
	case models.SetSupplier:
		a.Item = ResolveItemKeyword(a.Item, inventory)
		return a
	case models.QueryStock:
		a.Item = ResolveItemKeyword(a.Item, inventory)
		return a
	case models.RemoveItem:
		a.Item = ResolveItemKeyword(a.Item, inventory)
		return a
	default:
		return action
	}
}
