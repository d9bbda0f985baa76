package intent

import (
	"regexp"
	"strings"

	"stocky/internal/models"
)

// SUBJECT [in|to|into|with] [the] same category|supplier as|with REF
var copyCommandPattern = regexp.MustCompile(`(?i)(\S+)\s+(?:(?:in|to|into|with)\s+)?(?:the\s+)?same\s+(category|supplier)\s+(?:as|with)\s+(\S+)`)

var conjunctions = map[string]bool{"and": true, "also": true, "plus": true}

// ResolveCopyCommands finds "same category as REF" / "same supplier as REF"
// phrases and turns each into an action copying REF's attribute onto the
// word right before the phrase. References without a recorded category or
// supplier are ignored.
func ResolveCopyCommands(text string, inventory map[string]int, categories map[string]string, suppliers map[string]models.Supplier) []models.Action {
	matches := copyCommandPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	var actions []models.Action
	previousSubject := ""
	for _, match := range matches {
		subjectWord := cleanWord(match[1])
		if conjunctions[strings.ToLower(subjectWord)] {
			subjectWord = previousSubject
		}
		if subjectWord == "" {
			continue
		}
		subject := ResolveItemKeyword(subjectWord, inventory)
		previousSubject = subjectWord
		refWord := cleanWord(match[3])

		switch strings.ToLower(match[2]) {
		case "category":
			ref := resolveAgainst(refWord, models.SortedKeys(categories))
			if category, ok := categories[ref]; ok {
				actions = append(actions, models.SetCategory{Item: subject, Category: category})
			}
		case "supplier":
			ref := resolveAgainst(refWord, models.SortedKeys(suppliers))
			if supplier, ok := suppliers[ref]; ok {
				actions = append(actions, models.SetSupplier{Item: subject, Supplier: supplier})
			}
		}
	}
	return actions
}

func cleanWord(word string) string {
	return strings.Trim(word, ".,!?;:\"'()")
}
