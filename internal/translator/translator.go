// Package translator converts free-text inventory messages into the JSON
// action documents understood by intent.ParseCommand.
package translator

import (
	"context"
	"errors"

	"stocky/internal/models"
)

// ErrNotConfigured is returned when no API key was provided.
var ErrNotConfigured = errors.New("translator not configured")

// Translator returns the raw model output for one user message.
type Translator interface {
	Translate(ctx context.Context, text string, snapshot *models.Snapshot) (string, error)
}

// SystemPrompt documents every action schema the parser accepts.
const SystemPrompt = `You are Stocky, a polite inventory assistant.

Return ONLY valid JSON.

Actions:
add, sell, setmin, setcat, setsupplier, query, wipe, remove, show, low

add/sell (price is the unit price and is optional):
{"action":"add|sell","item":"string","qty":number,"price":number,"reply":"string"}

setmin:
{"action":"setmin","item":"string","qty":number,"reply":"string"}

setcat:
{"action":"setcat","item":"string","category":"string","reply":"string"}

setsupplier:
{"action":"setsupplier","item":"string","supplier":"string","contact":"string","reply":"string"}

query/remove:
{"action":"query|remove","item":"string","reply":"string"}

wipe/show/low:
{"action":"wipe|show|low","reply":"string"}

Use the item names from the known items when the user refers to one of them.
If the message is not an inventory command, return {"action":"none","reply":"string"}.`
