package intent

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"stocky/internal/models"

	"github.com/shopspring/decimal"
)

var (
	// ErrNoIntent means the text did not contain an inventory command.
	ErrNoIntent = errors.New("no inventory intent recognised")
	// ErrInvalidSchema means the translator output is not a valid action document.
	ErrInvalidSchema = errors.New("action schema invalid")
	// ErrInvalidItem means the action names no usable item.
	ErrInvalidItem = errors.New("item invalid")
	// ErrInvalidQuantity means the quantity is missing or not a whole number.
	ErrInvalidQuantity = errors.New("quantity invalid")
	// ErrInvalidPrice means a price was given but is not a non-negative number.
	ErrInvalidPrice = errors.New("price invalid")
)

type rawCommand struct {
	Action   string          `json:"action"`
	Item     string          `json:"item"`
	Qty      json.RawMessage `json:"qty"`
	Price    json.RawMessage `json:"price"`
	Category string          `json:"category"`
	Supplier string          `json:"supplier"`
	Contact  string          `json:"contact"`
	Reply    string          `json:"reply"`
}

// ParseCommand validates raw translator output into a command. Every failure
// wraps one of the sentinel errors above.
func ParseCommand(raw string) (*models.Command, error) {
	body, err := extractJSON(raw)
	if err != nil {
		return nil, err
	}

	var rc rawCommand
	if err := json.Unmarshal(body, &rc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}

	action, err := rc.toAction()
	if err != nil {
		return nil, err
	}
	return &models.Command{Action: action, Reply: strings.TrimSpace(rc.Reply)}, nil
}

func (rc rawCommand) toAction() (models.Action, error) {
	kind := models.ActionKind(strings.ToLower(strings.TrimSpace(rc.Action)))
	item := strings.TrimSpace(rc.Item)

	switch kind {
	case "", "none", "unknown":
		return nil, ErrNoIntent

	case models.ActionAdd, models.ActionSell:
		if item == "" {
			return nil, fmt.Errorf("%w: %s requires an item", ErrInvalidItem, kind)
		}
		qty, err := coerceQuantity(rc.Qty)
		if err != nil {
			return nil, err
		}
		if qty <= 0 {
			return nil, fmt.Errorf("%w: %s quantity must be positive", ErrInvalidQuantity, kind)
		}
		price, err := coercePrice(rc.Price)
		if err != nil {
			return nil, err
		}
		if kind == models.ActionAdd {
			return models.AddStock{Item: item, Quantity: qty, Price: price}, nil
		}
		return models.SellStock{Item: item, Quantity: qty, Price: price}, nil

	case models.ActionSetMin:
		if item == "" {
			return nil, fmt.Errorf("%w: setmin requires an item", ErrInvalidItem)
		}
		qty, err := coerceQuantity(rc.Qty)
		if err != nil {
			return nil, err
		}
		if qty < 0 {
			return nil, fmt.Errorf("%w: minimum cannot be negative", ErrInvalidQuantity)
		}
		return models.SetMinimum{Item: item, Minimum: qty}, nil

	case models.ActionSetCategory:
		if item == "" {
			return nil, fmt.Errorf("%w: setcat requires an item", ErrInvalidItem)
		}
		category := strings.TrimSpace(rc.Category)
		if category == "" {
			return nil, fmt.Errorf("%w: setcat requires a category", ErrInvalidSchema)
		}
		return models.SetCategory{Item: item, Category: category}, nil

	case models.ActionSetSupplier:
		if item == "" {
			return nil, fmt.Errorf("%w: setsupplier requires an item", ErrInvalidItem)
		}
		name := strings.TrimSpace(rc.Supplier)
		if name == "" {
			return nil, fmt.Errorf("%w: setsupplier requires a supplier", ErrInvalidSchema)
		}
		return models.SetSupplier{Item: item, Supplier: models.Supplier{Name: name, Contact: strings.TrimSpace(rc.Contact)}}, nil

	case models.ActionQuery, models.ActionRemove:
		if item == "" {
			return nil, fmt.Errorf("%w: %s requires an item", ErrInvalidItem, kind)
		}
		if kind == models.ActionQuery {
			return models.QueryStock{Item: item}, nil
		}
		return models.RemoveItem{Item: item}, nil

	case models.ActionWipe:
		return models.WipeInventory{}, nil
	case models.ActionShow:
		return models.ShowInventory{}, nil
	case models.ActionLow:
		return models.ShowLowStock{}, nil
	}

	return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidSchema, rc.Action)
}

// extractJSON tolerates code fences and chatter around the JSON object.
func extractJSON(raw string) ([]byte, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: no JSON object in translator output", ErrInvalidSchema)
	}
	return []byte(raw[start : end+1]), nil
}

// coerceQuantity accepts JSON numbers and numeric strings holding a whole number.
func coerceQuantity(raw json.RawMessage) (int, error) {
	value, err := decodeScalar(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidQuantity, err)
	}

	var text string
	switch v := value.(type) {
	case nil:
		return 0, fmt.Errorf("%w: quantity missing", ErrInvalidQuantity)
	case json.Number:
		text = v.String()
	case string:
		text = strings.TrimSpace(v)
	default:
		return 0, fmt.Errorf("%w: quantity has type %T", ErrInvalidQuantity, value)
	}

	if n, err := strconv.Atoi(text); err == nil {
		if n > math.MaxInt32 || n < -math.MaxInt32 {
			return 0, fmt.Errorf("%w: %q is out of range", ErrInvalidQuantity, text)
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %q is not a whole number", ErrInvalidQuantity, text)
	}
	return int(f), nil
}

// coercePrice returns nil when no price was given.
func coercePrice(raw json.RawMessage) (*decimal.Decimal, error) {
	value, err := decodeScalar(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrice, err)
	}

	var text string
	switch v := value.(type) {
	case nil:
		return nil, nil
	case json.Number:
		text = v.String()
	case string:
		text = strings.TrimSpace(v)
		if text == "" {
			return nil, nil
		}
	default:
		return nil, fmt.Errorf("%w: price has type %T", ErrInvalidPrice, value)
	}

	price, err := decimal.NewFromString(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPrice, text)
	}
	if price.IsNegative() {
		return nil, fmt.Errorf("%w: negative price", ErrInvalidPrice)
	}
	return &price, nil
}

func decodeScalar(raw json.RawMessage) (interface{}, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var value interface{}
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}
	return value, nil
}
