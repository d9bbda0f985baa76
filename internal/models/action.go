package models

import "github.com/shopspring/decimal"

type ActionKind string

const (
	ActionAdd         ActionKind = "add"
	ActionSell        ActionKind = "sell"
	ActionSetMin      ActionKind = "setmin"
	ActionSetCategory ActionKind = "setcat"
	ActionSetSupplier ActionKind = "setsupplier"
	ActionQuery       ActionKind = "query"
	ActionWipe        ActionKind = "wipe"
	ActionRemove      ActionKind = "remove"
	ActionShow        ActionKind = "show"
	ActionLow         ActionKind = "low"
)

// Action is the closed set of operations a command can resolve to. Every
// variant is validated before it reaches the applicator.
type Action interface {
	Kind() ActionKind
	// Mutates reports whether applying the action changes any store.
	Mutates() bool
}

type AddStock struct {
	Item     string
	Quantity int
	Price    *decimal.Decimal
}

type SellStock struct {
	Item     string
	Quantity int
	Price    *decimal.Decimal
}

type SetMinimum struct {
	Item    string
	Minimum int
}

type SetCategory struct {
	Item     string
	Category string
}

type SetSupplier struct {
	Item     string
	Supplier Supplier
}

type QueryStock struct {
	Item string
}

type WipeInventory struct{}

type RemoveItem struct {
	Item string
}

type ShowInventory struct{}

type ShowLowStock struct{}

func (AddStock) Kind() ActionKind      { return ActionAdd }
func (SellStock) Kind() ActionKind     { return ActionSell }
func (SetMinimum) Kind() ActionKind    { return ActionSetMin }
func (SetCategory) Kind() ActionKind   { return ActionSetCategory }
func (SetSupplier) Kind() ActionKind   { return ActionSetSupplier }
func (QueryStock) Kind() ActionKind    { return ActionQuery }
func (WipeInventory) Kind() ActionKind { return ActionWipe }
func (RemoveItem) Kind() ActionKind    { return ActionRemove }
func (ShowInventory) Kind() ActionKind { return ActionShow }
func (ShowLowStock) Kind() ActionKind  { return ActionLow }

func (AddStock) Mutates() bool    { return true }
func (SellStock) Mutates() bool   { return true }
func (SetMinimum) Mutates() bool  { return true }
func (SetCategory) Mutates() bool { return true }
func (SetSupplier) Mutates() bool { return true }
func (QueryStock) Mutates() bool  { return false }

// Wipe only arms the confirmation; the clear itself happens on confirm.
func (WipeInventory) Mutates() bool { return false }
func (RemoveItem) Mutates() bool    { return true }
func (ShowInventory) Mutates() bool { return false }
func (ShowLowStock) Mutates() bool  { return false }

// Command is a validated action plus the reply text the translator suggested.
type Command struct {
	Action Action
	Reply  string
}
