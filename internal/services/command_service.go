package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"stocky/internal/analytics"
	"stocky/internal/caching"
	"stocky/internal/intent"
	"stocky/internal/models"
	"stocky/internal/repositories"
	"stocky/internal/translator"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Outcome string

const (
	OutcomeApplied               Outcome = "applied"
	OutcomeAnswered              Outcome = "answered"
	OutcomeConfirmationRequired  Outcome = "confirmation_required"
	OutcomeWiped                 Outcome = "wiped"
	OutcomeNoIntent              Outcome = "no_intent"
	OutcomeInvalidAction         Outcome = "invalid_action"
	OutcomeInvalidInput          Outcome = "invalid_input"
	OutcomeTranslatorUnavailable Outcome = "translator_unavailable"
)

const (
	ReplyEmptyMessage         = "Please type a command. Try: We received 10 coke"
	ReplyNoIntent             = "Try: We received 10 coke"
	ReplyInvalidAction        = "Sorry, I didn't understand that. Try: We received 10 coke"
	ReplyInvalidItem          = "Which item? Try: Sold 3 coke"
	ReplyInvalidQuantity      = "The quantity must be a whole number. Try: Sold 3 coke"
	ReplyInvalidPrice         = "The price must be a number. Try: We received 10 coke at 15 pesos"
	ReplyTranslatorDown       = "The assistant is unavailable right now. Please try again in a moment."
	ReplyNoPendingWipe        = "There is no pending wipe."
	ReplyWiped                = "Inventory wiped."
	ReplyConfirmationRequired = "This will clear the whole inventory. Type " + ConfirmPhrase + " to proceed."
)

// Result is what a single message did.
type Result struct {
	Reply   string  `json:"reply"`
	Outcome Outcome `json:"outcome"`
	Mutated bool    `json:"mutated"`
}

// CommandService turns one free-text message into at most one committed change.
type CommandService interface {
	Handle(ctx context.Context, sessionID, text string) (*Result, error)
}

type commandService struct {
	// mu serialises load-mutate-commit cycles within the process.
	mu sync.Mutex

	store         repositories.StoreRepository
	translator    translator.Translator
	confirmations ConfirmationService
	txLogger      TransactionLogger
	cacheService  caching.CacheService
	log           *zap.Logger
}

func NewCommandService(store repositories.StoreRepository, tr translator.Translator, confirmations ConfirmationService, txLogger TransactionLogger, cacheService caching.CacheService, log *zap.Logger) CommandService {
	return &commandService{
		store:         store,
		translator:    tr,
		confirmations: confirmations,
		txLogger:      txLogger,
		cacheService:  cacheService,
		log:           log,
	}
}

func (s *commandService) Handle(ctx context.Context, sessionID, text string) (*Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return &Result{Reply: ReplyEmptyMessage, Outcome: OutcomeInvalidInput}, nil
	}

	if text == ConfirmPhrase {
		return s.confirmWipe(ctx, sessionID)
	}

	view, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stores: %w", err)
	}

	if actions := intent.ResolveCopyCommands(text, view.Inventory, view.Categories, view.Suppliers); len(actions) > 0 {
		return s.apply(ctx, actions, "")
	}

	if query, ok := intent.DetectStockQuery(text, view.Inventory); ok {
		return &Result{Reply: stockReply(query.Item, query.Quantity), Outcome: OutcomeAnswered}, nil
	}

	raw, err := s.translator.Translate(ctx, text, view)
	if err != nil {
		s.log.Warn("Translator request failed", zap.Error(err))
		return &Result{Reply: ReplyTranslatorDown, Outcome: OutcomeTranslatorUnavailable}, nil
	}

	cmd, err := intent.ParseCommand(raw)
	if err != nil {
		s.log.Info("Rejected translator output", zap.Error(err), zap.String("output", raw))
		return rejection(err), nil
	}

	action := intent.ResolveActionItems(cmd.Action, view.Inventory)
	switch a := action.(type) {
	case models.WipeInventory:
		if err := s.confirmations.Arm(ctx, sessionID); err != nil {
			return nil, err
		}
		s.log.Info("Wipe requested, awaiting confirmation", zap.String("session", sessionID))
		return &Result{Reply: ReplyConfirmationRequired, Outcome: OutcomeConfirmationRequired}, nil
	case models.QueryStock:
		return &Result{Reply: stockReply(a.Item, view.Inventory[a.Item]), Outcome: OutcomeAnswered}, nil
	case models.ShowInventory:
		return &Result{Reply: inventoryReply(view), Outcome: OutcomeAnswered}, nil
	case models.ShowLowStock:
		return &Result{Reply: lowStockReply(view), Outcome: OutcomeAnswered}, nil
	}

	return s.apply(ctx, []models.Action{action}, cmd.Reply)
}

// apply runs the actions against a freshly loaded snapshot and commits every
// store once.
func (s *commandService) apply(ctx context.Context, actions []models.Action, reply string) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stores: %w", err)
	}

	lines := make([]string, 0, len(actions))
	for _, action := range actions {
		action = intent.ResolveActionItems(action, snapshot.Inventory)
		lines = append(lines, s.applyAction(snapshot, action))
		s.log.Info("Applying action", zap.String("action", string(action.Kind())))
	}

	if err := s.commit(ctx, snapshot); err != nil {
		return nil, err
	}

	if reply == "" {
		reply = strings.Join(lines, " ")
	}
	return &Result{Reply: reply, Outcome: OutcomeApplied, Mutated: true}, nil
}

func (s *commandService) applyAction(snapshot *models.Snapshot, action models.Action) string {
	switch a := action.(type) {
	case models.AddStock:
		snapshot.Inventory[a.Item] += a.Quantity
		price := snapshot.Prices[a.Item]
		if a.Price != nil {
			price.Buy = *a.Price
			snapshot.Prices[a.Item] = price
		}
		s.txLogger.Log(snapshot, a.Item, models.DirectionIn, a.Quantity, price.Buy)
		if a.Price != nil {
			return fmt.Sprintf("Added %d %s at %s. Stock: %d.", a.Quantity, a.Item, formatPrice(*a.Price), snapshot.Inventory[a.Item])
		}
		return fmt.Sprintf("Added %d %s. Stock: %d.", a.Quantity, a.Item, snapshot.Inventory[a.Item])

	case models.SellStock:
		snapshot.Inventory[a.Item] -= a.Quantity
		price := snapshot.Prices[a.Item]
		if a.Price != nil {
			price.Sell = *a.Price
			snapshot.Prices[a.Item] = price
		}
		s.txLogger.Log(snapshot, a.Item, models.DirectionOut, a.Quantity, price.Sell)
		if a.Price != nil {
			return fmt.Sprintf("Sold %d %s at %s. Stock: %d.", a.Quantity, a.Item, formatPrice(*a.Price), snapshot.Inventory[a.Item])
		}
		return fmt.Sprintf("Sold %d %s. Stock: %d.", a.Quantity, a.Item, snapshot.Inventory[a.Item])

	case models.SetMinimum:
		snapshot.MinLevels[a.Item] = a.Minimum
		return fmt.Sprintf("Minimum for %s set to %d.", a.Item, a.Minimum)

	case models.SetCategory:
		snapshot.Categories[a.Item] = a.Category
		return fmt.Sprintf("%s is now in category %s.", a.Item, a.Category)

	case models.SetSupplier:
		snapshot.Suppliers[a.Item] = a.Supplier
		return fmt.Sprintf("%s is now supplied by %s.", a.Item, a.Supplier.Name)

	case models.RemoveItem:
		delete(snapshot.Inventory, a.Item)
		delete(snapshot.MinLevels, a.Item)
		return fmt.Sprintf("Removed %s.", a.Item)
	}
	return "Updated."
}

// confirmWipe checks and consumes the pending flag under the same lock as the
// wipe, so one armed flag wipes at most once.
func (s *commandService) confirmWipe(ctx context.Context, sessionID string) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.confirmations.State(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if state != ConfirmationPending {
		return &Result{Reply: ReplyNoPendingWipe, Outcome: OutcomeAnswered}, nil
	}

	snapshot, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stores: %w", err)
	}
	snapshot.Inventory = map[string]int{}
	if err := s.commit(ctx, snapshot); err != nil {
		return nil, err
	}

	if err := s.confirmations.Clear(ctx, sessionID); err != nil {
		s.log.Error("Inventory wiped but confirmation flag was not cleared", zap.String("session", sessionID), zap.Error(err))
	}
	s.log.Warn("Inventory wiped", zap.String("session", sessionID))
	return &Result{Reply: ReplyWiped, Outcome: OutcomeWiped, Mutated: true}, nil
}

func (s *commandService) commit(ctx context.Context, snapshot *models.Snapshot) error {
	if err := s.store.Commit(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to commit stores: %w", err)
	}
	if err := s.cacheService.InvalidateAnalytics(ctx); err != nil {
		s.log.Warn("Failed to invalidate analytics cache", zap.Error(err))
	}
	return nil
}

func rejection(err error) *Result {
	switch {
	case errors.Is(err, intent.ErrNoIntent):
		return &Result{Reply: ReplyNoIntent, Outcome: OutcomeNoIntent}
	case errors.Is(err, intent.ErrInvalidItem):
		return &Result{Reply: ReplyInvalidItem, Outcome: OutcomeInvalidInput}
	case errors.Is(err, intent.ErrInvalidQuantity):
		return &Result{Reply: ReplyInvalidQuantity, Outcome: OutcomeInvalidInput}
	case errors.Is(err, intent.ErrInvalidPrice):
		return &Result{Reply: ReplyInvalidPrice, Outcome: OutcomeInvalidInput}
	default:
		return &Result{Reply: ReplyInvalidAction, Outcome: OutcomeInvalidAction}
	}
}

func stockReply(item string, qty int) string {
	return fmt.Sprintf("%s: %d left", item, qty)
}

func inventoryReply(snapshot *models.Snapshot) string {
	items := snapshot.Items()
	if len(items) == 0 {
		return "Inventory is empty."
	}
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("%s: %d", item, snapshot.Inventory[item]))
	}
	return "Inventory: " + strings.Join(parts, ", ")
}

func lowStockReply(snapshot *models.Snapshot) string {
	low := analytics.LowStock(snapshot)
	if len(low) == 0 {
		return "No items are low on stock."
	}
	parts := make([]string, 0, len(low))
	for _, item := range low {
		parts = append(parts, fmt.Sprintf("%s (%d, min %d)", item.Item, item.Quantity, item.Minimum))
	}
	return "Low stock: " + strings.Join(parts, ", ")
}

// formatPrice renders a price with two decimals.
func formatPrice(d decimal.Decimal) string {
	return d.StringFixed(2)
}
