// Package analytics derives stock views from a snapshot: low stock, reorder
// suggestions, profit, turnover, most sold items and period summaries.
//
// Every function here is pure. Joins between stores happen by item name.
package analytics

import (
	"math"
	"sort"
	"time"

	"stocky/internal/models"

	"github.com/shopspring/decimal"
)

// MinimumReorderQuantity is the floor of every reorder suggestion.
const MinimumReorderQuantity = 5

// DefaultTopSold is how many items the most-sold lists keep.
const DefaultTopSold = 5

type LowStockItem struct {
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
	Minimum  int    `json:"minimum"`
}

type ReorderSuggestion struct {
	Item      string `json:"item"`
	OnHand    int    `json:"on_hand"`
	TotalSold int    `json:"total_sold"`
	Quantity  int    `json:"quantity"`
}

type ItemCount struct {
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
}

// InventoryRow joins every store for one item.
type InventoryRow struct {
	Item     string          `json:"item"`
	Category string          `json:"category"`
	Supplier models.Supplier `json:"supplier"`
	Quantity int             `json:"quantity"`
	Minimum  int             `json:"minimum"`
	BuyPrice decimal.Decimal `json:"buy_price"`
	Low      bool            `json:"low"`
}

// LowStock lists items whose quantity is at or below their minimum, by name.
func LowStock(s *models.Snapshot) []LowStockItem {
	low := []LowStockItem{}
	for _, item := range s.Items() {
		qty := s.Inventory[item]
		min := s.MinimumFor(item)
		if qty <= min {
			low = append(low, LowStockItem{Item: item, Quantity: qty, Minimum: min})
		}
	}
	return low
}

// SoldTotals sums OUT quantities per item over the whole history.
func SoldTotals(history []models.Transaction) map[string]int {
	totals := map[string]int{}
	for _, tx := range history {
		if tx.Direction == models.DirectionOut {
			totals[tx.Item] += tx.Quantity
		}
	}
	return totals
}

// ReorderQuantity is roughly ten days of the average weekly sales rate,
// never less than MinimumReorderQuantity.
func ReorderQuantity(totalSold int) int {
	qty := int(float64(totalSold) / 7 * 10)
	if qty < MinimumReorderQuantity {
		return MinimumReorderQuantity
	}
	return qty
}

// SmartReorder suggests quantities for low items that have sold at least once.
func SmartReorder(s *models.Snapshot) []ReorderSuggestion {
	sold := SoldTotals(s.History)

	suggestions := []ReorderSuggestion{}
	for _, low := range LowStock(s) {
		if _, ok := sold[low.Item]; !ok {
			continue
		}
		suggestions = append(suggestions, ReorderSuggestion{
			Item:      low.Item,
			OnHand:    low.Quantity,
			TotalSold: sold[low.Item],
			Quantity:  ReorderQuantity(sold[low.Item]),
		})
	}
	return suggestions
}

// saleProfit uses the item's current buy price, not the one in effect at the
// time of the sale.
func saleProfit(s *models.Snapshot, tx models.Transaction) decimal.Decimal {
	buy := s.Prices[tx.Item].Buy
	return tx.Price.Sub(buy).Mul(decimal.NewFromInt(int64(tx.Quantity)))
}

// Profit sums (sale price - current buy price) x quantity over every OUT record.
func Profit(s *models.Snapshot) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range s.History {
		if tx.Direction == models.DirectionOut {
			total = total.Add(saleProfit(s, tx))
		}
	}
	return total
}

// ProfitByItem is Profit split per item.
func ProfitByItem(s *models.Snapshot) map[string]decimal.Decimal {
	profits := map[string]decimal.Decimal{}
	for _, tx := range s.History {
		if tx.Direction == models.DirectionOut {
			profits[tx.Item] = profits[tx.Item].Add(saleProfit(s, tx))
		}
	}
	return profits
}

// Turnover is the number of units sold across the whole history.
func Turnover(s *models.Snapshot) int {
	total := 0
	for _, tx := range s.History {
		if tx.Direction == models.DirectionOut {
			total += tx.Quantity
		}
	}
	return total
}

func TransactionCount(s *models.Snapshot) int {
	return len(s.History)
}

// TopSold returns the n items with the highest sold quantity. Ties keep the
// order in which the items first appear in the history.
func TopSold(history []models.Transaction, n int) []ItemCount {
	counts := []ItemCount{}
	index := map[string]int{}
	for _, tx := range history {
		if tx.Direction != models.DirectionOut {
			continue
		}
		i, ok := index[tx.Item]
		if !ok {
			i = len(counts)
			index[tx.Item] = i
			counts = append(counts, ItemCount{Item: tx.Item})
		}
		counts[i].Quantity += tx.Quantity
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Quantity > counts[j].Quantity
	})
	if n > 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// InventoryRows joins inventory, minimums, categories, suppliers and prices.
func InventoryRows(s *models.Snapshot) []InventoryRow {
	rows := make([]InventoryRow, 0, len(s.Inventory))
	for _, item := range s.Items() {
		qty := s.Inventory[item]
		min := s.MinimumFor(item)
		rows = append(rows, InventoryRow{
			Item:     item,
			Category: s.Categories[item],
			Supplier: s.Suppliers[item],
			Quantity: qty,
			Minimum:  min,
			BuyPrice: s.Prices[item].Buy,
			Low:      qty <= min,
		})
	}
	return rows
}

// elapsedDays counts whole days between ts and now, flooring like a naive
// date difference. Timestamps in the future give negative values.
func elapsedDays(now, ts time.Time) int {
	return int(math.Floor(now.Sub(ts).Hours() / 24))
}
