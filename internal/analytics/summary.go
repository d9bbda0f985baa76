package analytics

import (
	"strconv"
	"time"

	"stocky/internal/models"

	"github.com/shopspring/decimal"
)

type PeriodSummary struct {
	Label         string          `json:"label"`
	Days          int             `json:"days"`
	UnitsSold     int             `json:"units_sold"`
	UnitsReceived int             `json:"units_received"`
	Revenue       decimal.Decimal `json:"revenue"`
	Profit        decimal.Decimal `json:"profit"`
	Transactions  int             `json:"transactions"`
	TopItems      []ItemCount     `json:"top_items"`
	Skipped       int             `json:"skipped"`
}

// Dashboard is the cached aggregate behind the /dashboard page.
type Dashboard struct {
	TopSold          []ItemCount                `json:"top_sold"`
	TransactionCount int                        `json:"transaction_count"`
	Turnover         int                        `json:"turnover"`
	Profit           decimal.Decimal            `json:"profit"`
	ProfitByItem     map[string]decimal.Decimal `json:"profit_by_item"`
	LowStock         []LowStockItem             `json:"low_stock"`
	Reorder          []ReorderSuggestion        `json:"reorder"`
	GeneratedAt      time.Time                  `json:"generated_at"`
}

// Report combines the daily and weekly summaries with the current stock.
type Report struct {
	Daily       PeriodSummary       `json:"daily"`
	Weekly      PeriodSummary       `json:"weekly"`
	Inventory   []InventoryRow      `json:"inventory"`
	LowStock    []LowStockItem      `json:"low_stock"`
	Reorder     []ReorderSuggestion `json:"reorder"`
	Profit      decimal.Decimal     `json:"profit"`
	Turnover    int                 `json:"turnover"`
	GeneratedAt time.Time           `json:"generated_at"`
}

// Summary aggregates the records less than days whole days old. Records with
// an unparseable timestamp are counted in Skipped and otherwise ignored.
func Summary(s *models.Snapshot, days int, now time.Time) PeriodSummary {
	summary := PeriodSummary{
		Label:   summaryLabel(days),
		Days:    days,
		Revenue: decimal.Zero,
		Profit:  decimal.Zero,
	}

	var window []models.Transaction
	for _, tx := range s.History {
		ts, err := tx.Timestamp()
		if err != nil {
			summary.Skipped++
			continue
		}
		if elapsedDays(now, ts) >= days {
			continue
		}
		window = append(window, tx)
		summary.Transactions++

		switch tx.Direction {
		case models.DirectionOut:
			summary.UnitsSold += tx.Quantity
			summary.Revenue = summary.Revenue.Add(tx.Total())
			summary.Profit = summary.Profit.Add(saleProfit(s, tx))
		case models.DirectionIn:
			summary.UnitsReceived += tx.Quantity
		}
	}

	summary.TopItems = TopSold(window, DefaultTopSold)
	return summary
}

func summaryLabel(days int) string {
	switch days {
	case 1:
		return "Daily"
	case 7:
		return "Weekly"
	default:
		return "Last " + strconv.Itoa(days) + " days"
	}
}

func BuildDashboard(s *models.Snapshot, now time.Time) *Dashboard {
	return &Dashboard{
		TopSold:          TopSold(s.History, DefaultTopSold),
		TransactionCount: TransactionCount(s),
		Turnover:         Turnover(s),
		Profit:           Profit(s),
		ProfitByItem:     ProfitByItem(s),
		LowStock:         LowStock(s),
		Reorder:          SmartReorder(s),
		GeneratedAt:      now,
	}
}

func BuildReport(s *models.Snapshot, now time.Time) *Report {
	return &Report{
		Daily:       Summary(s, 1, now),
		Weekly:      Summary(s, 7, now),
		Inventory:   InventoryRows(s),
		LowStock:    LowStock(s),
		Reorder:     SmartReorder(s),
		Profit:      Profit(s),
		Turnover:    Turnover(s),
		GeneratedAt: now,
	}
}
