package jobs

import (
	"context"

	"stocky/internal/analytics"

	"go.uber.org/zap"
)

// LowStockAlertService scans the inventory for items at or below their
// minimum level.
type LowStockAlertService struct {
	analyticsService analytics.Service
	log              *zap.Logger
}

type LowStockAlert struct {
	Item     string
	Quantity int
	Minimum  int
	// Reorder is the suggested replenishment quantity, zero for items that
	// have never sold.
	Reorder int
}

func NewLowStockAlertService(analyticsService analytics.Service, log *zap.Logger) *LowStockAlertService {
	return &LowStockAlertService{
		analyticsService: analyticsService,
		log:              log,
	}
}

func (a *LowStockAlertService) CheckLowStock(ctx context.Context) ([]LowStockAlert, error) {
	snapshot, err := a.analyticsService.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	reorder := map[string]int{}
	for _, suggestion := range analytics.SmartReorder(snapshot) {
		reorder[suggestion.Item] = suggestion.Quantity
	}

	low := analytics.LowStock(snapshot)
	alerts := make([]LowStockAlert, 0, len(low))
	for _, item := range low {
		alerts = append(alerts, LowStockAlert{
			Item:     item.Item,
			Quantity: item.Quantity,
			Minimum:  item.Minimum,
			Reorder:  reorder[item.Item],
		})
	}
	return alerts, nil
}

func (a *LowStockAlertService) LogLowStockAlerts(alerts []LowStockAlert) {
	if len(alerts) == 0 {
		a.log.Debug("No low stock alerts")
		return
	}

	a.log.Info("Low stock detected", zap.Int("items", len(alerts)))
	for _, alert := range alerts {
		fields := []zap.Field{
			zap.String("item", alert.Item),
			zap.Int("quantity", alert.Quantity),
			zap.Int("minimum", alert.Minimum),
		}
		if alert.Reorder > 0 {
			fields = append(fields, zap.Int("suggested_reorder", alert.Reorder))
		}
		a.log.Warn("Item below minimum", fields...)
	}
}

// ScheduledLowStockCheck is the body of the periodic scan.
func (a *LowStockAlertService) ScheduledLowStockCheck(ctx context.Context) error {
	alerts, err := a.CheckLowStock(ctx)
	if err != nil {
		a.log.Error("Scheduled low stock check failed", zap.Error(err))
		return err
	}
	a.LogLowStockAlerts(alerts)
	return nil
}
