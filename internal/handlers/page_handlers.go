package handlers

import (
	"net/http"

	"stocky/internal/analytics"
	"stocky/internal/common"
	"stocky/internal/models"
	"stocky/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// HistoryLimit is how many history records the main page shows.
const HistoryLimit = 15

const genericFailure = "Something went wrong. Please try again."

// PageHandlers serves the HTML pages.
type PageHandlers struct {
	commandService   services.CommandService
	analyticsService analytics.Service
	log              *zap.Logger
}

func NewPageHandlers(commandService services.CommandService, analyticsService analytics.Service, log *zap.Logger) *PageHandlers {
	return &PageHandlers{
		commandService:   commandService,
		analyticsService: analyticsService,
		log:              log,
	}
}

type indexPage struct {
	Title         string
	Reply         string
	Alerts        []analytics.LowStockItem
	Inventory     []analytics.InventoryRow
	History       []models.Transaction
	ConfirmPhrase string
}

type dashboardPage struct {
	Title     string
	Dashboard *analytics.Dashboard
}

type supplierRow struct {
	Item     string
	Supplier models.Supplier
}

type suppliersPage struct {
	Title     string
	Suppliers []supplierRow
}

type reportPage struct {
	Title   string
	Report  *analytics.Report
	Periods []analytics.PeriodSummary
}

// Index handles GET /
func (h *PageHandlers) Index(c echo.Context) error {
	return h.renderIndex(c, "")
}

// SubmitCommand handles POST /
func (h *PageHandlers) SubmitCommand(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID, _ := common.GetSessionIDFromContext(ctx)

	result, err := h.commandService.Handle(ctx, sessionID, c.FormValue("msg"))
	if err != nil {
		h.log.Error("Command failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, genericFailure)
	}
	return h.renderIndex(c, result.Reply)
}

func (h *PageHandlers) renderIndex(c echo.Context, reply string) error {
	snapshot, err := h.analyticsService.Snapshot(c.Request().Context())
	if err != nil {
		h.log.Error("Failed to load inventory", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, genericFailure)
	}

	return c.Render(http.StatusOK, "index.html", indexPage{
		Title:         "Inventory",
		Reply:         reply,
		Alerts:        analytics.LowStock(snapshot),
		Inventory:     analytics.InventoryRows(snapshot),
		History:       snapshot.LastTransactions(HistoryLimit),
		ConfirmPhrase: services.ConfirmPhrase,
	})
}

// Dashboard handles GET /dashboard
func (h *PageHandlers) Dashboard(c echo.Context) error {
	dashboard, err := h.analyticsService.Dashboard(c.Request().Context())
	if err != nil {
		h.log.Error("Failed to build dashboard", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, genericFailure)
	}
	return c.Render(http.StatusOK, "dashboard.html", dashboardPage{Title: "Sales Dashboard", Dashboard: dashboard})
}

// Suppliers handles GET /suppliers
func (h *PageHandlers) Suppliers(c echo.Context) error {
	snapshot, err := h.analyticsService.Snapshot(c.Request().Context())
	if err != nil {
		h.log.Error("Failed to load suppliers", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, genericFailure)
	}

	rows := make([]supplierRow, 0, len(snapshot.Suppliers))
	for _, item := range models.SortedKeys(snapshot.Suppliers) {
		rows = append(rows, supplierRow{Item: item, Supplier: snapshot.Suppliers[item]})
	}
	return c.Render(http.StatusOK, "suppliers.html", suppliersPage{Title: "Suppliers", Suppliers: rows})
}

// Report handles GET /report
func (h *PageHandlers) Report(c echo.Context) error {
	report, err := h.analyticsService.Report(c.Request().Context())
	if err != nil {
		h.log.Error("Failed to build report", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, genericFailure)
	}
	return c.Render(http.StatusOK, "report.html", reportPage{
		Title:   "Report",
		Report:  report,
		Periods: []analytics.PeriodSummary{report.Daily, report.Weekly},
	})
}
