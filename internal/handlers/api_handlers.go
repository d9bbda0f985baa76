package handlers

import (
	"net/http"
	"strings"

	"stocky/internal/analytics"
	"stocky/internal/common"
	"stocky/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// APIHandlers is the JSON surface over the same services as the pages.
type APIHandlers struct {
	commandService   services.CommandService
	analyticsService analytics.Service
	log              *zap.Logger
}

func NewAPIHandlers(commandService services.CommandService, analyticsService analytics.Service, log *zap.Logger) *APIHandlers {
	return &APIHandlers{
		commandService:   commandService,
		analyticsService: analyticsService,
		log:              log,
	}
}

type commandRequest struct {
	Msg string `json:"msg" form:"msg"`
}

// PostCommand handles POST /api/commands
func (h *APIHandlers) PostCommand(c echo.Context) error {
	var req commandRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request body")
	}
	if strings.TrimSpace(req.Msg) == "" {
		return common.SendValidationError(c, "msg", "msg is required")
	}

	ctx := c.Request().Context()
	sessionID, _ := common.GetSessionIDFromContext(ctx)
	result, err := h.commandService.Handle(ctx, sessionID, req.Msg)
	if err != nil {
		h.log.Error("Command failed", zap.Error(err))
		return common.SendServerError(c, genericFailure)
	}
	return c.JSON(http.StatusOK, result)
}

// GetDashboard handles GET /api/dashboard
func (h *APIHandlers) GetDashboard(c echo.Context) error {
	dashboard, err := h.analyticsService.Dashboard(c.Request().Context())
	if err != nil {
		h.log.Error("Failed to build dashboard", zap.Error(err))
		return common.SendServerError(c, genericFailure)
	}
	return c.JSON(http.StatusOK, dashboard)
}

// GetReport handles GET /api/report
func (h *APIHandlers) GetReport(c echo.Context) error {
	report, err := h.analyticsService.Report(c.Request().Context())
	if err != nil {
		h.log.Error("Failed to build report", zap.Error(err))
		return common.SendServerError(c, genericFailure)
	}
	return c.JSON(http.StatusOK, report)
}
