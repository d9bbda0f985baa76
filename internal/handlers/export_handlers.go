package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"stocky/internal/analytics"
	"stocky/internal/export"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ExportHandlers streams generated report files.
type ExportHandlers struct {
	analyticsService analytics.Service
	log              *zap.Logger
}

func NewExportHandlers(analyticsService analytics.Service, log *zap.Logger) *ExportHandlers {
	return &ExportHandlers{analyticsService: analyticsService, log: log}
}

// ExportReport handles GET /export_report/:format
func (h *ExportHandlers) ExportReport(c echo.Context) error {
	format, err := export.ParseFormat(c.Param("format"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Unknown export format")
	}

	report, err := h.analyticsService.Report(c.Request().Context())
	if err != nil {
		h.log.Error("Failed to build report", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, genericFailure)
	}

	data, err := export.Render(format, report)
	if err != nil {
		if errors.Is(err, export.ErrUnsupportedFormat) {
			return echo.NewHTTPError(http.StatusNotFound, "Unknown export format")
		}
		h.log.Error("Failed to render report", zap.String("format", string(format)), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, genericFailure)
	}

	filename := export.FileName(format, report.GeneratedAt)
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, format.ContentType(), data)
}
