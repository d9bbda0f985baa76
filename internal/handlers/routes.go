package handlers

import (
	"stocky/internal/middleware"

	"github.com/labstack/echo/v4"
)

// Routes groups every handler the server exposes.
type Routes struct {
	Pages   *PageHandlers
	API     *APIHandlers
	Exports *ExportHandlers
	Health  *HealthHandlers
	Session echo.MiddlewareFunc
	Version *middleware.VersionMiddleware
}

func RegisterRoutes(e *echo.Echo, r Routes) {
	e.GET("/health", r.Health.LivenessCheck)
	e.GET("/health/ready", r.Health.ReadinessCheck)

	app := e.Group("", r.Session)
	app.GET("/", r.Pages.Index)
	app.POST("/", r.Pages.SubmitCommand)
	app.GET("/dashboard", r.Pages.Dashboard)
	app.GET("/suppliers", r.Pages.Suppliers)
	app.GET("/report", r.Pages.Report)
	app.GET("/export_report/:format", r.Exports.ExportReport)

	api := app.Group("/api", r.Version.VersionHeader())
	api.POST("/commands", r.API.PostCommand)
	api.GET("/dashboard", r.API.GetDashboard)
	api.GET("/report", r.API.GetReport)
}
