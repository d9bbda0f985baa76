package middleware

import (
	"github.com/labstack/echo/v4"
)

const (
	// APIVersion is the version of the JSON surface under /api.
	APIVersion = "v1"

	HeaderAPIVersion = "X-API-Version"
	HeaderAppVersion = "X-Stocky-Version"
)

// VersionMiddleware stamps JSON API responses with the API and build versions
// so clients can detect a server upgrade.
type VersionMiddleware struct {
	appVersion string
}

func NewVersionMiddleware(appVersion string) *VersionMiddleware {
	return &VersionMiddleware{appVersion: appVersion}
}

// VersionHeader adds version information to response headers
func (vm *VersionMiddleware) VersionHeader() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Response().Header()
			header.Set(HeaderAPIVersion, APIVersion)
			if vm.appVersion != "" {
				header.Set(HeaderAppVersion, vm.appVersion)
			}
			return next(c)
		}
	}
}
