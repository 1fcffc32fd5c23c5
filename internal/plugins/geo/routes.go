package geo

import (
	"github.com/labstack/echo/v4"

	"github.com/mptourism/paryatan/internal/plugins/auth"
)

// RegisterRoutes sets up geography routes. Reads are public (the public
// site renders from them); writes require a global admin.
func RegisterRoutes(e *echo.Echo, h *Handler, authSvc auth.AuthService) {
	e.GET("/api/v1/districts", h.ListDistricts)
	e.GET("/api/v1/districts/:id", h.GetDistrict)
	e.GET("/api/v1/districts/:id/panchayats", h.ListPanchayats)
	e.GET("/api/v1/panchayats/:id", h.GetPanchayat)

	admin := e.Group("/api/v1", auth.RequireAuth(authSvc), auth.RequireAdmin())
	admin.POST("/districts", h.CreateDistrict)
	admin.POST("/panchayats", h.CreatePanchayat)
}
