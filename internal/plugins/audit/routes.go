package audit

import (
	"github.com/labstack/echo/v4"

	"github.com/mptourism/paryatan/internal/plugins/auth"
)

// RegisterRoutes sets up the audit trail routes. Admin-only.
func RegisterRoutes(e *echo.Echo, h *Handler, authSvc auth.AuthService) {
	e.GET("/api/v1/audit", h.List, auth.RequireAuth(authSvc), auth.RequireAdmin())
}
