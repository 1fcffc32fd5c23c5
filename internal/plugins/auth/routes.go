package auth

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mptourism/paryatan/internal/middleware"
)

// RegisterRoutes sets up authentication and account management routes.
func RegisterRoutes(e *echo.Echo, h *Handler, svc AuthService) {
	// Rate limit login attempts: 10 per minute per IP.
	loginRateLimit := middleware.RateLimit(10, time.Minute)

	e.POST("/api/v1/auth/login", h.Login, loginRateLimit)
	e.POST("/api/v1/auth/logout", h.Logout)

	authed := e.Group("/api/v1", RequireAuth(svc))
	authed.GET("/auth/me", h.Me)

	// Account provisioning is admin-only.
	accounts := e.Group("/api/v1/accounts", RequireAuth(svc), RequireAdmin())
	accounts.GET("", h.ListAccounts)
	accounts.POST("", h.CreateAccount)
	accounts.PUT("/:id/districts", h.AssignDistricts)
	accounts.PUT("/:id/disabled", h.SetDisabled)
}
