package news

import (
	"github.com/labstack/echo/v4"

	"github.com/mptourism/paryatan/internal/plugins/auth"
)

// RegisterRoutes sets up news routes. Drafting is open to any panel user;
// publication control and deletion are admin-only.
func RegisterRoutes(e *echo.Echo, h *Handler, authSvc auth.AuthService) {
	e.GET("/api/v1/public/news", h.PublicList)
	e.GET("/api/v1/public/news/:slug", h.PublicGet)

	authed := e.Group("/api/v1/news", auth.RequireAuth(authSvc))
	authed.GET("", h.List)
	authed.GET("/:id", h.Get)
	authed.POST("", h.Create)
	authed.PUT("/:id", h.Update)

	admin := authed.Group("", auth.RequireAdmin())
	admin.PUT("/:id/publish", h.Publish)
	admin.PUT("/:id/unpublish", h.Unpublish)
	admin.DELETE("/:id", h.Delete)
}
