package media

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/mptourism/paryatan/internal/middleware"
	"github.com/mptourism/paryatan/internal/plugins/auth"
)

// RegisterRoutes sets up media routes. Public reads only ever surface
// approved media; everything else sits behind authentication.
func RegisterRoutes(e *echo.Echo, h *Handler, authSvc auth.AuthService, maxFileSize int64) {
	// Public site endpoints.
	e.GET("/api/v1/public/media", h.PublicList)
	e.GET("/api/v1/public/media/:id", h.PublicGet)
	e.GET("/api/v1/panchayats/:id/gallery", h.Gallery)

	authed := e.Group("/api/v1/media", auth.RequireAuth(authSvc))

	// The body limit leaves headroom over the file cap for the other
	// multipart fields; the validator enforces the exact file size.
	bodyLimit := echomw.BodyLimit(strconv.FormatInt(maxFileSize+1<<20, 10))
	uploadRateLimit := middleware.RateLimit(30, time.Minute)

	authed.POST("", h.Upload, bodyLimit, uploadRateLimit)
	authed.GET("", h.List)
	authed.GET("/:id", h.Get)

	// Moderation and deletion are admin-only.
	admin := authed.Group("", auth.RequireAdmin())
	admin.PUT("/:id/approve", h.Approve)
	admin.PUT("/:id/reject", h.Reject)
	admin.DELETE("/:id", h.Delete)
}
