package app

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mptourism/paryatan/internal/plugins/audit"
	"github.com/mptourism/paryatan/internal/plugins/auth"
	"github.com/mptourism/paryatan/internal/plugins/geo"
	"github.com/mptourism/paryatan/internal/plugins/media"
	"github.com/mptourism/paryatan/internal/plugins/news"
)

// RegisterRoutes constructs every plugin's repository/service/handler
// stack and mounts its routes. This is the single place the dependency
// graph between plugins is spelled out.
func RegisterRoutes(a *App) {
	// Auth first: every other plugin's protected routes hang off it.
	authRepo := auth.NewAdminRepository(a.DB)
	authSvc := auth.NewAuthService(authRepo, a.Redis, a.Config.Auth.SessionTTL)
	authHandler := auth.NewHandler(authSvc, int(a.Config.Auth.SessionTTL.Seconds()))
	auth.RegisterRoutes(a.Echo, authHandler, authSvc)

	// Geography registry, shared by media and news.
	geoRepo := geo.NewGeoRepository(a.DB)
	geoSvc := geo.NewGeoService(geoRepo)
	geo.RegisterRoutes(a.Echo, geo.NewHandler(geoSvc), authSvc)

	// Audit trail; the media pipeline records into it.
	auditRepo := audit.NewAuditRepository(a.DB)
	auditSvc := audit.NewAuditService(auditRepo)
	audit.RegisterRoutes(a.Echo, audit.NewHandler(auditSvc), authSvc)

	// Media pipeline.
	mediaRepo := media.NewMediaRepository(a.DB)
	gallery := media.NewGalleryManager(a.DB)
	validator := media.NewValidator(a.Config.Upload.MaxSize)
	mediaSvc := media.NewMediaService(mediaRepo, gallery, geoSvc, a.Blobs, validator, auditSvc)
	mediaHandler := media.NewHandler(mediaSvc, a.Config.Upload.MaxSize)
	media.RegisterRoutes(a.Echo, mediaHandler, authSvc, a.Config.Upload.MaxSize)

	// News.
	newsRepo := news.NewNewsRepository(a.DB)
	newsSvc := news.NewNewsService(newsRepo, geoSvc)
	news.RegisterRoutes(a.Echo, news.NewHandler(newsSvc), authSvc)

	// Liveness probe for the orchestrator.
	a.Echo.GET("/healthz", func(c echo.Context) error {
		if err := a.DB.PingContext(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}
