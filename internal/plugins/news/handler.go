package news

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mptourism/paryatan/internal/apperror"
	"github.com/mptourism/paryatan/internal/plugins/auth"
)

// Handler handles HTTP requests for news articles.
type Handler struct {
	service NewsService
}

// NewHandler creates a new news handler.
func NewHandler(service NewsService) *Handler {
	return &Handler{service: service}
}

// Create drafts an article (POST /api/v1/news). Authenticated.
func (h *Handler) Create(c echo.Context) error {
	var input CreateArticleInput
	if err := c.Bind(&input); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	article, err := h.service.Create(c.Request().Context(), auth.GetAdminID(c), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, article)
}

// Update edits an article (PUT /api/v1/news/:id). Authenticated.
func (h *Handler) Update(c echo.Context) error {
	var input UpdateArticleInput
	if err := c.Bind(&input); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	article, err := h.service.Update(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, article)
}

// Publish makes an article public (PUT /api/v1/news/:id/publish).
// Admin-only.
func (h *Handler) Publish(c echo.Context) error {
	article, err := h.service.Publish(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, article)
}

// Unpublish pulls an article (PUT /api/v1/news/:id/unpublish). Admin-only.
func (h *Handler) Unpublish(c echo.Context) error {
	article, err := h.service.Unpublish(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, article)
}

// Delete removes an article (DELETE /api/v1/news/:id). Admin-only.
func (h *Handler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Get returns one article for the panel (GET /api/v1/news/:id).
// Authenticated.
func (h *Handler) Get(c echo.Context) error {
	article, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, article)
}

// List returns all articles for the panel (GET /api/v1/news).
// Authenticated.
func (h *Handler) List(c echo.Context) error {
	articles, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"articles": articles})
}

// PublicList returns published articles (GET /api/v1/public/news). Public.
func (h *Handler) PublicList(c echo.Context) error {
	articles, err := h.service.PublicList(c.Request().Context(), c.QueryParam("district_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"articles": articles})
}

// PublicGet returns one published article by slug
// (GET /api/v1/public/news/:slug). Public.
func (h *Handler) PublicGet(c echo.Context) error {
	article, err := h.service.GetPublished(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, article)
}
