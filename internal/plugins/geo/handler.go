package geo

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mptourism/paryatan/internal/apperror"
)

// Handler handles HTTP requests for geography records.
type Handler struct {
	service GeoService
}

// NewHandler creates a new geography handler.
func NewHandler(service GeoService) *Handler {
	return &Handler{service: service}
}

// ListDistricts returns all districts (GET /api/v1/districts). Public.
func (h *Handler) ListDistricts(c echo.Context) error {
	districts, err := h.service.ListDistricts(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"districts": districts})
}

// GetDistrict returns one district (GET /api/v1/districts/:id). Public.
func (h *Handler) GetDistrict(c echo.Context) error {
	district, err := h.service.ResolveDistrict(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, district)
}

// ListPanchayats returns a district's panchayats
// (GET /api/v1/districts/:id/panchayats). Public.
func (h *Handler) ListPanchayats(c echo.Context) error {
	panchayats, err := h.service.ListPanchayats(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"panchayats": panchayats})
}

// GetPanchayat returns one gram panchayat (GET /api/v1/panchayats/:id). Public.
func (h *Handler) GetPanchayat(c echo.Context) error {
	panchayat, err := h.service.ResolvePanchayat(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, panchayat)
}

// CreateDistrict registers a district (POST /api/v1/districts). Admin-only.
func (h *Handler) CreateDistrict(c echo.Context) error {
	var input CreateDistrictInput
	if err := c.Bind(&input); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	district, err := h.service.CreateDistrict(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, district)
}

// CreatePanchayat registers a gram panchayat (POST /api/v1/panchayats).
// Admin-only.
func (h *Handler) CreatePanchayat(c echo.Context) error {
	var input CreatePanchayatInput
	if err := c.Bind(&input); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	panchayat, err := h.service.CreatePanchayat(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, panchayat)
}
