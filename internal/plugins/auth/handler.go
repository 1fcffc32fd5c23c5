package auth

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mptourism/paryatan/internal/apperror"
)

// Handler handles HTTP requests for authentication and account management.
type Handler struct {
	service   AuthService
	cookieTTL int
}

// NewHandler creates a new auth handler. cookieTTLSeconds controls the
// Max-Age of the session cookie (should match the Redis session TTL).
func NewHandler(service AuthService, cookieTTLSeconds int) *Handler {
	return &Handler{service: service, cookieTTL: cookieTTLSeconds}
}

// Login authenticates an admin (POST /api/v1/auth/login).
func (h *Handler) Login(c echo.Context) error {
	var input LoginInput
	if err := c.Bind(&input); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	token, admin, err := h.service.Login(c.Request().Context(), input)
	if err != nil {
		return err
	}

	setSessionCookie(c, token, h.cookieTTL)
	return c.JSON(http.StatusOK, map[string]any{
		"token": token,
		"admin": admin,
	})
}

// Logout destroys the current session (POST /api/v1/auth/logout).
func (h *Handler) Logout(c echo.Context) error {
	if token := getSessionToken(c); token != "" {
		if err := h.service.DestroySession(c.Request().Context(), token); err != nil {
			return err
		}
	}
	clearSessionCookie(c)
	return c.JSON(http.StatusOK, map[string]string{"status": "logged_out"})
}

// Me returns the authenticated session (GET /api/v1/auth/me).
func (h *Handler) Me(c echo.Context) error {
	session := GetSession(c)
	if session == nil {
		return apperror.NewUnauthorized("authentication required")
	}
	return c.JSON(http.StatusOK, session)
}

// CreateAccount provisions a new account (POST /api/v1/accounts).
// Admin-only; enforced by RequireAdmin on the route.
func (h *Handler) CreateAccount(c echo.Context) error {
	var input CreateAccountInput
	if err := c.Bind(&input); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	admin, err := h.service.CreateAccount(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, admin)
}

// AssignDistricts replaces an RTC's district assignments
// (PUT /api/v1/accounts/:id/districts).
func (h *Handler) AssignDistricts(c echo.Context) error {
	var body struct {
		DistrictIDs []string `json:"district_ids"`
	}
	if err := c.Bind(&body); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	if err := h.service.AssignDistricts(c.Request().Context(), c.Param("id"), body.DistrictIDs); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "updated"})
}

// SetDisabled deactivates or reactivates an account
// (PUT /api/v1/accounts/:id/disabled).
func (h *Handler) SetDisabled(c echo.Context) error {
	var body struct {
		Disabled bool `json:"disabled"`
	}
	if err := c.Bind(&body); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	if err := h.service.SetDisabled(c.Request().Context(), c.Param("id"), body.Disabled); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "updated"})
}

// ListAccounts returns a page of accounts (GET /api/v1/accounts?page=N).
func (h *Handler) ListAccounts(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))

	admins, total, err := h.service.ListAccounts(c.Request().Context(), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"accounts": admins,
		"total":    total,
	})
}
