package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mptourism/paryatan/internal/apperror"
)

// Context keys for storing session data in Echo context. Other plugins
// use these keys (via the exported getter functions below) to access
// the authenticated admin's identity and district scope.
const (
	contextKeySession = "auth_session"
	contextKeyAdminID = "auth_admin_id"
)

// sessionCookieName is the cookie carrying the session token for browser
// clients. API clients may instead send "Authorization: Bearer <token>".
const sessionCookieName = "paryatan_session"

// RequireAuth returns middleware that validates the session token and
// injects session data into the request context. Missing or invalid
// sessions get a 401 JSON response.
func RequireAuth(service AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := getSessionToken(c)
			if token == "" {
				return apperror.NewUnauthorized("authentication required")
			}

			session, err := service.ValidateSession(c.Request().Context(), token)
			if err != nil {
				// Invalid or expired session -- clear the stale cookie.
				clearSessionCookie(c)
				return apperror.NewUnauthorized("session expired or invalid")
			}

			// Store session data in context for downstream handlers.
			c.Set(contextKeySession, session)
			c.Set(contextKeyAdminID, session.AdminID)

			return next(c)
		}
	}
}

// RequireAdmin returns middleware that rejects non-admin sessions with 403.
// Must be applied after RequireAuth.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session := GetSession(c)
			if session == nil {
				return apperror.NewUnauthorized("authentication required")
			}
			if session.Role != RoleAdmin {
				return apperror.NewForbidden("role_not_permitted",
					"this action requires a global admin account")
			}
			return next(c)
		}
	}
}

// getSessionToken extracts the session token from the cookie or the
// Authorization header (Bearer scheme), cookie first.
func getSessionToken(c echo.Context) string {
	if cookie, err := c.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// setSessionCookie writes the session cookie on a successful login.
func setSessionCookie(c echo.Context, token string, maxAge int) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Scheme() == "https",
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie expires the session cookie.
func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// --- Exported getters for other plugins ---

// GetSession retrieves the authenticated session from the Echo context.
// Returns nil if the request is not authenticated (middleware not applied).
func GetSession(c echo.Context) *Session {
	session, ok := c.Get(contextKeySession).(*Session)
	if !ok {
		return nil
	}
	return session
}

// GetAdminID retrieves the authenticated admin's ID from the Echo context.
// Returns empty string if the request is not authenticated.
func GetAdminID(c echo.Context) string {
	id, ok := c.Get(contextKeyAdminID).(string)
	if !ok {
		return ""
	}
	return id
}
