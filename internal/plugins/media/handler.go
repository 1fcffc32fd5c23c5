package media

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mptourism/paryatan/internal/apperror"
	"github.com/mptourism/paryatan/internal/plugins/auth"
)

// Handler handles HTTP requests for the media pipeline.
type Handler struct {
	service     MediaService
	maxFileSize int64
}

// NewHandler creates a new media handler. maxFileSize bounds how much of
// an attached file the handler will read into memory.
func NewHandler(service MediaService, maxFileSize int64) *Handler {
	return &Handler{service: service, maxFileSize: maxFileSize}
}

// Upload ingests a new media item (POST /api/v1/media). Authenticated.
// The body is a multipart form; the file part is optional when
// upload_method=url.
func (h *Handler) Upload(c echo.Context) error {
	actor := actorFrom(c)

	req := UploadRequest{
		Title:        c.FormValue("title"),
		Description:  c.FormValue("description"),
		Category:     c.FormValue("category"),
		Tags:         c.FormValue("tags"),
		DistrictID:   c.FormValue("district_id"),
		PanchayatID:  c.FormValue("panchayat_id"),
		Photographer: c.FormValue("photographer"),
		CaptureDate:  c.FormValue("capture_date"),
		UploadMethod: c.FormValue("upload_method"),
		FileURL:      c.FormValue("file_url"),
	}

	if fileHeader, err := c.FormFile("file"); err == nil {
		if fileHeader.Size > h.maxFileSize {
			return apperror.NewValidationTyped(ErrTypeFileTooLarge,
				fmt.Sprintf("file exceeds the maximum upload size of %d bytes", h.maxFileSize))
		}
		file, err := fileHeader.Open()
		if err != nil {
			return apperror.NewInternal(fmt.Errorf("opening uploaded file: %w", err))
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, h.maxFileSize+1))
		if err != nil {
			return apperror.NewInternal(fmt.Errorf("reading uploaded file: %w", err))
		}
		req.FileName = fileHeader.Filename
		req.MimeType = fileHeader.Header.Get("Content-Type")
		req.FileBytes = data
	}

	resp, err := h.service.Create(c.Request().Context(), actor, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, resp)
}

// List returns media for the admin panel (GET /api/v1/media).
// Authenticated; RTC results are scoped to assigned districts.
func (h *Handler) List(c echo.Context) error {
	actor := actorFrom(c)
	filter := filterFrom(c)

	items, err := h.service.List(c.Request().Context(), actor, filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"media": items})
}

// Get returns one media record (GET /api/v1/media/:id). Authenticated.
func (h *Handler) Get(c echo.Context) error {
	resp, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// Approve approves pending media (PUT /api/v1/media/:id/approve).
// Admin-only.
func (h *Handler) Approve(c echo.Context) error {
	resp, err := h.service.Approve(c.Request().Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// Reject rejects pending media (PUT /api/v1/media/:id/reject). Admin-only.
func (h *Handler) Reject(c echo.Context) error {
	resp, err := h.service.Reject(c.Request().Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// Delete removes media (DELETE /api/v1/media/:id). Admin-only.
func (h *Handler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), actorFrom(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// PublicList returns approved media (GET /api/v1/public/media). Public.
func (h *Handler) PublicList(c echo.Context) error {
	items, err := h.service.PublicList(c.Request().Context(), filterFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"media": items})
}

// PublicGet returns one approved media record
// (GET /api/v1/public/media/:id). Public.
func (h *Handler) PublicGet(c echo.Context) error {
	resp, err := h.service.PublicGet(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// Gallery returns a panchayat's approved gallery
// (GET /api/v1/panchayats/:id/gallery). Public.
func (h *Handler) Gallery(c echo.Context) error {
	items, err := h.service.Gallery(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"media": items})
}

// actorFrom projects the authenticated session into a media Actor.
func actorFrom(c echo.Context) Actor {
	session := auth.GetSession(c)
	if session == nil {
		return Actor{}
	}
	return Actor{
		ID:                  session.AdminID,
		Role:                session.Role,
		AssignedDistrictIDs: session.AssignedDistrictIDs,
	}
}

// filterFrom binds the listing filter from query parameters.
func filterFrom(c echo.Context) ListFilter {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	return ListFilter{
		DistrictID:  c.QueryParam("district_id"),
		PanchayatID: c.QueryParam("panchayat_id"),
		Status:      c.QueryParam("status"),
		Category:    c.QueryParam("category"),
		Limit:       limit,
		Offset:      offset,
	}
}
