package media

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mptourism/paryatan/internal/apperror"
	"github.com/mptourism/paryatan/internal/sanitize"
)

// Machine-readable validation error types.
const (
	ErrTypeInvalidCategory      = "invalid_category"
	ErrTypeInvalidUploadMethod  = "invalid_upload_method"
	ErrTypeMissingSource        = "missing_source"
	ErrTypeFileTooLarge         = "file_too_large"
	ErrTypeUnsupportedMediaType = "unsupported_media_type"
)

const (
	maxTitleLength       = 255
	maxDescriptionLength = 5000
	captureDateLayout    = "2006-01-02"
)

// allowedMimeTypes is the closed set of content types the pipeline stores.
var allowedMimeTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"video/mp4":       true,
	"video/mpeg":      true,
	"video/quicktime": true,
	"video/webm":      true,
}

// ValidUpload is an upload request after validation: fields trimmed and
// sanitized, tags parsed, the file type derived, the MIME type settled.
type ValidUpload struct {
	Title        string
	Description  string
	Category     string
	Tags         []string
	DistrictID   string
	PanchayatID  string
	Photographer string
	CaptureDate  *time.Time
	UploadMethod string
	FileType     string

	// FileBytes and MimeType are set for upload_method=file.
	FileBytes []byte
	MimeType  string

	// FileURL is set for upload_method=url.
	FileURL string
}

// Validator checks upload submissions against the pipeline's content
// rules. It is pure; geography and authorization are checked downstream.
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a validator with the configured upload size cap.
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{maxFileSize: maxFileSize}
}

// Validate checks the request and returns the trusted form of the upload.
// All failures are 422s with machine-readable types where a client could
// meaningfully branch on them.
func (v *Validator) Validate(req *UploadRequest) (*ValidUpload, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperror.NewValidation("title is required")
	}
	if len(title) > maxTitleLength {
		return nil, apperror.NewValidation(fmt.Sprintf("title must be at most %d characters", maxTitleLength))
	}

	description := strings.TrimSpace(req.Description)
	if len(description) > maxDescriptionLength {
		return nil, apperror.NewValidation(fmt.Sprintf("description must be at most %d characters", maxDescriptionLength))
	}

	if !validCategories[req.Category] {
		return nil, apperror.NewValidationTyped(ErrTypeInvalidCategory,
			fmt.Sprintf("unknown category %q", req.Category))
	}

	var captureDate *time.Time
	if req.CaptureDate != "" {
		parsed, err := time.Parse(captureDateLayout, req.CaptureDate)
		if err != nil {
			return nil, apperror.NewValidation("capture_date must be formatted as YYYY-MM-DD")
		}
		captureDate = &parsed
	}

	valid := &ValidUpload{
		Title:        sanitize.Text(title),
		Description:  sanitize.Text(description),
		Category:     req.Category,
		Tags:         ParseTags(req.Tags),
		DistrictID:   strings.TrimSpace(req.DistrictID),
		PanchayatID:  strings.TrimSpace(req.PanchayatID),
		Photographer: sanitize.Text(strings.TrimSpace(req.Photographer)),
		CaptureDate:  captureDate,
		UploadMethod: req.UploadMethod,
	}

	switch req.UploadMethod {
	case UploadMethodFile:
		if err := v.validateFile(req, valid); err != nil {
			return nil, err
		}
	case UploadMethodURL:
		if err := validateURL(req, valid); err != nil {
			return nil, err
		}
	default:
		return nil, apperror.NewValidationTyped(ErrTypeInvalidUploadMethod,
			`upload_method must be "file" or "url"`)
	}

	return valid, nil
}

// validateFile checks the uploaded bytes: present, under the size cap, and
// of an allowed content type. The MIME type is sniffed from the bytes; the
// client-declared Content-Type is only a fallback for container formats
// the sniffer does not recognize.
func (v *Validator) validateFile(req *UploadRequest, valid *ValidUpload) error {
	if len(req.FileBytes) == 0 {
		return apperror.NewValidationTyped(ErrTypeMissingSource,
			"upload_method is file but no file was attached")
	}
	if int64(len(req.FileBytes)) > v.maxFileSize {
		return apperror.NewValidationTyped(ErrTypeFileTooLarge,
			fmt.Sprintf("file exceeds the maximum upload size of %d bytes", v.maxFileSize))
	}

	mimeType := sniffMimeType(req.FileBytes, req.MimeType)
	if !allowedMimeTypes[mimeType] {
		return apperror.NewValidationTyped(ErrTypeUnsupportedMediaType,
			fmt.Sprintf("content type %q is not supported", mimeType))
	}

	valid.FileBytes = req.FileBytes
	valid.MimeType = mimeType
	valid.FileType = fileTypeFromMime(mimeType)
	return nil
}

// validateURL checks the external link form of an upload.
func validateURL(req *UploadRequest, valid *ValidUpload) error {
	rawURL := strings.TrimSpace(req.FileURL)
	if rawURL == "" {
		return apperror.NewValidationTyped(ErrTypeMissingSource,
			"upload_method is url but file_url is empty")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return apperror.NewValidation("file_url must be an absolute http or https URL")
	}

	valid.FileURL = rawURL
	valid.FileType = fileTypeFromURL(rawURL)
	return nil
}

// sniffMimeType determines the content type from the file bytes. The
// declared type is trusted only when sniffing yields a generic result,
// which happens for container formats like QuickTime and MPEG.
func sniffMimeType(data []byte, declared string) string {
	sniffed := http.DetectContentType(data)
	if allowedMimeTypes[sniffed] {
		return sniffed
	}
	declared = strings.ToLower(strings.TrimSpace(declared))
	if i := strings.Index(declared, ";"); i >= 0 {
		declared = strings.TrimSpace(declared[:i])
	}
	if strings.HasPrefix(sniffed, "application/octet-stream") && allowedMimeTypes[declared] {
		return declared
	}
	return sniffed
}
