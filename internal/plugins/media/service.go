package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mptourism/paryatan/internal/apperror"
	"github.com/mptourism/paryatan/internal/plugins/auth"
	"github.com/mptourism/paryatan/internal/plugins/geo"
	"github.com/mptourism/paryatan/internal/storage"
)

// Audit action names recorded by the media pipeline.
const (
	AuditActionUpload  = "media.upload"
	AuditActionApprove = "media.approve"
	AuditActionReject  = "media.reject"
	AuditActionDelete  = "media.delete"
)

// AuditRecorder is the trail the pipeline writes moderation-relevant
// events to. Recording is fire-and-forget; implementations must not fail
// the calling operation.
type AuditRecorder interface {
	Record(ctx context.Context, actorID, action, mediaID string, detail map[string]any)
}

// MediaService defines the business logic contract for the media pipeline.
type MediaService interface {
	// Create runs the full ingest pipeline for one upload: validation,
	// geography resolution, authorization, blob storage, persistence,
	// gallery linking, and auditing.
	Create(ctx context.Context, actor Actor, req UploadRequest) (*Response, error)

	// Approve and Reject move pending media out of the moderation queue.
	// Rejection removes the media from its panchayat gallery.
	Approve(ctx context.Context, actor Actor, id string) (*Response, error)
	Reject(ctx context.Context, actor Actor, id string) (*Response, error)

	// Delete removes the media record and its stored object. Admin-only.
	Delete(ctx context.Context, actor Actor, id string) error

	// Get returns one media record for authenticated panel users.
	Get(ctx context.Context, id string) (*Response, error)

	// List returns media for the admin panel. RTC actors only ever see
	// media in their assigned districts regardless of the filter.
	List(ctx context.Context, actor Actor, filter ListFilter) ([]Response, error)

	// PublicList returns approved media for the public site.
	PublicList(ctx context.Context, filter ListFilter) ([]Response, error)

	// PublicGet returns one approved media record, 404 otherwise.
	PublicGet(ctx context.Context, id string) (*Response, error)

	// Gallery returns the approved media shown on a panchayat's page.
	Gallery(ctx context.Context, panchayatID string) ([]Response, error)
}

// mediaService implements MediaService.
type mediaService struct {
	repo      MediaRepository
	gallery   GalleryManager
	registry  geo.Registry
	blobs     storage.BlobStore
	validator *Validator
	audit     AuditRecorder
}

// NewMediaService creates a media service with the given collaborators.
func NewMediaService(repo MediaRepository, gallery GalleryManager, registry geo.Registry,
	blobs storage.BlobStore, validator *Validator, audit AuditRecorder) MediaService {
	return &mediaService{
		repo:      repo,
		gallery:   gallery,
		registry:  registry,
		blobs:     blobs,
		validator: validator,
		audit:     audit,
	}
}

// Create runs the ingest pipeline. The side-effect order is deliberate:
// all read-only checks run before the blob write, and the blob write runs
// before the database insert, so a failure at any step leaves at worst an
// orphaned object in storage (logged for out-of-band cleanup), never a
// database row pointing at a missing file.
func (s *mediaService) Create(ctx context.Context, actor Actor, req UploadRequest) (*Response, error) {
	valid, err := s.validator.Validate(&req)
	if err != nil {
		return nil, err
	}

	placement, err := s.registry.ValidateConsistency(ctx, valid.DistrictID, valid.PanchayatID)
	if err != nil {
		return nil, err
	}

	if decision := AuthorizeUpload(actor, placement.EffectiveDistrictID); !decision.Allowed {
		return nil, apperror.NewForbidden(decision.Reason,
			"you are not permitted to upload media for this location")
	}

	object, err := s.storeBlob(ctx, valid)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	m := &Media{
		ID:           uuid.NewString(),
		Title:        valid.Title,
		Description:  valid.Description,
		FileURL:      object.URL,
		ThumbnailURL: object.ThumbnailURL,
		StorageKey:   object.Key,
		FileType:     valid.FileType,
		Category:     valid.Category,
		Tags:         valid.Tags,
		DistrictID:   placement.EffectiveDistrictID,
		Status:       InitialStatus(actor.Role),
		Photographer: valid.Photographer,
		CaptureDate:  valid.CaptureDate,
		UploadedBy:   actor.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if placement.Panchayat != nil {
		m.PanchayatID = placement.Panchayat.ID
	}

	if err := s.repo.Create(ctx, m); err != nil {
		// The object is already durable; record its key so it can be
		// garbage-collected out of band.
		slog.Error("media insert failed after blob upload, object orphaned",
			slog.String("storage_key", object.Key),
			slog.Any("error", err),
		)
		return nil, apperror.NewInternal(fmt.Errorf("persisting media: %w", err))
	}

	if m.PanchayatID != "" {
		if err := s.gallery.Link(ctx, m.PanchayatID, m.ID); err != nil {
			// Non-fatal: the upload succeeded. The divergence is bounded
			// to this one record and visible in the panchayat gallery.
			slog.Warn("gallery link failed",
				slog.String("media_id", m.ID),
				slog.String("panchayat_id", m.PanchayatID),
				slog.Any("error", err),
			)
		}
	}

	s.audit.Record(ctx, actor.ID, AuditActionUpload, m.ID, map[string]any{
		"status":      m.Status,
		"district_id": m.DistrictID,
		"file_type":   m.FileType,
	})

	slog.Info("media uploaded",
		slog.String("media_id", m.ID),
		slog.String("uploaded_by", actor.ID),
		slog.String("status", m.Status),
	)

	return s.toResponse(ctx, m), nil
}

// storeBlob dispatches to the right blob store operation for the upload
// method. Storage failures are 502s: nothing was persisted, the whole
// request is safe to retry.
func (s *mediaService) storeBlob(ctx context.Context, valid *ValidUpload) (*storage.Object, error) {
	if valid.UploadMethod == UploadMethodURL {
		object, err := s.blobs.UploadFromURL(ctx, valid.FileURL)
		if err != nil {
			return nil, apperror.NewBadGateway("could not register the external media URL", err)
		}
		return object, nil
	}

	object, err := s.blobs.Upload(ctx, valid.FileBytes, valid.MimeType)
	if err != nil {
		return nil, apperror.NewBadGateway("could not store the uploaded file", err)
	}
	return object, nil
}

// Approve moves pending media to approved. Gallery membership is not
// touched: the media was linked at upload time and never left.
func (s *mediaService) Approve(ctx context.Context, actor Actor, id string) (*Response, error) {
	return s.transition(ctx, actor, id, StatusApproved, AuditActionApprove)
}

// Reject moves pending media to rejected and removes it from its
// panchayat gallery.
func (s *mediaService) Reject(ctx context.Context, actor Actor, id string) (*Response, error) {
	return s.transition(ctx, actor, id, StatusRejected, AuditActionReject)
}

func (s *mediaService) transition(ctx context.Context, actor Actor, id, to, auditAction string) (*Response, error) {
	if decision := AuthorizeModeration(actor); !decision.Allowed {
		return nil, apperror.NewForbidden(decision.Reason, "only administrators can moderate media")
	}

	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !CanTransition(m.Status, to) {
		return nil, apperror.NewConflict(
			fmt.Sprintf("cannot move media from %s to %s", m.Status, to))
	}

	// The repository re-checks the prior status on write. The read above
	// can go stale under concurrent moderation, and approved/rejected are
	// terminal: the losing decision must fail, not overwrite.
	if err := s.repo.UpdateStatus(ctx, id, m.Status, to); err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperror.NewInternal(fmt.Errorf("updating media status: %w", err))
	}
	m.Status = to

	if to == StatusRejected && m.PanchayatID != "" {
		if err := s.gallery.Unlink(ctx, m.PanchayatID, m.ID); err != nil {
			// Non-fatal, same bounded divergence as on upload.
			slog.Warn("gallery unlink failed",
				slog.String("media_id", m.ID),
				slog.String("panchayat_id", m.PanchayatID),
				slog.Any("error", err),
			)
		}
	}

	s.audit.Record(ctx, actor.ID, auditAction, m.ID, map[string]any{
		"status": to,
	})

	slog.Info("media moderated",
		slog.String("media_id", m.ID),
		slog.String("moderator", actor.ID),
		slog.String("status", to),
	)

	return s.toResponse(ctx, m), nil
}

// Delete removes the record, its gallery membership, and its stored
// object. Blob removal is best-effort: a leaked object is recoverable,
// a dangling database row is not.
func (s *mediaService) Delete(ctx context.Context, actor Actor, id string) error {
	if decision := AuthorizeModeration(actor); !decision.Allowed {
		return apperror.NewForbidden(decision.Reason, "only administrators can delete media")
	}

	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if m.PanchayatID != "" {
		if err := s.gallery.Unlink(ctx, m.PanchayatID, m.ID); err != nil {
			slog.Warn("gallery unlink failed during delete",
				slog.String("media_id", m.ID),
				slog.Any("error", err),
			)
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.blobs.Remove(ctx, m.StorageKey); err != nil {
		slog.Warn("blob removal failed, object orphaned",
			slog.String("storage_key", m.StorageKey),
			slog.Any("error", err),
		)
	}

	s.audit.Record(ctx, actor.ID, AuditActionDelete, m.ID, nil)
	return nil
}

// Get returns one media record for panel users.
func (s *mediaService) Get(ctx context.Context, id string) (*Response, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, m), nil
}

// List returns media for the admin panel. An RTC's view is forced into
// their assigned districts: a district filter outside the assignment is a
// 403, no filter means "all assigned districts".
func (s *mediaService) List(ctx context.Context, actor Actor, filter ListFilter) ([]Response, error) {
	if actor.Role == auth.RoleRTC {
		if filter.DistrictID != "" {
			if !contains(actor.AssignedDistrictIDs, filter.DistrictID) {
				return nil, apperror.NewForbidden(DenyDistrictNotAssigned,
					"this district is not assigned to your account")
			}
		} else {
			if len(actor.AssignedDistrictIDs) == 0 {
				return []Response{}, nil
			}
			filter.DistrictIDs = actor.AssignedDistrictIDs
		}
	}

	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing media: %w", err))
	}
	return s.toResponses(ctx, items), nil
}

// PublicList returns approved media only, whatever the caller asked for.
func (s *mediaService) PublicList(ctx context.Context, filter ListFilter) ([]Response, error) {
	filter.Status = StatusApproved
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing public media: %w", err))
	}
	return s.toResponses(ctx, items), nil
}

// PublicGet returns one approved media record. Pending and rejected media
// are indistinguishable from missing media to the public.
func (s *mediaService) PublicGet(ctx context.Context, id string) (*Response, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.Status != StatusApproved {
		return nil, apperror.NewNotFound("media not found")
	}
	return s.toResponse(ctx, m), nil
}

// Gallery returns the approved media on a panchayat's public page. The
// gallery table also holds pending entries; those stay hidden until
// moderation approves them.
func (s *mediaService) Gallery(ctx context.Context, panchayatID string) ([]Response, error) {
	if _, err := s.registry.ResolvePanchayat(ctx, panchayatID); err != nil {
		return nil, err
	}

	items, err := s.repo.ListByPanchayatGallery(ctx, panchayatID)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing panchayat gallery: %w", err))
	}

	approved := make([]Media, 0, len(items))
	for _, m := range items {
		if m.Status == StatusApproved {
			approved = append(approved, m)
		}
	}
	return s.toResponses(ctx, approved), nil
}

// toResponse resolves the record's geography into compact summaries.
// Lookup failures degrade to a bare record; the ids are still present.
func (s *mediaService) toResponse(ctx context.Context, m *Media) *Response {
	resp := &Response{Media: *m}

	if m.DistrictID != "" {
		if district, err := s.registry.ResolveDistrict(ctx, m.DistrictID); err == nil {
			resp.District = district.Summary()
		}
	}
	if m.PanchayatID != "" {
		if panchayat, err := s.registry.ResolvePanchayat(ctx, m.PanchayatID); err == nil {
			resp.Panchayat = panchayat.Summary()
		}
	}
	return resp
}

func (s *mediaService) toResponses(ctx context.Context, items []Media) []Response {
	responses := make([]Response, 0, len(items))
	for i := range items {
		responses = append(responses, *s.toResponse(ctx, &items[i]))
	}
	return responses
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
