package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mptourism/paryatan/internal/apperror"
)

// AuditService records and reads the content action trail.
type AuditService interface {
	// Record appends an entry. Failures are logged and swallowed: the
	// trail is diagnostic, never a reason to fail the recorded action.
	Record(ctx context.Context, actorID, action, mediaID string, detail map[string]any)

	// List returns trail entries for the admin panel.
	List(ctx context.Context, filter ListFilter) ([]Entry, error)
}

// recordTimeout bounds the audit write so a slow database cannot hold the
// calling request open.
const recordTimeout = 5 * time.Second

// auditService implements AuditService.
type auditService struct {
	repo AuditRepository
}

// NewAuditService creates a new audit service.
func NewAuditService(repo AuditRepository) AuditService {
	return &auditService{repo: repo}
}

// Record appends an entry to the trail. Uses its own deadline rather than
// the request context so a cancelled request still gets its trail entry.
func (s *auditService) Record(ctx context.Context, actorID, action, mediaID string, detail map[string]any) {
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()

	err := s.repo.Insert(writeCtx, &Entry{
		ActorID: actorID,
		Action:  action,
		MediaID: mediaID,
		Detail:  detail,
	})
	if err != nil {
		slog.Error("audit write failed",
			slog.String("action", action),
			slog.String("actor_id", actorID),
			slog.Any("error", err),
		)
	}
}

// List returns trail entries matching the filter.
func (s *auditService) List(ctx context.Context, filter ListFilter) ([]Entry, error) {
	entries, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing audit trail: %w", err))
	}
	return entries, nil
}
