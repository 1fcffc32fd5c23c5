package media

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/mptourism/paryatan/internal/apperror"
	"github.com/mptourism/paryatan/internal/plugins/geo"
	"github.com/mptourism/paryatan/internal/storage"
)

// --- Fakes ---

// fakeMediaRepo is an in-memory MediaRepository. The ingest scenarios walk
// media through several states, so a stateful fake reads better here than
// per-call function stubs.
type fakeMediaRepo struct {
	media      map[string]*Media
	failCreate bool
}

func newFakeMediaRepo() *fakeMediaRepo {
	return &fakeMediaRepo{media: map[string]*Media{}}
}

func (r *fakeMediaRepo) Create(ctx context.Context, m *Media) error {
	if r.failCreate {
		return errors.New("db gone")
	}
	clone := *m
	r.media[m.ID] = &clone
	return nil
}

func (r *fakeMediaRepo) FindByID(ctx context.Context, id string) (*Media, error) {
	m, ok := r.media[id]
	if !ok {
		return nil, apperror.NewNotFound("media not found")
	}
	clone := *m
	return &clone, nil
}

func (r *fakeMediaRepo) UpdateStatus(ctx context.Context, id, from, to string) error {
	m, ok := r.media[id]
	if !ok || m.Status != from {
		return apperror.NewConflict("the media was moderated by someone else; reload and retry")
	}
	m.Status = to
	return nil
}

func (r *fakeMediaRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.media[id]; !ok {
		return apperror.NewNotFound("media not found")
	}
	delete(r.media, id)
	return nil
}

func (r *fakeMediaRepo) List(ctx context.Context, filter ListFilter) ([]Media, error) {
	var out []Media
	for _, m := range r.media {
		if filter.Status != "" && m.Status != filter.Status {
			continue
		}
		if filter.DistrictID != "" && m.DistrictID != filter.DistrictID {
			continue
		}
		if len(filter.DistrictIDs) > 0 && !contains(filter.DistrictIDs, m.DistrictID) {
			continue
		}
		out = append(out, *m)
	}
	return out, nil
}

func (r *fakeMediaRepo) ListByPanchayatGallery(ctx context.Context, panchayatID string) ([]Media, error) {
	// Resolved against the fake gallery by the test harness; unused paths
	// return everything in the panchayat.
	var out []Media
	for _, m := range r.media {
		if m.PanchayatID == panchayatID {
			out = append(out, *m)
		}
	}
	return out, nil
}

// fakeGallery is an in-memory GalleryManager with set semantics.
type fakeGallery struct {
	links    map[string]map[string]bool
	failLink bool
}

func newFakeGallery() *fakeGallery {
	return &fakeGallery{links: map[string]map[string]bool{}}
}

func (g *fakeGallery) Link(ctx context.Context, panchayatID, mediaID string) error {
	if g.failLink {
		return errors.New("gallery write failed")
	}
	if g.links[panchayatID] == nil {
		g.links[panchayatID] = map[string]bool{}
	}
	g.links[panchayatID][mediaID] = true
	return nil
}

func (g *fakeGallery) Unlink(ctx context.Context, panchayatID, mediaID string) error {
	delete(g.links[panchayatID], mediaID)
	return nil
}

func (g *fakeGallery) ListMediaIDs(ctx context.Context, panchayatID string) ([]string, error) {
	var ids []string
	for id := range g.links[panchayatID] {
		ids = append(ids, id)
	}
	return ids, nil
}

func (g *fakeGallery) has(panchayatID, mediaID string) bool {
	return g.links[panchayatID][mediaID]
}

// stubRegistry implements geo.Registry over fixed test geography: the
// indore and bhopal districts, with the gp-simrol panchayat in indore.
type stubRegistry struct{}

func (stubRegistry) district(id string) *geo.District {
	if id == "indore" || id == "bhopal" {
		return &geo.District{ID: id, Name: id, Slug: id}
	}
	return nil
}

func (s stubRegistry) ResolveDistrict(ctx context.Context, id string) (*geo.District, error) {
	if d := s.district(id); d != nil {
		return d, nil
	}
	return nil, apperror.NewNotFound("district not found")
}

func (s stubRegistry) ResolvePanchayat(ctx context.Context, id string) (*geo.GramPanchayat, error) {
	if id == "gp-simrol" {
		return &geo.GramPanchayat{ID: "gp-simrol", DistrictID: "indore", Name: "Simrol", Slug: "simrol"}, nil
	}
	return nil, apperror.NewNotFound("gram panchayat not found")
}

func (s stubRegistry) ValidateConsistency(ctx context.Context, districtID, panchayatID string) (*geo.Placement, error) {
	placement := &geo.Placement{}
	if panchayatID != "" {
		panchayat, err := s.ResolvePanchayat(ctx, panchayatID)
		if err != nil {
			return nil, err
		}
		if districtID != "" && districtID != panchayat.DistrictID {
			return nil, apperror.NewBadRequestTyped(geo.ErrTypePanchayatDistrictMismatch,
				"the gram panchayat does not belong to the supplied district")
		}
		placement.Panchayat = panchayat
		placement.District = s.district(panchayat.DistrictID)
		placement.EffectiveDistrictID = panchayat.DistrictID
		return placement, nil
	}
	if districtID != "" {
		district, err := s.ResolveDistrict(ctx, districtID)
		if err != nil {
			return nil, err
		}
		placement.District = district
		placement.EffectiveDistrictID = districtID
	}
	return placement, nil
}

// fakeBlobStore implements storage.BlobStore and counts its calls.
type fakeBlobStore struct {
	uploads    int
	removals   []string
	failUpload bool
}

func (b *fakeBlobStore) Upload(ctx context.Context, data []byte, contentType string) (*storage.Object, error) {
	if b.failUpload {
		return nil, errors.New("minio unreachable")
	}
	b.uploads++
	key := fmt.Sprintf("media/obj-%d", b.uploads)
	return &storage.Object{
		URL:          "https://cdn.test/" + key,
		ThumbnailURL: "https://cdn.test/" + key + "_thumb.jpg",
		Key:          key,
	}, nil
}

func (b *fakeBlobStore) UploadFromURL(ctx context.Context, rawURL string) (*storage.Object, error) {
	return &storage.Object{URL: rawURL}, nil
}

func (b *fakeBlobStore) Remove(ctx context.Context, key string) error {
	b.removals = append(b.removals, key)
	return nil
}

// recordingAudit captures audit entries.
type auditEntry struct {
	actorID string
	action  string
	mediaID string
}

type recordingAudit struct {
	entries []auditEntry
}

func (a *recordingAudit) Record(ctx context.Context, actorID, action, mediaID string, detail map[string]any) {
	a.entries = append(a.entries, auditEntry{actorID: actorID, action: action, mediaID: mediaID})
}

// --- Harness ---

type mediaFixture struct {
	svc     MediaService
	repo    *fakeMediaRepo
	gallery *fakeGallery
	blobs   *fakeBlobStore
	audit   *recordingAudit
}

func newFixture() *mediaFixture {
	f := &mediaFixture{
		repo:    newFakeMediaRepo(),
		gallery: newFakeGallery(),
		blobs:   &fakeBlobStore{},
		audit:   &recordingAudit{},
	}
	f.svc = NewMediaService(f.repo, f.gallery, stubRegistry{}, f.blobs, NewValidator(1<<20), f.audit)
	return f
}

var (
	rtcIndore   = Actor{ID: "rtc-1", Role: "rtc", AssignedDistrictIDs: []string{"indore"}}
	globalAdmin = Actor{ID: "adm-1", Role: "admin"}
)

func uploadReq(mutate func(*UploadRequest)) UploadRequest {
	req := validFileRequest()
	if mutate != nil {
		mutate(&req)
	}
	return req
}

func assertErrType(t *testing.T, err error, wantType string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error of type %q, got nil", wantType)
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.AppError, got %T: %v", err, err)
	}
	if appErr.Type != wantType {
		t.Errorf("expected error type %q, got %q", wantType, appErr.Type)
	}
}

func assertErrCode(t *testing.T, err error, wantCode int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %d, got nil", wantCode)
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.AppError, got %T: %v", err, err)
	}
	if appErr.Code != wantCode {
		t.Errorf("expected code %d, got %d (%v)", wantCode, appErr.Code, err)
	}
}

// --- Upload ---

func TestCreate_RTCUploadEntersModeration(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Create(context.Background(), rtcIndore, uploadReq(func(r *UploadRequest) {
		r.DistrictID = "indore"
		r.PanchayatID = "gp-simrol"
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Status != StatusPending {
		t.Errorf("Status = %q, want pending", resp.Status)
	}
	if resp.UploadedBy != "rtc-1" {
		t.Errorf("UploadedBy = %q, want rtc-1", resp.UploadedBy)
	}
	if resp.District == nil || resp.District.ID != "indore" {
		t.Error("expected resolved district summary")
	}
	if resp.Panchayat == nil || resp.Panchayat.ID != "gp-simrol" {
		t.Error("expected resolved panchayat summary")
	}
	if !f.gallery.has("gp-simrol", resp.ID) {
		t.Error("expected pending media to be linked in the panchayat gallery")
	}
	if len(f.audit.entries) != 1 || f.audit.entries[0].action != AuditActionUpload {
		t.Errorf("expected one upload audit entry, got %+v", f.audit.entries)
	}
}

func TestCreate_AdminUploadIsLiveImmediately(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Create(context.Background(), globalAdmin, uploadReq(func(r *UploadRequest) {
		r.DistrictID = "bhopal"
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != StatusApproved {
		t.Errorf("Status = %q, want approved", resp.Status)
	}
	if resp.ThumbnailURL == "" {
		t.Error("expected a thumbnail URL for an image upload")
	}
}

func TestCreate_PanchayatInfersDistrictForScoping(t *testing.T) {
	// Omitting the district while supplying a panchayat must not widen
	// access: the inferred district is what authorization sees.
	f := newFixture()

	resp, err := f.svc.Create(context.Background(), rtcIndore, uploadReq(func(r *UploadRequest) {
		r.PanchayatID = "gp-simrol"
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.DistrictID != "indore" {
		t.Errorf("DistrictID = %q, want inferred indore", resp.DistrictID)
	}

	rtcBhopal := Actor{ID: "rtc-2", Role: "rtc", AssignedDistrictIDs: []string{"bhopal"}}
	_, err = f.svc.Create(context.Background(), rtcBhopal, uploadReq(func(r *UploadRequest) {
		r.PanchayatID = "gp-simrol"
	}))
	assertErrType(t, err, DenyDistrictNotAssigned)
}

func TestCreate_DeniedUploadHasNoSideEffects(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(context.Background(), rtcIndore, uploadReq(func(r *UploadRequest) {
		r.DistrictID = "bhopal"
	}))
	assertErrType(t, err, DenyDistrictNotAssigned)
	assertErrCode(t, err, 403)

	if f.blobs.uploads != 0 {
		t.Error("denied upload must not reach the blob store")
	}
	if len(f.repo.media) != 0 {
		t.Error("denied upload must not persist anything")
	}
	if len(f.audit.entries) != 0 {
		t.Error("denied upload must not be audited as an upload")
	}
}

func TestCreate_RTCWithoutGeographyAllowed(t *testing.T) {
	// Unplaced uploads are fine for RTCs; they still land in moderation.
	f := newFixture()

	resp, err := f.svc.Create(context.Background(), rtcIndore, uploadReq(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != StatusPending {
		t.Errorf("Status = %q, want pending", resp.Status)
	}
	if resp.DistrictID != "" {
		t.Errorf("DistrictID = %q, want empty", resp.DistrictID)
	}
}

func TestCreate_DistrictMismatchRejected(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(context.Background(), globalAdmin, uploadReq(func(r *UploadRequest) {
		r.DistrictID = "bhopal"
		r.PanchayatID = "gp-simrol"
	}))
	assertErrType(t, err, geo.ErrTypePanchayatDistrictMismatch)
	if f.blobs.uploads != 0 {
		t.Error("inconsistent geography must fail before the blob store")
	}
}

func TestCreate_URLUploadPassesThrough(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Create(context.Background(), globalAdmin, uploadReq(func(r *UploadRequest) {
		r.UploadMethod = UploadMethodURL
		r.FileBytes = nil
		r.FileURL = "https://cdn.example.com/aerial.mp4"
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.FileURL != "https://cdn.example.com/aerial.mp4" {
		t.Errorf("FileURL = %q, want pass-through", resp.FileURL)
	}
	if resp.FileType != FileTypeVideo {
		t.Errorf("FileType = %q, want video", resp.FileType)
	}
	if resp.StorageKey != "" {
		t.Error("external links must not carry a storage key")
	}
}

func TestCreate_BlobFailureIsBadGateway(t *testing.T) {
	f := newFixture()
	f.blobs.failUpload = true

	_, err := f.svc.Create(context.Background(), globalAdmin, uploadReq(nil))
	assertErrCode(t, err, 502)
	if len(f.repo.media) != 0 {
		t.Error("nothing must persist when the blob write fails")
	}
}

func TestCreate_PersistFailureReturnsInternal(t *testing.T) {
	f := newFixture()
	f.repo.failCreate = true

	_, err := f.svc.Create(context.Background(), globalAdmin, uploadReq(func(r *UploadRequest) {
		r.PanchayatID = "gp-simrol"
	}))
	assertErrCode(t, err, 500)
	if len(f.gallery.links) != 0 {
		t.Error("gallery must not be touched when the insert fails")
	}
}

func TestCreate_GalleryFailureIsNonFatal(t *testing.T) {
	f := newFixture()
	f.gallery.failLink = true

	resp, err := f.svc.Create(context.Background(), globalAdmin, uploadReq(func(r *UploadRequest) {
		r.PanchayatID = "gp-simrol"
	}))
	if err != nil {
		t.Fatalf("upload should survive a gallery write failure, got %v", err)
	}
	if _, ok := f.repo.media[resp.ID]; !ok {
		t.Error("media record should exist despite the gallery failure")
	}
}

// --- Moderation ---

func TestModeration_ApproveKeepsGalleryMembership(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Create(context.Background(), rtcIndore, uploadReq(func(r *UploadRequest) {
		r.PanchayatID = "gp-simrol"
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	approved, err := f.svc.Approve(context.Background(), globalAdmin, resp.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if approved.Status != StatusApproved {
		t.Errorf("Status = %q, want approved", approved.Status)
	}
	if !f.gallery.has("gp-simrol", resp.ID) {
		t.Error("approval must not disturb gallery membership")
	}
}

func TestModeration_RejectUnlinksGallery(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Create(context.Background(), rtcIndore, uploadReq(func(r *UploadRequest) {
		r.PanchayatID = "gp-simrol"
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rejected, err := f.svc.Reject(context.Background(), globalAdmin, resp.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rejected.Status != StatusRejected {
		t.Errorf("Status = %q, want rejected", rejected.Status)
	}
	if f.gallery.has("gp-simrol", resp.ID) {
		t.Error("rejected media must leave the panchayat gallery")
	}
}

func TestModeration_TerminalStatesAreFinal(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Create(context.Background(), rtcIndore, uploadReq(func(r *UploadRequest) {
		r.PanchayatID = "gp-simrol"
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.svc.Reject(context.Background(), globalAdmin, resp.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A rejected item cannot be approved, and its gallery slot stays gone.
	_, err = f.svc.Approve(context.Background(), globalAdmin, resp.ID)
	assertErrCode(t, err, 409)
	if f.gallery.has("gp-simrol", resp.ID) {
		t.Error("failed re-approval must not relink the gallery")
	}

	// Approved is terminal too.
	second, _ := f.svc.Create(context.Background(), globalAdmin, uploadReq(nil))
	_, err = f.svc.Reject(context.Background(), globalAdmin, second.ID)
	assertErrCode(t, err, 409)
}

// staleReadRepo serves a fixed snapshot from FindByID while delegating
// writes to the underlying store, mimicking a moderator whose read went
// stale under a concurrent decision.
type staleReadRepo struct {
	*fakeMediaRepo
	snapshot *Media
}

func (r *staleReadRepo) FindByID(ctx context.Context, id string) (*Media, error) {
	clone := *r.snapshot
	return &clone, nil
}

func TestModeration_ConcurrentDecisionsConflict(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Create(context.Background(), rtcIndore, uploadReq(func(r *UploadRequest) {
		r.PanchayatID = "gp-simrol"
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// One moderator reads the item while it is still pending...
	stale, err := f.repo.FindByID(context.Background(), resp.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// ...then another moderator's rejection commits first.
	if _, err := f.svc.Reject(context.Background(), globalAdmin, resp.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	staleSvc := NewMediaService(&staleReadRepo{fakeMediaRepo: f.repo, snapshot: stale},
		f.gallery, stubRegistry{}, f.blobs, NewValidator(1<<20), f.audit)

	// The racing approval must lose: rejected is terminal.
	_, err = f.svc.Approve(context.Background(), globalAdmin, resp.ID)
	assertErrCode(t, err, 409)
	_, err = staleSvc.Approve(context.Background(), globalAdmin, resp.ID)
	assertErrCode(t, err, 409)

	stored, err := f.repo.FindByID(context.Background(), resp.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.Status != StatusRejected {
		t.Errorf("Status = %q, want rejected to stick", stored.Status)
	}
	if f.gallery.has("gp-simrol", resp.ID) {
		t.Error("rejected media must stay out of the panchayat gallery")
	}
}

func TestModeration_RTCDenied(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Create(context.Background(), rtcIndore, uploadReq(func(r *UploadRequest) {
		r.DistrictID = "indore"
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = f.svc.Approve(context.Background(), rtcIndore, resp.ID)
	assertErrType(t, err, DenyRoleNotPermitted)
}

func TestModeration_UnknownMedia(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Approve(context.Background(), globalAdmin, "missing-id")
	assertErrCode(t, err, 404)
}

// --- Delete ---

func TestDelete_RemovesRecordGalleryAndBlob(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Create(context.Background(), globalAdmin, uploadReq(func(r *UploadRequest) {
		r.PanchayatID = "gp-simrol"
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := f.svc.Delete(context.Background(), globalAdmin, resp.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := f.repo.media[resp.ID]; ok {
		t.Error("record should be gone")
	}
	if f.gallery.has("gp-simrol", resp.ID) {
		t.Error("gallery entry should be gone")
	}
	if len(f.blobs.removals) != 1 || f.blobs.removals[0] != resp.StorageKey {
		t.Errorf("expected blob %q removed, got %v", resp.StorageKey, f.blobs.removals)
	}
}

func TestDelete_RTCDenied(t *testing.T) {
	f := newFixture()

	resp, _ := f.svc.Create(context.Background(), globalAdmin, uploadReq(nil))
	err := f.svc.Delete(context.Background(), rtcIndore, resp.ID)
	assertErrType(t, err, DenyRoleNotPermitted)
}

// --- Listing ---

func TestList_RTCScopedToAssignedDistricts(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.Create(context.Background(), globalAdmin, uploadReq(func(r *UploadRequest) {
		r.DistrictID = "indore"
	})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.svc.Create(context.Background(), globalAdmin, uploadReq(func(r *UploadRequest) {
		r.DistrictID = "bhopal"
	})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items, err := f.svc.List(context.Background(), rtcIndore, ListFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].DistrictID != "indore" {
		t.Errorf("expected only indore media, got %+v", items)
	}

	// An explicit filter outside the assignment is a scoping denial, not
	// an empty result.
	_, err = f.svc.List(context.Background(), rtcIndore, ListFilter{DistrictID: "bhopal"})
	assertErrType(t, err, DenyDistrictNotAssigned)
}

func TestPublicList_OnlyApproved(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.Create(context.Background(), rtcIndore, uploadReq(func(r *UploadRequest) {
		r.DistrictID = "indore"
	})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	approvedResp, err := f.svc.Create(context.Background(), globalAdmin, uploadReq(func(r *UploadRequest) {
		r.DistrictID = "indore"
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items, err := f.svc.PublicList(context.Background(), ListFilter{Status: StatusPending})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].ID != approvedResp.ID {
		t.Errorf("public list must ignore the status filter and return approved media only, got %+v", items)
	}
}

func TestPublicGet_HidesUnapproved(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Create(context.Background(), rtcIndore, uploadReq(func(r *UploadRequest) {
		r.DistrictID = "indore"
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = f.svc.PublicGet(context.Background(), resp.ID)
	assertErrCode(t, err, 404)
}

func TestGallery_ShowsOnlyApproved(t *testing.T) {
	f := newFixture()

	pending, err := f.svc.Create(context.Background(), rtcIndore, uploadReq(func(r *UploadRequest) {
		r.PanchayatID = "gp-simrol"
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	live, err := f.svc.Create(context.Background(), globalAdmin, uploadReq(func(r *UploadRequest) {
		r.PanchayatID = "gp-simrol"
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items, err := f.svc.Gallery(context.Background(), "gp-simrol")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].ID != live.ID {
		t.Errorf("gallery should hide pending media %s, got %+v", pending.ID, items)
	}

	_, err = f.svc.Gallery(context.Background(), "gp-unknown")
	assertErrCode(t, err, 404)
}
