package geo

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mptourism/paryatan/internal/apperror"
)

// ErrTypePanchayatDistrictMismatch is the machine-readable error type
// returned when a supplied district contradicts the panchayat's owner.
const ErrTypePanchayatDistrictMismatch = "panchayat_district_mismatch"

// Registry is the lookup contract other plugins depend on. The media
// pipeline only ever reads geography through this interface.
type Registry interface {
	// ResolveDistrict returns the district or a not-found error.
	ResolveDistrict(ctx context.Context, id string) (*District, error)

	// ResolvePanchayat returns the gram panchayat or a not-found error.
	ResolvePanchayat(ctx context.Context, id string) (*GramPanchayat, error)

	// ValidateConsistency resolves the supplied district/panchayat pair
	// (either may be empty) into a Placement. When both are supplied, the
	// panchayat must belong to the district. When only the panchayat is
	// supplied, the district is inferred from it.
	ValidateConsistency(ctx context.Context, districtID, panchayatID string) (*Placement, error)
}

// GeoService is the full service contract: the Registry lookups plus the
// admin-facing management operations.
type GeoService interface {
	Registry

	CreateDistrict(ctx context.Context, input CreateDistrictInput) (*District, error)
	CreatePanchayat(ctx context.Context, input CreatePanchayatInput) (*GramPanchayat, error)
	ListDistricts(ctx context.Context) ([]District, error)
	ListPanchayats(ctx context.Context, districtID string) ([]GramPanchayat, error)
}

// geoService implements GeoService.
type geoService struct {
	repo GeoRepository
}

// NewGeoService creates a new geography service.
func NewGeoService(repo GeoRepository) GeoService {
	return &geoService{repo: repo}
}

// ResolveDistrict returns the district or a not-found error.
func (s *geoService) ResolveDistrict(ctx context.Context, id string) (*District, error) {
	return s.repo.FindDistrict(ctx, id)
}

// ResolvePanchayat returns the gram panchayat or a not-found error.
func (s *geoService) ResolvePanchayat(ctx context.Context, id string) (*GramPanchayat, error) {
	return s.repo.FindPanchayat(ctx, id)
}

// ValidateConsistency resolves the supplied geography into a Placement.
//
// The inference rule is deliberate: when only a panchayat is supplied, the
// owning district becomes the effective district for both authorization and
// storage. Geographic scoping must never be bypassable by omitting the
// district field while supplying a panchayat.
func (s *geoService) ValidateConsistency(ctx context.Context, districtID, panchayatID string) (*Placement, error) {
	placement := &Placement{}

	if panchayatID != "" {
		panchayat, err := s.repo.FindPanchayat(ctx, panchayatID)
		if err != nil {
			return nil, err
		}
		if districtID != "" && panchayat.DistrictID != districtID {
			return nil, apperror.NewBadRequestTyped(ErrTypePanchayatDistrictMismatch,
				"the gram panchayat does not belong to the supplied district")
		}

		district, err := s.repo.FindDistrict(ctx, panchayat.DistrictID)
		if err != nil {
			return nil, err
		}

		placement.Panchayat = panchayat
		placement.District = district
		placement.EffectiveDistrictID = panchayat.DistrictID
		return placement, nil
	}

	if districtID != "" {
		district, err := s.repo.FindDistrict(ctx, districtID)
		if err != nil {
			return nil, err
		}
		placement.District = district
		placement.EffectiveDistrictID = district.ID
	}

	return placement, nil
}

// CreateDistrict registers a new district. The id doubles as the slug so
// public URLs and media references stay human-readable.
func (s *geoService) CreateDistrict(ctx context.Context, input CreateDistrictInput) (*District, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.NewValidation("district name is required")
	}

	slug := slugify(name)
	if slug == "" {
		return nil, apperror.NewValidation("district name must contain letters or digits")
	}

	district := &District{
		ID:          slug,
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(input.Description),
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.CreateDistrict(ctx, district); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("creating district: %w", err))
	}
	return district, nil
}

// CreatePanchayat registers a new gram panchayat under an existing district.
func (s *geoService) CreatePanchayat(ctx context.Context, input CreatePanchayatInput) (*GramPanchayat, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.NewValidation("panchayat name is required")
	}
	if input.DistrictID == "" {
		return nil, apperror.NewValidation("district_id is required")
	}

	// The owning district must exist; it is immutable after creation.
	if _, err := s.repo.FindDistrict(ctx, input.DistrictID); err != nil {
		return nil, err
	}

	slug := slugify(name)
	if slug == "" {
		return nil, apperror.NewValidation("panchayat name must contain letters or digits")
	}

	panchayat := &GramPanchayat{
		ID:          uuid.NewString(),
		DistrictID:  input.DistrictID,
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(input.Description),
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.CreatePanchayat(ctx, panchayat); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("creating panchayat: %w", err))
	}
	return panchayat, nil
}

// ListDistricts returns all districts.
func (s *geoService) ListDistricts(ctx context.Context) ([]District, error) {
	districts, err := s.repo.ListDistricts(ctx)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing districts: %w", err))
	}
	return districts, nil
}

// ListPanchayats returns a district's panchayats.
func (s *geoService) ListPanchayats(ctx context.Context, districtID string) ([]GramPanchayat, error) {
	if _, err := s.repo.FindDistrict(ctx, districtID); err != nil {
		return nil, err
	}
	panchayats, err := s.repo.ListPanchayatsByDistrict(ctx, districtID)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing panchayats: %w", err))
	}
	return panchayats, nil
}

// slugRe matches runs of characters that are dropped from slugs.
var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// slugify lowercases a name and collapses non-alphanumerics to hyphens.
func slugify(name string) string {
	slug := slugRe.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}
