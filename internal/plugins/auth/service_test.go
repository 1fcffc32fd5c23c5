package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/mptourism/paryatan/internal/apperror"
)

// --- Mock Repository ---

// mockAdminRepo implements AdminRepository for testing.
type mockAdminRepo struct {
	createFn               func(ctx context.Context, admin *Admin) error
	findByIDFn             func(ctx context.Context, id string) (*Admin, error)
	findByEmailFn          func(ctx context.Context, email string) (*Admin, error)
	emailExistsFn          func(ctx context.Context, email string) (bool, error)
	updateLastLoginFn      func(ctx context.Context, id string) error
	setDisabledFn          func(ctx context.Context, id string, disabled bool) error
	setAssignedDistrictsFn func(ctx context.Context, adminID string, districtIDs []string) error
	listFn                 func(ctx context.Context, limit, offset int) ([]Admin, int, error)
}

func (m *mockAdminRepo) Create(ctx context.Context, admin *Admin) error {
	if m.createFn != nil {
		return m.createFn(ctx, admin)
	}
	return nil
}

func (m *mockAdminRepo) FindByID(ctx context.Context, id string) (*Admin, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, apperror.NewNotFound("account not found")
}

func (m *mockAdminRepo) FindByEmail(ctx context.Context, email string) (*Admin, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, apperror.NewNotFound("account not found")
}

func (m *mockAdminRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	if m.emailExistsFn != nil {
		return m.emailExistsFn(ctx, email)
	}
	return false, nil
}

func (m *mockAdminRepo) UpdateLastLogin(ctx context.Context, id string) error {
	if m.updateLastLoginFn != nil {
		return m.updateLastLoginFn(ctx, id)
	}
	return nil
}

func (m *mockAdminRepo) SetDisabled(ctx context.Context, id string, disabled bool) error {
	if m.setDisabledFn != nil {
		return m.setDisabledFn(ctx, id, disabled)
	}
	return nil
}

func (m *mockAdminRepo) SetAssignedDistricts(ctx context.Context, adminID string, districtIDs []string) error {
	if m.setAssignedDistrictsFn != nil {
		return m.setAssignedDistrictsFn(ctx, adminID, districtIDs)
	}
	return nil
}

func (m *mockAdminRepo) List(ctx context.Context, limit, offset int) ([]Admin, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, limit, offset)
	}
	return nil, 0, nil
}

// --- Test Helpers ---

// newTestAuthService creates an authService with a mock repo and a miniredis
// instance for session storage.
func newTestAuthService(t *testing.T, repo *mockAdminRepo) *authService {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return &authService{
		repo:       repo,
		redis:      rdb,
		sessionTTL: 24 * time.Hour,
	}
}

// assertAppError checks that err is an *apperror.AppError with the expected code.
func assertAppError(t *testing.T, err error, expectedCode int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %d, got nil", expectedCode)
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.AppError, got %T: %v", err, err)
	}
	if appErr.Code != expectedCode {
		t.Errorf("expected status %d, got %d (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// testAdmin returns an RTC account with a real argon2id hash for "correct-horse-battery".
func testAdmin(t *testing.T, role string, districts []string) *Admin {
	t.Helper()
	hash, err := hashPassword("correct-horse-battery")
	if err != nil {
		t.Fatalf("hashing test password: %v", err)
	}
	return &Admin{
		ID:                  "admin-1",
		Name:                "Asha",
		Email:               "asha@example.gov.in",
		PasswordHash:        hash,
		Role:                role,
		AssignedDistrictIDs: districts,
		CreatedAt:           time.Now().UTC(),
	}
}

// --- Login Tests ---

func TestLogin_Success(t *testing.T) {
	admin := testAdmin(t, RoleRTC, []string{"indore"})
	repo := &mockAdminRepo{
		findByEmailFn: func(ctx context.Context, email string) (*Admin, error) {
			if email != "asha@example.gov.in" {
				t.Errorf("expected lowercased trimmed email, got %q", email)
			}
			return admin, nil
		},
	}

	svc := newTestAuthService(t, repo)
	token, got, err := svc.Login(context.Background(), LoginInput{
		Email:    "  Asha@Example.gov.in ",
		Password: "correct-horse-battery",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Error("expected session token")
	}
	if got.ID != admin.ID {
		t.Errorf("expected admin %s, got %s", admin.ID, got.ID)
	}

	// The token must round-trip through session validation with the
	// role and district scope intact.
	session, err := svc.ValidateSession(context.Background(), token)
	if err != nil {
		t.Fatalf("validating session: %v", err)
	}
	if session.Role != RoleRTC {
		t.Errorf("expected role rtc, got %s", session.Role)
	}
	if len(session.AssignedDistrictIDs) != 1 || session.AssignedDistrictIDs[0] != "indore" {
		t.Errorf("expected assigned districts [indore], got %v", session.AssignedDistrictIDs)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	admin := testAdmin(t, RoleAdmin, nil)
	repo := &mockAdminRepo{
		findByEmailFn: func(ctx context.Context, email string) (*Admin, error) {
			return admin, nil
		},
	}

	svc := newTestAuthService(t, repo)
	_, _, err := svc.Login(context.Background(), LoginInput{
		Email:    "asha@example.gov.in",
		Password: "wrong",
	})
	assertAppError(t, err, 401)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := newTestAuthService(t, &mockAdminRepo{})
	_, _, err := svc.Login(context.Background(), LoginInput{
		Email:    "nobody@example.gov.in",
		Password: "whatever",
	})
	assertAppError(t, err, 401)
}

func TestLogin_DisabledAccount(t *testing.T) {
	admin := testAdmin(t, RoleRTC, []string{"bhopal"})
	admin.IsDisabled = true
	repo := &mockAdminRepo{
		findByEmailFn: func(ctx context.Context, email string) (*Admin, error) {
			return admin, nil
		},
	}

	svc := newTestAuthService(t, repo)
	_, _, err := svc.Login(context.Background(), LoginInput{
		Email:    "asha@example.gov.in",
		Password: "correct-horse-battery",
	})
	assertAppError(t, err, 403)
}

func TestDestroySession(t *testing.T) {
	admin := testAdmin(t, RoleAdmin, nil)
	repo := &mockAdminRepo{
		findByEmailFn: func(ctx context.Context, email string) (*Admin, error) {
			return admin, nil
		},
	}

	svc := newTestAuthService(t, repo)
	token, _, err := svc.Login(context.Background(), LoginInput{
		Email:    "asha@example.gov.in",
		Password: "correct-horse-battery",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.DestroySession(context.Background(), token); err != nil {
		t.Fatalf("destroying session: %v", err)
	}

	_, err = svc.ValidateSession(context.Background(), token)
	assertAppError(t, err, 401)
}

// --- CreateAccount Tests ---

func TestCreateAccount_RTCRequiresDistrict(t *testing.T) {
	svc := newTestAuthService(t, &mockAdminRepo{})
	_, err := svc.CreateAccount(context.Background(), CreateAccountInput{
		Name:     "Ravi",
		Email:    "ravi@example.gov.in",
		Password: "long-enough-password",
		Role:     RoleRTC,
	})
	assertAppError(t, err, 422)
}

func TestCreateAccount_AdminCannotHaveDistricts(t *testing.T) {
	svc := newTestAuthService(t, &mockAdminRepo{})
	_, err := svc.CreateAccount(context.Background(), CreateAccountInput{
		Name:                "Ravi",
		Email:               "ravi@example.gov.in",
		Password:            "long-enough-password",
		Role:                RoleAdmin,
		AssignedDistrictIDs: []string{"indore"},
	})
	assertAppError(t, err, 422)
}

func TestCreateAccount_Success(t *testing.T) {
	var created *Admin
	repo := &mockAdminRepo{
		createFn: func(ctx context.Context, admin *Admin) error {
			created = admin
			return nil
		},
	}

	svc := newTestAuthService(t, repo)
	admin, err := svc.CreateAccount(context.Background(), CreateAccountInput{
		Name:                "Ravi",
		Email:               "Ravi@Example.gov.in",
		Password:            "long-enough-password",
		Role:                RoleRTC,
		AssignedDistrictIDs: []string{"indore", "indore", "ujjain"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created == nil {
		t.Fatal("expected repository Create to be called")
	}
	if admin.Email != "ravi@example.gov.in" {
		t.Errorf("expected normalized email, got %q", admin.Email)
	}
	// Duplicate district ids collapse into a set.
	if len(admin.AssignedDistrictIDs) != 2 {
		t.Errorf("expected 2 assigned districts, got %v", admin.AssignedDistrictIDs)
	}
	if admin.PasswordHash == "" || admin.PasswordHash == "long-enough-password" {
		t.Error("expected password to be hashed")
	}
}

func TestCreateAccount_DuplicateEmail(t *testing.T) {
	repo := &mockAdminRepo{
		emailExistsFn: func(ctx context.Context, email string) (bool, error) {
			return true, nil
		},
	}

	svc := newTestAuthService(t, repo)
	_, err := svc.CreateAccount(context.Background(), CreateAccountInput{
		Name:                "Ravi",
		Email:               "ravi@example.gov.in",
		Password:            "long-enough-password",
		Role:                RoleRTC,
		AssignedDistrictIDs: []string{"indore"},
	})
	assertAppError(t, err, 409)
}

// --- AssignDistricts Tests ---

func TestAssignDistricts_OnlyRTC(t *testing.T) {
	repo := &mockAdminRepo{
		findByIDFn: func(ctx context.Context, id string) (*Admin, error) {
			a := testAdmin(t, RoleAdmin, nil)
			return a, nil
		},
	}

	svc := newTestAuthService(t, repo)
	err := svc.AssignDistricts(context.Background(), "admin-1", []string{"indore"})
	assertAppError(t, err, 422)
}

func TestAssignDistricts_Success(t *testing.T) {
	var gotDistricts []string
	repo := &mockAdminRepo{
		findByIDFn: func(ctx context.Context, id string) (*Admin, error) {
			return testAdmin(t, RoleRTC, []string{"bhopal"}), nil
		},
		setAssignedDistrictsFn: func(ctx context.Context, adminID string, districtIDs []string) error {
			gotDistricts = districtIDs
			return nil
		},
	}

	svc := newTestAuthService(t, repo)
	if err := svc.AssignDistricts(context.Background(), "admin-1", []string{"indore", "ujjain"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gotDistricts) != 2 {
		t.Errorf("expected 2 districts, got %v", gotDistricts)
	}
}

// --- Password Hashing Tests ---

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := hashPassword("a-sufficiently-long-password")
	if err != nil {
		t.Fatalf("hashing: %v", err)
	}

	ok, err := verifyPassword("a-sufficiently-long-password", hash)
	if err != nil {
		t.Fatalf("verifying: %v", err)
	}
	if !ok {
		t.Error("expected password to verify")
	}

	ok, err = verifyPassword("a-different-password", hash)
	if err != nil {
		t.Fatalf("verifying: %v", err)
	}
	if ok {
		t.Error("expected wrong password to fail verification")
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	if _, err := verifyPassword("whatever", "not-a-phc-string"); err == nil {
		t.Error("expected error for malformed hash")
	}
}
