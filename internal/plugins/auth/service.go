package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/argon2"

	"github.com/mptourism/paryatan/internal/apperror"
)

// sessionKeyPrefix is the Redis key prefix for session data.
const sessionKeyPrefix = "session:"

// sessionTokenBytes is the number of random bytes in a session token.
// 32 bytes = 256 bits of entropy, hex-encoded to 64 characters.
const sessionTokenBytes = 32

// argon2id parameters following OWASP recommendations:
// memory=64MB, iterations=3, parallelism=4.
const (
	argonTime    = 3
	argonMemory  = 64 * 1024 // 64 MB in KiB
	argonThreads = 4
	argonKeyLen  = 32
	argonSaltLen = 16
)

// minPasswordLength is the minimum accepted password length for new accounts.
const minPasswordLength = 10

// AuthService defines the business logic contract for authentication and
// account provisioning. Handlers call these methods -- they never touch the
// repository directly.
type AuthService interface {
	Login(ctx context.Context, input LoginInput) (token string, admin *Admin, err error)
	ValidateSession(ctx context.Context, token string) (*Session, error)
	DestroySession(ctx context.Context, token string) error

	// CreateAccount provisions a new admin or RTC account. Caller must be
	// a global admin (enforced by middleware on the route).
	CreateAccount(ctx context.Context, input CreateAccountInput) (*Admin, error)

	// AssignDistricts replaces an RTC account's district assignments.
	AssignDistricts(ctx context.Context, adminID string, districtIDs []string) error

	// SetDisabled deactivates or reactivates an account.
	SetDisabled(ctx context.Context, adminID string, disabled bool) error

	ListAccounts(ctx context.Context, page int) ([]Admin, int, error)
}

// accountsPerPage is the page size for the account list.
const accountsPerPage = 50

// authService implements AuthService with argon2id hashing and Redis sessions.
type authService struct {
	repo       AdminRepository
	redis      *redis.Client
	sessionTTL time.Duration
}

// NewAuthService creates a new auth service with the given dependencies.
func NewAuthService(repo AdminRepository, rdb *redis.Client, sessionTTL time.Duration) AuthService {
	return &authService{
		repo:       repo,
		redis:      rdb,
		sessionTTL: sessionTTL,
	}
}

// Login verifies credentials, creates a new session in Redis, and returns
// the session token for the cookie.
func (s *authService) Login(ctx context.Context, input LoginInput) (string, *Admin, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	admin, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		// Same message for unknown email and wrong password so login
		// responses cannot be used to enumerate accounts.
		return "", nil, apperror.NewUnauthorized("invalid email or password")
	}

	ok, err := verifyPassword(input.Password, admin.PasswordHash)
	if err != nil {
		return "", nil, apperror.NewInternal(fmt.Errorf("verifying password: %w", err))
	}
	if !ok {
		return "", nil, apperror.NewUnauthorized("invalid email or password")
	}

	if admin.IsDisabled {
		return "", nil, apperror.NewForbidden("account_disabled", "this account has been deactivated")
	}

	token, err := s.createSession(ctx, admin)
	if err != nil {
		return "", nil, apperror.NewInternal(fmt.Errorf("creating session: %w", err))
	}

	if err := s.repo.UpdateLastLogin(ctx, admin.ID); err != nil {
		// Non-fatal: the login itself succeeded.
		slog.Warn("failed to update last login",
			slog.String("admin_id", admin.ID),
			slog.Any("error", err),
		)
	}

	slog.Info("admin logged in",
		slog.String("admin_id", admin.ID),
		slog.String("role", admin.Role),
	)
	return token, admin, nil
}

// createSession generates a random token and stores the session in Redis.
func (s *authService) createSession(ctx context.Context, admin *Admin) (string, error) {
	raw := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generating session token: %w", err)
	}
	token := hex.EncodeToString(raw)

	session := &Session{
		AdminID:             admin.ID,
		Name:                admin.Name,
		Role:                admin.Role,
		AssignedDistrictIDs: admin.AssignedDistrictIDs,
		CreatedAt:           time.Now().UTC(),
	}

	data, err := json.Marshal(session)
	if err != nil {
		return "", fmt.Errorf("marshaling session: %w", err)
	}

	if err := s.redis.Set(ctx, sessionKeyPrefix+token, data, s.sessionTTL).Err(); err != nil {
		return "", fmt.Errorf("storing session in Redis: %w", err)
	}
	return token, nil
}

// ValidateSession looks up a session token in Redis and returns the session
// data, or an unauthorized error if the token is unknown or expired.
func (s *authService) ValidateSession(ctx context.Context, token string) (*Session, error) {
	key := sessionKeyPrefix + token

	data, err := s.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, apperror.NewUnauthorized("session expired or invalid")
	}
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("reading session from Redis: %w", err))
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("unmarshaling session: %w", err))
	}

	return &session, nil
}

// DestroySession removes a session from Redis, logging the admin out.
func (s *authService) DestroySession(ctx context.Context, token string) error {
	if err := s.redis.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
		return apperror.NewInternal(fmt.Errorf("deleting session: %w", err))
	}
	return nil
}

// CreateAccount provisions a new account. RTC accounts must have at least
// one assigned district; global admin accounts must have none (a global
// admin's access is never district-scoped).
func (s *authService) CreateAccount(ctx context.Context, input CreateAccountInput) (*Admin, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if input.Name == "" || email == "" {
		return nil, apperror.NewValidation("name and email are required")
	}
	if len(input.Password) < minPasswordLength {
		return nil, apperror.NewValidation(
			fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	switch input.Role {
	case RoleAdmin:
		if len(input.AssignedDistrictIDs) > 0 {
			return nil, apperror.NewValidation("global admins cannot have district assignments")
		}
	case RoleRTC:
		if len(input.AssignedDistrictIDs) == 0 {
			return nil, apperror.NewValidation("an RTC account needs at least one assigned district")
		}
	default:
		return nil, apperror.NewValidation("role must be admin or rtc")
	}

	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("checking email: %w", err))
	}
	if exists {
		return nil, apperror.NewConflict("an account with this email already exists")
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("hashing password: %w", err))
	}

	admin := &Admin{
		ID:                  uuid.NewString(),
		Name:                input.Name,
		Email:               email,
		PasswordHash:        hash,
		Role:                input.Role,
		AssignedDistrictIDs: dedupe(input.AssignedDistrictIDs),
		CreatedAt:           time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, admin); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("creating account: %w", err))
	}

	slog.Info("account provisioned",
		slog.String("admin_id", admin.ID),
		slog.String("role", admin.Role),
		slog.Int("districts", len(admin.AssignedDistrictIDs)),
	)
	return admin, nil
}

// AssignDistricts replaces an RTC account's district assignments. Existing
// sessions keep the old assignments until they expire or the RTC logs in
// again; assignments change rarely enough that this is acceptable.
func (s *authService) AssignDistricts(ctx context.Context, adminID string, districtIDs []string) error {
	admin, err := s.repo.FindByID(ctx, adminID)
	if err != nil {
		return err
	}
	if admin.Role != RoleRTC {
		return apperror.NewValidation("district assignments only apply to RTC accounts")
	}
	if len(districtIDs) == 0 {
		return apperror.NewValidation("an RTC account needs at least one assigned district")
	}

	if err := s.repo.SetAssignedDistricts(ctx, adminID, dedupe(districtIDs)); err != nil {
		return apperror.NewInternal(fmt.Errorf("setting district assignments: %w", err))
	}
	return nil
}

// SetDisabled deactivates or reactivates an account.
func (s *authService) SetDisabled(ctx context.Context, adminID string, disabled bool) error {
	return s.repo.SetDisabled(ctx, adminID, disabled)
}

// ListAccounts returns a page of admin accounts. Pages are 1-indexed.
func (s *authService) ListAccounts(ctx context.Context, page int) ([]Admin, int, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * accountsPerPage
	admins, total, err := s.repo.List(ctx, accountsPerPage, offset)
	if err != nil {
		return nil, 0, apperror.NewInternal(fmt.Errorf("listing accounts: %w", err))
	}
	return admins, total, nil
}

// dedupe returns the input slice with duplicates removed, preserving order.
func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// --- Password hashing (argon2id, PHC string format) ---

// hashPassword hashes a password with argon2id and a random salt, returning
// the PHC-formatted string for storage.
func hashPassword(password string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// verifyPassword checks a password against a stored PHC-formatted argon2id
// hash using constant-time comparison.
func verifyPassword(password, encoded string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, fmt.Errorf("malformed password hash")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, fmt.Errorf("parsing hash version: %w", err)
	}

	var memory, iterations uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return false, fmt.Errorf("parsing hash parameters: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("decoding salt: %w", err)
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("decoding hash: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, uint32(len(expected)))
	return subtle.ConstantTimeCompare(key, expected) == 1, nil
}
