package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mptourism/paryatan/internal/apperror"
)

// AdminRepository defines the data access contract for admin accounts.
type AdminRepository interface {
	Create(ctx context.Context, admin *Admin) error
	FindByID(ctx context.Context, id string) (*Admin, error)
	FindByEmail(ctx context.Context, email string) (*Admin, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateLastLogin(ctx context.Context, id string) error
	SetDisabled(ctx context.Context, id string, disabled bool) error
	SetAssignedDistricts(ctx context.Context, adminID string, districtIDs []string) error
	List(ctx context.Context, limit, offset int) ([]Admin, int, error)
}

// adminRepository implements AdminRepository with MariaDB queries.
type adminRepository struct {
	db *sql.DB
}

// NewAdminRepository creates a new admin repository.
func NewAdminRepository(db *sql.DB) AdminRepository {
	return &adminRepository{db: db}
}

// Create inserts a new admin account and its district assignments in a
// single transaction.
func (r *adminRepository) Create(ctx context.Context, admin *Admin) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO admins (id, name, email, password_hash, role, is_disabled, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		admin.ID, admin.Name, admin.Email, admin.PasswordHash,
		admin.Role, admin.IsDisabled, admin.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting admin: %w", err)
	}

	for _, districtID := range admin.AssignedDistrictIDs {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO admin_districts (admin_id, district_id) VALUES (?, ?)`,
			admin.ID, districtID,
		)
		if err != nil {
			return fmt.Errorf("inserting district assignment: %w", err)
		}
	}

	return tx.Commit()
}

// FindByID retrieves an admin account with its district assignments.
func (r *adminRepository) FindByID(ctx context.Context, id string) (*Admin, error) {
	return r.findBy(ctx, `id = ?`, id)
}

// FindByEmail retrieves an admin account by email.
func (r *adminRepository) FindByEmail(ctx context.Context, email string) (*Admin, error) {
	return r.findBy(ctx, `email = ?`, email)
}

// findBy runs the shared select with the given predicate and loads the
// admin's district assignments.
func (r *adminRepository) findBy(ctx context.Context, where string, arg any) (*Admin, error) {
	query := `SELECT id, name, email, password_hash, role, is_disabled, last_login_at, created_at
	          FROM admins WHERE ` + where

	admin := &Admin{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&admin.ID, &admin.Name, &admin.Email, &admin.PasswordHash,
		&admin.Role, &admin.IsDisabled, &admin.LastLoginAt, &admin.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("account not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying admin: %w", err)
	}

	admin.AssignedDistrictIDs, err = r.loadAssignedDistricts(ctx, admin.ID)
	if err != nil {
		return nil, err
	}
	return admin, nil
}

// loadAssignedDistricts returns the district ids assigned to an account.
func (r *adminRepository) loadAssignedDistricts(ctx context.Context, adminID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT district_id FROM admin_districts WHERE admin_id = ? ORDER BY district_id`,
		adminID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying district assignments: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning district assignment: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// EmailExists reports whether an account with the given email exists.
func (r *adminRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM admins WHERE email = ?`, email,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking email: %w", err)
	}
	return count > 0, nil
}

// UpdateLastLogin stamps the account's last successful login time.
func (r *adminRepository) UpdateLastLogin(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE admins SET last_login_at = NOW() WHERE id = ?`, id,
	)
	if err != nil {
		return fmt.Errorf("updating last login: %w", err)
	}
	return nil
}

// SetDisabled enables or disables an account. Accounts are never deleted,
// only deactivated, so uploaded media keeps a valid uploader reference.
func (r *adminRepository) SetDisabled(ctx context.Context, id string, disabled bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE admins SET is_disabled = ? WHERE id = ?`, disabled, id,
	)
	if err != nil {
		return fmt.Errorf("updating is_disabled: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return apperror.NewNotFound("account not found")
	}
	return nil
}

// SetAssignedDistricts replaces an account's district assignments.
func (r *adminRepository) SetAssignedDistricts(ctx context.Context, adminID string, districtIDs []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM admin_districts WHERE admin_id = ?`, adminID,
	); err != nil {
		return fmt.Errorf("clearing district assignments: %w", err)
	}

	for _, districtID := range districtIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO admin_districts (admin_id, district_id) VALUES (?, ?)`,
			adminID, districtID,
		); err != nil {
			return fmt.Errorf("inserting district assignment: %w", err)
		}
	}

	return tx.Commit()
}

// List returns admin accounts ordered by creation time, with pagination.
// District assignments are loaded per account; the account list is small.
func (r *adminRepository) List(ctx context.Context, limit, offset int) ([]Admin, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM admins`,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting admins: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, email, password_hash, role, is_disabled, last_login_at, created_at
		 FROM admins ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("listing admins: %w", err)
	}
	defer rows.Close()

	var admins []Admin
	for rows.Next() {
		var a Admin
		if err := rows.Scan(
			&a.ID, &a.Name, &a.Email, &a.PasswordHash,
			&a.Role, &a.IsDisabled, &a.LastLoginAt, &a.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scanning admin row: %w", err)
		}
		admins = append(admins, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range admins {
		ids, err := r.loadAssignedDistricts(ctx, admins[i].ID)
		if err != nil {
			return nil, 0, err
		}
		admins[i].AssignedDistrictIDs = ids
	}
	return admins, total, nil
}
