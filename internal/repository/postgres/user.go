package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/SupplierGo/internal/domain"
	"github.com/utafrali/SupplierGo/pkg/database"
	apperrors "github.com/utafrali/SupplierGo/pkg/errors"
)

const (
	insertUserSQL = `
		INSERT INTO users (id, email, normalized_email, password_hash, email_confirmed, lockout_enabled, lockout_end, access_failed_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	selectUserSQL = `
		SELECT id, email, normalized_email, password_hash, email_confirmed, lockout_enabled, lockout_end, access_failed_count, created_at, updated_at
		FROM users`

	updateLockoutSQL = `
		UPDATE users
		SET access_failed_count = $1, lockout_end = $2, updated_at = $3
		WHERE id = $4`

	listClaimsSQL = `
		SELECT claim_type, claim_value
		FROM user_claims
		WHERE user_id = $1
		ORDER BY id`

	insertClaimSQL = `
		INSERT INTO user_claims (user_id, claim_type, claim_value)
		VALUES ($1, $2, $3)`

	listRolesSQL = `
		SELECT role_name
		FROM user_roles
		WHERE user_id = $1
		ORDER BY role_name`

	assignRoleSQL = `
		INSERT INTO user_roles (user_id, role_name)
		VALUES ($1, $2)
		ON CONFLICT (user_id, role_name) DO NOTHING`
)

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	db database.DBTX
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(db database.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user into the database.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) (err error) {
	ctx, end := database.TraceQuery(ctx, "user.Create", insertUserSQL)
	defer func() { end(err) }()

	_, err = r.db.Exec(ctx, insertUserSQL,
		u.ID,
		u.Email,
		u.NormalizedEmail,
		u.PasswordHash,
		u.EmailConfirmed,
		u.LockoutEnabled,
		u.LockoutEnd,
		u.AccessFailedCount,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("user", "email", u.Email)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by their ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.scanUser(ctx, "user.GetByID", selectUserSQL+" WHERE id = $1", id)
}

// GetByNormalizedEmail retrieves a user by their normalized email.
func (r *UserRepository) GetByNormalizedEmail(ctx context.Context, normalizedEmail string) (*domain.User, error) {
	return r.scanUser(ctx, "user.GetByNormalizedEmail", selectUserSQL+" WHERE normalized_email = $1", normalizedEmail)
}

// UpdateLockout writes the failed-attempt bookkeeping for u, including the
// UpdatedAt stamp set by the caller.
func (r *UserRepository) UpdateLockout(ctx context.Context, u *domain.User) (err error) {
	ctx, end := database.TraceQuery(ctx, "user.UpdateLockout", updateLockoutSQL)
	defer func() { end(err) }()

	ct, err := r.db.Exec(ctx, updateLockoutSQL, u.AccessFailedCount, u.LockoutEnd, u.UpdatedAt, u.ID)
	if err != nil {
		return fmt.Errorf("update user lockout: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", u.ID)
	}
	return nil
}

func (r *UserRepository) scanUser(ctx context.Context, op, query string, args ...any) (_ *domain.User, err error) {
	ctx, end := database.TraceQuery(ctx, op, query)
	defer func() {
		if errors.Is(err, apperrors.ErrNotFound) {
			end(nil)
			return
		}
		end(err)
	}()

	var u domain.User
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&u.ID,
		&u.Email,
		&u.NormalizedEmail,
		&u.PasswordHash,
		&u.EmailConfirmed,
		&u.LockoutEnabled,
		&u.LockoutEnd,
		&u.AccessFailedCount,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

// --- Claim Repository ---

// ClaimRepository implements repository.ClaimRepository using PostgreSQL.
type ClaimRepository struct {
	db database.DBTX
}

// NewClaimRepository creates a new PostgreSQL-backed claim repository.
func NewClaimRepository(db database.DBTX) *ClaimRepository {
	return &ClaimRepository{db: db}
}

// ListByUserID returns the user's claims in insertion order.
func (r *ClaimRepository) ListByUserID(ctx context.Context, userID string) (_ []domain.Claim, err error) {
	ctx, end := database.TraceQuery(ctx, "claim.ListByUserID", listClaimsSQL)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, listClaimsSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}
	defer rows.Close()

	claims := make([]domain.Claim, 0)
	for rows.Next() {
		var c domain.Claim
		if err = rows.Scan(&c.Type, &c.Value); err != nil {
			return nil, fmt.Errorf("scan claim: %w", err)
		}
		claims = append(claims, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate claims: %w", err)
	}
	return claims, nil
}

// Add inserts a claim. The (user_id, claim_type) unique index turns a
// concurrent duplicate into ErrAlreadyExists.
func (r *ClaimRepository) Add(ctx context.Context, userID string, c domain.Claim) (err error) {
	ctx, end := database.TraceQuery(ctx, "claim.Add", insertClaimSQL)
	defer func() { end(err) }()

	if _, err = r.db.Exec(ctx, insertClaimSQL, userID, c.Type, c.Value); err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("claim", "claim_type", c.Type)
		}
		return fmt.Errorf("insert claim: %w", err)
	}
	return nil
}

// --- Role Repository ---

// RoleRepository implements repository.RoleRepository using PostgreSQL.
type RoleRepository struct {
	db database.DBTX
}

// NewRoleRepository creates a new PostgreSQL-backed role repository.
func NewRoleRepository(db database.DBTX) *RoleRepository {
	return &RoleRepository{db: db}
}

// ListByUserID returns the names of the user's roles.
func (r *RoleRepository) ListByUserID(ctx context.Context, userID string) (_ []string, err error) {
	ctx, end := database.TraceQuery(ctx, "role.ListByUserID", listRolesSQL)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, listRolesSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}

	roles, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collect roles: %w", err)
	}
	return roles, nil
}

// Assign grants a role to a user. Granting a role the user already holds
// is a no-op. The HTTP surface never calls this; roles are provisioned by
// the seed command.
func (r *RoleRepository) Assign(ctx context.Context, userID, role string) (err error) {
	ctx, end := database.TraceQuery(ctx, "role.Assign", assignRoleSQL)
	defer func() { end(err) }()

	if _, err = r.db.Exec(ctx, assignRoleSQL, userID, role); err != nil {
		return fmt.Errorf("assign role %q: %w", role, err)
	}
	return nil
}
