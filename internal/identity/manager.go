// Package identity is the credential store: users, their password hashes,
// lockout bookkeeping, claims and roles.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/utafrali/SupplierGo/internal/domain"
	"github.com/utafrali/SupplierGo/internal/repository"
	apperrors "github.com/utafrali/SupplierGo/pkg/errors"
)

// SignInResult is the outcome of a password sign-in attempt.
type SignInResult int

const (
	SignInFailed SignInResult = iota
	SignInSucceeded
	SignInLockedOut
)

func (r SignInResult) String() string {
	switch r {
	case SignInSucceeded:
		return "succeeded"
	case SignInLockedOut:
		return "locked_out"
	default:
		return "failed"
	}
}

// LockoutOptions controls how many consecutive failures lock an account and
// for how long.
type LockoutOptions struct {
	MaxFailedAttempts int
	Duration          time.Duration
}

// DefaultLockoutOptions locks an account for five minutes after five
// consecutive failures.
func DefaultLockoutOptions() LockoutOptions {
	return LockoutOptions{MaxFailedAttempts: 5, Duration: 5 * time.Minute}
}

// Manager implements the credential store operations on top of the user,
// claim and role repositories.
type Manager struct {
	users      repository.UserRepository
	claims     repository.ClaimRepository
	roles      repository.RoleRepository
	password   PasswordOptions
	lockout    LockoutOptions
	bcryptCost int
	now        func() time.Time
	logger     *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithPasswordOptions replaces the default password policy.
func WithPasswordOptions(o PasswordOptions) Option {
	return func(m *Manager) { m.password = o }
}

// WithLockoutOptions replaces the default lockout policy.
func WithLockoutOptions(o LockoutOptions) Option {
	return func(m *Manager) { m.lockout = o }
}

// WithBcryptCost sets the hashing cost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(m *Manager) { m.bcryptCost = cost }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a credential store.
func NewManager(
	users repository.UserRepository,
	claims repository.ClaimRepository,
	roles repository.RoleRepository,
	logger *slog.Logger,
	opts ...Option,
) *Manager {
	m := &Manager{
		users:      users,
		claims:     claims,
		roles:      roles,
		password:   DefaultPasswordOptions(),
		lockout:    DefaultLockoutOptions(),
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NormalizeEmail returns the key used for case-insensitive email lookups.
func NormalizeEmail(email string) string {
	return strings.ToUpper(strings.TrimSpace(email))
}

// CreateUser registers a new account. A taken email or a password that
// violates policy yields a *CredentialError listing every problem found.
func (m *Manager) CreateUser(ctx context.Context, email, password string, emailConfirmed bool) (*domain.User, error) {
	normalized := NormalizeEmail(email)

	var problems []IdentityError
	_, err := m.users.GetByNormalizedEmail(ctx, normalized)
	switch {
	case err == nil:
		problems = append(problems, duplicateEmail(email))
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, fmt.Errorf("look up user by email: %w", err)
	}
	problems = append(problems, m.password.CheckPassword(password, email)...)
	if len(problems) > 0 {
		return nil, &CredentialError{Errors: problems}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), m.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := m.now().UTC()
	user := &domain.User{
		ID:              uuid.NewString(),
		Email:           strings.TrimSpace(email),
		NormalizedEmail: normalized,
		PasswordHash:    string(hash),
		EmailConfirmed:  emailConfirmed,
		LockoutEnabled:  true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := m.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			return nil, &CredentialError{Errors: []IdentityError{duplicateEmail(email)}}
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func duplicateEmail(email string) IdentityError {
	return IdentityError{
		Code:        CodeDuplicateEmail,
		Description: fmt.Sprintf("Email '%s' is already taken.", email),
	}
}

// FindByID returns errors.ErrNotFound when no user has the id.
func (m *Manager) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return m.users.GetByID(ctx, id)
}

// FindByEmail looks a user up case-insensitively.
func (m *Manager) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.users.GetByNormalizedEmail(ctx, NormalizeEmail(email))
}

// PasswordSignIn checks a password and maintains the lockout counters.
// Unknown emails and wrong passwords both report SignInFailed. A locked
// account reports SignInLockedOut without the password being checked.
func (m *Manager) PasswordSignIn(ctx context.Context, email, password string) (*domain.User, SignInResult, error) {
	user, err := m.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, SignInFailed, nil
		}
		return nil, SignInFailed, fmt.Errorf("look up user by email: %w", err)
	}

	now := m.now().UTC()
	if user.IsLockedOut(now) {
		return user, SignInLockedOut, nil
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return m.recordFailure(ctx, user, now)
	}

	if user.AccessFailedCount != 0 || user.LockoutEnd != nil {
		user.AccessFailedCount = 0
		user.LockoutEnd = nil
		user.UpdatedAt = now
		if err := m.users.UpdateLockout(ctx, user); err != nil {
			return nil, SignInFailed, fmt.Errorf("reset lockout: %w", err)
		}
	}
	return user, SignInSucceeded, nil
}

func (m *Manager) recordFailure(ctx context.Context, user *domain.User, now time.Time) (*domain.User, SignInResult, error) {
	if !user.LockoutEnabled {
		return user, SignInFailed, nil
	}

	result := SignInFailed
	user.AccessFailedCount++
	if user.AccessFailedCount >= m.lockout.MaxFailedAttempts {
		end := now.Add(m.lockout.Duration)
		user.LockoutEnd = &end
		user.AccessFailedCount = 0
		result = SignInLockedOut
	}
	user.UpdatedAt = now

	if err := m.users.UpdateLockout(ctx, user); err != nil {
		return nil, SignInFailed, fmt.Errorf("record failed sign-in: %w", err)
	}
	if result == SignInLockedOut {
		m.logger.WarnContext(ctx, "account locked out",
			slog.String("user_id", user.ID),
			slog.Time("lockout_end", *user.LockoutEnd),
		)
	}
	return user, result, nil
}

// Claims lists the user's claims in the order they were granted.
func (m *Manager) Claims(ctx context.Context, userID string) ([]domain.Claim, error) {
	return m.claims.ListByUserID(ctx, userID)
}

// Roles lists the user's role names.
func (m *Manager) Roles(ctx context.Context, userID string) ([]string, error) {
	return m.roles.ListByUserID(ctx, userID)
}

// AddClaim grants a claim. A claim type the user already holds yields
// errors.ErrAlreadyExists.
func (m *Manager) AddClaim(ctx context.Context, userID string, claim domain.Claim) error {
	return m.claims.Add(ctx, userID, claim)
}
