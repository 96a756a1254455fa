// Package seed bootstraps a fresh supplier database: an administrator
// holding every policy claim, its roles, and optionally a batch of sample
// suppliers. It is the only way the first AddClaim holder comes to exist.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/utafrali/SupplierGo/internal/auth"
	"github.com/utafrali/SupplierGo/internal/domain"
	"github.com/utafrali/SupplierGo/internal/repository"
	apperrors "github.com/utafrali/SupplierGo/pkg/errors"
)

// Config is read from SEED_* environment variables.
type Config struct {
	AdminEmail    string   `env:"SEED_ADMIN_EMAIL" envDefault:"admin@supplier.local"`
	AdminPassword string   `env:"SEED_ADMIN_PASSWORD,required"`
	AdminRoles    []string `env:"SEED_ADMIN_ROLES" envDefault:"admin" envSeparator:","`
	Suppliers     int      `env:"SEED_SUPPLIERS" envDefault:"0"`
}

// AdminClaims are granted to the seeded administrator.
var AdminClaims = []string{auth.ClaimAddClaim, auth.ClaimUpdateSupplier, auth.ClaimDeleteSupplier}

// UserStore is the slice of the credential store the seeder needs.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	CreateUser(ctx context.Context, email, password string, emailConfirmed bool) (*domain.User, error)
	Claims(ctx context.Context, userID string) ([]domain.Claim, error)
	AddClaim(ctx context.Context, userID string, claim domain.Claim) error
}

// RoleAssigner grants roles.
type RoleAssigner interface {
	Assign(ctx context.Context, userID, role string) error
}

// Result summarizes a seeding run.
type Result struct {
	AdminID          string
	AdminCreated     bool
	ClaimsGranted    int
	SuppliersCreated int
}

// Seeder applies Config against the stores. Every step is idempotent except
// supplier creation, which always inserts Config.Suppliers new rows.
type Seeder struct {
	users     UserStore
	roles     RoleAssigner
	suppliers repository.SupplierRepository
	logger    *slog.Logger
}

// New creates a Seeder.
func New(users UserStore, roles RoleAssigner, suppliers repository.SupplierRepository, logger *slog.Logger) *Seeder {
	return &Seeder{users: users, roles: roles, suppliers: suppliers, logger: logger}
}

// Run seeds the administrator and the sample suppliers.
func (s *Seeder) Run(ctx context.Context, cfg Config) (*Result, error) {
	admin, created, err := s.ensureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		return nil, err
	}
	res := &Result{AdminID: admin.ID, AdminCreated: created}

	granted, err := s.grantClaims(ctx, admin.ID)
	if err != nil {
		return nil, err
	}
	res.ClaimsGranted = granted

	for _, role := range cfg.AdminRoles {
		if role == "" {
			continue
		}
		if err := s.roles.Assign(ctx, admin.ID, role); err != nil {
			return nil, err
		}
	}

	for i := range cfg.Suppliers {
		sup := SampleSupplier(i)
		rows, err := s.suppliers.Create(ctx, sup)
		if err != nil {
			return nil, fmt.Errorf("seed supplier %d: %w", i+1, err)
		}
		if rows == 0 {
			return nil, fmt.Errorf("seed supplier %d: no rows inserted", i+1)
		}
		res.SuppliersCreated++
	}

	s.logger.InfoContext(ctx, "seed complete",
		slog.String("admin_id", res.AdminID),
		slog.Bool("admin_created", res.AdminCreated),
		slog.Int("claims_granted", res.ClaimsGranted),
		slog.Int("suppliers_created", res.SuppliersCreated),
	)
	return res, nil
}

func (s *Seeder) ensureAdmin(ctx context.Context, email, password string) (*domain.User, bool, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		s.logger.InfoContext(ctx, "admin already exists", slog.String("admin_id", user.ID))
		return user, false, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, false, fmt.Errorf("look up admin: %w", err)
	}

	user, err = s.users.CreateUser(ctx, email, password, true)
	if err != nil {
		return nil, false, fmt.Errorf("create admin: %w", err)
	}
	return user, true, nil
}

func (s *Seeder) grantClaims(ctx context.Context, userID string) (int, error) {
	held, err := s.users.Claims(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("read admin claims: %w", err)
	}
	has := make(map[string]bool, len(held))
	for _, c := range held {
		has[c.Type] = true
	}

	granted := 0
	for _, typ := range AdminClaims {
		if has[typ] {
			continue
		}
		err := s.users.AddClaim(ctx, userID, domain.Claim{Type: typ, Value: "true"})
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			continue
		}
		if err != nil {
			return granted, fmt.Errorf("grant %s: %w", typ, err)
		}
		granted++
	}
	return granted, nil
}

// SampleSupplier returns the i-th (zero-based) sample supplier. Every fifth
// one is inactive.
func SampleSupplier(i int) *domain.Supplier {
	return domain.NewSupplier(
		fmt.Sprintf("Sample Supplier %03d", i+1),
		fmt.Sprintf("%014d", 10000000000000+i),
		i%5 != 4,
	)
}
