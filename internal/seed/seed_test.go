package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/SupplierGo/internal/auth"
	"github.com/utafrali/SupplierGo/internal/domain"
	apperrors "github.com/utafrali/SupplierGo/pkg/errors"
	"github.com/utafrali/SupplierGo/pkg/logger"
)

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserStore) CreateUser(ctx context.Context, email, password string, confirmed bool) (*domain.User, error) {
	args := m.Called(ctx, email, password, confirmed)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserStore) Claims(ctx context.Context, userID string) ([]domain.Claim, error) {
	args := m.Called(ctx, userID)
	claims, _ := args.Get(0).([]domain.Claim)
	return claims, args.Error(1)
}

func (m *mockUserStore) AddClaim(ctx context.Context, userID string, claim domain.Claim) error {
	return m.Called(ctx, userID, claim).Error(0)
}

type mockRoles struct{ mock.Mock }

func (m *mockRoles) Assign(ctx context.Context, userID, role string) error {
	return m.Called(ctx, userID, role).Error(0)
}

type mockSuppliers struct{ mock.Mock }

func (m *mockSuppliers) List(ctx context.Context) ([]*domain.Supplier, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]*domain.Supplier)
	return list, args.Error(1)
}

func (m *mockSuppliers) GetByID(ctx context.Context, id uuid.UUID) (*domain.Supplier, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*domain.Supplier)
	return s, args.Error(1)
}

func (m *mockSuppliers) Create(ctx context.Context, s *domain.Supplier) (int64, error) {
	args := m.Called(ctx, s)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSuppliers) Replace(ctx context.Context, s *domain.Supplier) (int64, error) {
	args := m.Called(ctx, s)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSuppliers) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

type fixture struct {
	users     *mockUserStore
	roles     *mockRoles
	suppliers *mockSuppliers
	seeder    *Seeder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{users: &mockUserStore{}, roles: &mockRoles{}, suppliers: &mockSuppliers{}}
	f.seeder = New(f.users, f.roles, f.suppliers, logger.Discard())
	t.Cleanup(func() {
		f.users.AssertExpectations(t)
		f.roles.AssertExpectations(t)
		f.suppliers.AssertExpectations(t)
	})
	return f
}

var baseConfig = Config{
	AdminEmail:    "admin@supplier.local",
	AdminPassword: "Adm1n!pass",
	AdminRoles:    []string{"admin"},
}

func claim(typ string) domain.Claim { return domain.Claim{Type: typ, Value: "true"} }

func TestRun_FreshDatabase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := &domain.User{ID: "u-admin", Email: baseConfig.AdminEmail}

	f.users.On("FindByEmail", ctx, baseConfig.AdminEmail).Return(nil, apperrors.NotFound("user", baseConfig.AdminEmail))
	f.users.On("CreateUser", ctx, baseConfig.AdminEmail, baseConfig.AdminPassword, true).Return(admin, nil)
	f.users.On("Claims", ctx, "u-admin").Return([]domain.Claim{}, nil)
	for _, typ := range AdminClaims {
		f.users.On("AddClaim", ctx, "u-admin", claim(typ)).Return(nil).Once()
	}
	f.roles.On("Assign", ctx, "u-admin", "admin").Return(nil)

	cfg := baseConfig
	cfg.Suppliers = 3
	f.suppliers.On("Create", ctx, mock.AnythingOfType("*domain.Supplier")).Return(int64(1), nil).Times(3)

	res, err := f.seeder.Run(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, &Result{AdminID: "u-admin", AdminCreated: true, ClaimsGranted: 3, SuppliersCreated: 3}, res)
}

func TestRun_ExistingAdminOnlyGrantsMissingClaims(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := &domain.User{ID: "u-admin"}

	f.users.On("FindByEmail", ctx, baseConfig.AdminEmail).Return(admin, nil)
	f.users.On("Claims", ctx, "u-admin").Return([]domain.Claim{claim(auth.ClaimAddClaim)}, nil)
	f.users.On("AddClaim", ctx, "u-admin", claim(auth.ClaimUpdateSupplier)).Return(nil)
	f.users.On("AddClaim", ctx, "u-admin", claim(auth.ClaimDeleteSupplier)).Return(apperrors.AlreadyExists("claim", "claim_type", auth.ClaimDeleteSupplier))

	cfg := baseConfig
	cfg.AdminRoles = []string{"admin", "", "ops"}
	f.roles.On("Assign", ctx, "u-admin", "admin").Return(nil)
	f.roles.On("Assign", ctx, "u-admin", "ops").Return(nil)

	res, err := f.seeder.Run(ctx, cfg)
	require.NoError(t, err)
	assert.False(t, res.AdminCreated)
	assert.Equal(t, 1, res.ClaimsGranted)
	assert.Zero(t, res.SuppliersCreated)
}

func TestRun_LookupFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.users.On("FindByEmail", ctx, baseConfig.AdminEmail).Return(nil, errors.New("connection refused"))

	_, err := f.seeder.Run(ctx, baseConfig)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "look up admin")
}

func TestRun_RejectedPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.users.On("FindByEmail", ctx, baseConfig.AdminEmail).Return(nil, apperrors.ErrNotFound)
	f.users.On("CreateUser", ctx, baseConfig.AdminEmail, baseConfig.AdminPassword, true).
		Return(nil, errors.New("credential rejected: Passwords must have at least one digit ('0'-'9')."))

	_, err := f.seeder.Run(ctx, baseConfig)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create admin")
}

func TestRun_SupplierNotInserted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.users.On("FindByEmail", ctx, baseConfig.AdminEmail).Return(&domain.User{ID: "u-admin"}, nil)
	f.users.On("Claims", ctx, "u-admin").Return([]domain.Claim{
		claim(auth.ClaimAddClaim), claim(auth.ClaimUpdateSupplier), claim(auth.ClaimDeleteSupplier),
	}, nil)
	f.roles.On("Assign", ctx, "u-admin", "admin").Return(nil)
	f.suppliers.On("Create", ctx, mock.AnythingOfType("*domain.Supplier")).Return(int64(0), nil).Once()

	cfg := baseConfig
	cfg.Suppliers = 2
	_, err := f.seeder.Run(ctx, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed supplier 1: no rows inserted")
}

func TestSampleSupplier(t *testing.T) {
	first := SampleSupplier(0)
	assert.Equal(t, "Sample Supplier 001", first.Name)
	assert.Equal(t, "10000000000000", first.Document)
	assert.Len(t, first.Document, 14)
	assert.True(t, first.Active)

	assert.False(t, SampleSupplier(4).Active)
	assert.NotEqual(t, SampleSupplier(1).ID(), SampleSupplier(1).ID())
}
