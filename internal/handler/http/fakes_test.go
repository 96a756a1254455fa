package http

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/utafrali/SupplierGo/internal/domain"
	apperrors "github.com/utafrali/SupplierGo/pkg/errors"
)

// In-memory repositories backing the router tests.

type memUsers struct {
	mu   sync.Mutex
	byID map[string]*domain.User
}

func newMemUsers() *memUsers { return &memUsers{byID: map[string]*domain.User{}} }

func (m *memUsers) Create(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.NormalizedEmail == u.NormalizedEmail {
			return apperrors.AlreadyExists("user", "email", u.Email)
		}
	}
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, apperrors.NotFound("user", id)
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) GetByNormalizedEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.NormalizedEmail == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *memUsers) UpdateLockout(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.byID[u.ID]
	if !ok {
		return apperrors.NotFound("user", u.ID)
	}
	stored.AccessFailedCount = u.AccessFailedCount
	stored.LockoutEnd = u.LockoutEnd
	return nil
}

type memClaims struct {
	mu     sync.Mutex
	byUser map[string][]domain.Claim
}

func newMemClaims() *memClaims { return &memClaims{byUser: map[string][]domain.Claim{}} }

func (m *memClaims) ListByUserID(_ context.Context, userID string) ([]domain.Claim, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Claim{}, m.byUser[userID]...), nil
}

func (m *memClaims) Add(_ context.Context, userID string, c domain.Claim) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if domain.HasClaimType(m.byUser[userID], c.Type) {
		return apperrors.AlreadyExists("claim", "claim_type", c.Type)
	}
	m.byUser[userID] = append(m.byUser[userID], c)
	return nil
}

type memRoles struct {
	byUser map[string][]string
}

func (m *memRoles) ListByUserID(_ context.Context, userID string) ([]string, error) {
	return append([]string{}, m.byUser[userID]...), nil
}

type memSuppliers struct {
	mu    sync.Mutex
	rows  []*domain.Supplier
	stuck bool // when set, writes report zero affected rows
}

func (m *memSuppliers) List(_ context.Context) ([]*domain.Supplier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.Supplier{}, m.rows...), nil
}

func (m *memSuppliers) GetByID(_ context.Context, id uuid.UUID) (*domain.Supplier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.index(id); i >= 0 {
		s := *m.rows[i]
		return &s, nil
	}
	return nil, apperrors.NotFound("supplier", id.String())
}

func (m *memSuppliers) Create(_ context.Context, s *domain.Supplier) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stuck {
		return 0, nil
	}
	cp := *s
	m.rows = append(m.rows, &cp)
	return 1, nil
}

func (m *memSuppliers) Replace(_ context.Context, s *domain.Supplier) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(s.ID())
	if i < 0 || m.stuck {
		return 0, nil
	}
	cp := *s
	m.rows[i] = &cp
	return 1, nil
}

func (m *memSuppliers) Delete(_ context.Context, id uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(id)
	if i < 0 || m.stuck {
		return 0, nil
	}
	m.rows = append(m.rows[:i], m.rows[i+1:]...)
	return 1, nil
}

func (m *memSuppliers) index(id uuid.UUID) int {
	for i, s := range m.rows {
		if s.ID() == id {
			return i
		}
	}
	return -1
}
