package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/utafrali/SupplierGo/internal/domain"
	"github.com/utafrali/SupplierGo/pkg/database"
	apperrors "github.com/utafrali/SupplierGo/pkg/errors"
)

const (
	listSuppliersSQL = `SELECT id, name, document, active FROM suppliers`

	getSupplierSQL = `SELECT id, name, document, active FROM suppliers WHERE id = $1`

	insertSupplierSQL = `
		INSERT INTO suppliers (id, name, document, active)
		VALUES ($1, $2, $3, $4)`

	replaceSupplierSQL = `
		UPDATE suppliers
		SET name = $1, document = $2, active = $3
		WHERE id = $4`

	deleteSupplierSQL = `DELETE FROM suppliers WHERE id = $1`
)

// SupplierRepository implements repository.SupplierRepository using PostgreSQL.
type SupplierRepository struct {
	db database.DBTX
}

// NewSupplierRepository creates a new PostgreSQL-backed supplier repository.
func NewSupplierRepository(db database.DBTX) *SupplierRepository {
	return &SupplierRepository{db: db}
}

// List returns every supplier in the order the database yields them.
func (r *SupplierRepository) List(ctx context.Context) (_ []*domain.Supplier, err error) {
	ctx, end := database.TraceQuery(ctx, "supplier.List", listSuppliersSQL)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, listSuppliersSQL)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()

	suppliers := make([]*domain.Supplier, 0)
	for rows.Next() {
		s, scanErr := scanSupplier(rows)
		if scanErr != nil {
			err = scanErr
			return nil, err
		}
		suppliers = append(suppliers, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate suppliers: %w", err)
	}
	return suppliers, nil
}

// GetByID reads one supplier without locking it.
func (r *SupplierRepository) GetByID(ctx context.Context, id uuid.UUID) (_ *domain.Supplier, err error) {
	ctx, end := database.TraceQuery(ctx, "supplier.GetByID", getSupplierSQL)
	defer func() {
		if errors.Is(err, apperrors.ErrNotFound) {
			end(nil)
			return
		}
		end(err)
	}()

	s, err := scanSupplier(r.db.QueryRow(ctx, getSupplierSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("supplier", id.String())
		}
		return nil, err
	}
	return s, nil
}

// Create inserts s and reports the affected row count.
func (r *SupplierRepository) Create(ctx context.Context, s *domain.Supplier) (_ int64, err error) {
	ctx, end := database.TraceQuery(ctx, "supplier.Create", insertSupplierSQL)
	defer func() { end(err) }()

	ct, err := r.db.Exec(ctx, insertSupplierSQL, s.ID(), s.Name, s.Document, s.Active)
	if err != nil {
		return 0, fmt.Errorf("insert supplier: %w", err)
	}
	return ct.RowsAffected(), nil
}

// Replace overwrites all columns of the row identified by s.ID().
func (r *SupplierRepository) Replace(ctx context.Context, s *domain.Supplier) (_ int64, err error) {
	ctx, end := database.TraceQuery(ctx, "supplier.Replace", replaceSupplierSQL)
	defer func() { end(err) }()

	ct, err := r.db.Exec(ctx, replaceSupplierSQL, s.Name, s.Document, s.Active, s.ID())
	if err != nil {
		return 0, fmt.Errorf("replace supplier: %w", err)
	}
	return ct.RowsAffected(), nil
}

// Delete removes the row with id and reports the affected row count.
func (r *SupplierRepository) Delete(ctx context.Context, id uuid.UUID) (_ int64, err error) {
	ctx, end := database.TraceQuery(ctx, "supplier.Delete", deleteSupplierSQL)
	defer func() { end(err) }()

	ct, err := r.db.Exec(ctx, deleteSupplierSQL, id)
	if err != nil {
		return 0, fmt.Errorf("delete supplier: %w", err)
	}
	return ct.RowsAffected(), nil
}

func scanSupplier(row pgx.Row) (*domain.Supplier, error) {
	var (
		id       uuid.UUID
		name     string
		document string
		active   bool
	)
	if err := row.Scan(&id, &name, &document, &active); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan supplier: %w", err)
	}
	return domain.RestoreSupplier(id, name, document, active), nil
}
