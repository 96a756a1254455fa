package domain

import "github.com/google/uuid"

// Supplier is the single managed resource. The ID is assigned when the value
// is constructed and only SetID may change it afterwards.
type Supplier struct {
	id       uuid.UUID
	Name     string
	Document string
	Active   bool
}

// NewSupplier returns a supplier with a freshly generated ID.
func NewSupplier(name, document string, active bool) *Supplier {
	return &Supplier{
		id:       uuid.New(),
		Name:     name,
		Document: document,
		Active:   active,
	}
}

// RestoreSupplier rebuilds a supplier read from storage with its stored ID.
func RestoreSupplier(id uuid.UUID, name, document string, active bool) *Supplier {
	s := NewSupplier(name, document, active)
	s.SetID(id)
	return s
}

// ID returns the supplier's identity.
func (s *Supplier) ID() uuid.UUID { return s.id }

// SetID overrides the identity, e.g. to target an existing row on update.
func (s *Supplier) SetID(id uuid.UUID) { s.id = id }

// SupplierView is the JSON representation of a Supplier.
type SupplierView struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Document string    `json:"document"`
	Active   bool      `json:"active"`
}

// View returns the supplier's JSON representation.
func (s *Supplier) View() SupplierView {
	return SupplierView{ID: s.id, Name: s.Name, Document: s.Document, Active: s.Active}
}

// SupplierInput is the client payload for create and update.
type SupplierInput struct {
	Name     string `json:"name" validate:"required,max=200"`
	Document string `json:"document" validate:"required,max=14"`
	Active   bool   `json:"active"`
}

// ToSupplier maps the input onto a new Supplier, which therefore carries a
// fresh ID.
func (in SupplierInput) ToSupplier() *Supplier {
	return NewSupplier(in.Name, in.Document, in.Active)
}
