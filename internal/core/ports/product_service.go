package ports

import (
	"context"

	"github.com/shopfront/catalog-console/internal/core/domain"
)

// ProductDraft is the transient form state for a create or edit operation.
// All fields are raw user input; Price is parsed during validation.
type ProductDraft struct {
	Name        string
	Price       string
	Description string
}

// ConfirmFunc asks the user to confirm a destructive action.
type ConfirmFunc func(prompt string) bool

// DialogView is a snapshot of the dialog workflow state.
type DialogView struct {
	Mode   domain.DialogMode
	Target *domain.Product
	Draft  ProductDraft
	Errors map[string]string
}

// ProductService caches the last known server state of the catalog and
// applies mutations only after server confirmation.
type ProductService interface {
	// FetchAll replaces the local list wholesale with the server's. On failure
	// the prior list is left untouched. A fetch superseded by a newer one is
	// discarded.
	FetchAll(ctx context.Context) error

	// Products returns a copy of the cached list.
	Products() []domain.Product

	Get(ctx context.Context, id int64) (*domain.Product, error)

	// Create validates the draft locally first; a *domain.ValidationError
	// aborts the call before any request. On confirmation the server-returned
	// record is appended and the dialog closes.
	Create(ctx context.Context, draft ProductDraft) (*domain.Product, error)

	// Update replaces the matching local record by identity with the
	// server-returned one. Same validation contract as Create.
	Update(ctx context.Context, id int64, draft ProductDraft) (*domain.Product, error)

	// Delete asks confirm before issuing the request and removes the record by
	// identity on success. Returns false with a nil error when declined.
	Delete(ctx context.Context, id int64, confirm ConfirmFunc) (bool, error)

	OpenDialog(mode domain.DialogMode, target *domain.Product) error
	CloseDialog()
	// SetDraftField updates one draft field and clears that field's error.
	SetDraftField(field, value string)
	Dialog() DialogView
}
