package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/shopfront/catalog-console/internal/core/domain"
	"github.com/shopfront/catalog-console/internal/core/ports"
)

// ProductService caches the last known server state of the catalog and
// reconciles it with server-confirmed mutation results. Local state changes
// only after the server answers, never before. Not safe for concurrent use.
type ProductService struct {
	api      ports.ProductAPI
	perms    ports.PermissionChecker
	validate *validator.Validate
	log      zerolog.Logger

	products []domain.Product
	dialog   ports.DialogView

	// fetchGen invalidates in-flight fetches superseded by newer ones.
	fetchGen uint64
	// busy rejects a duplicate in-flight mutation instead of coalescing it.
	busy bool
}

var _ ports.ProductService = (*ProductService)(nil)

func NewProductService(api ports.ProductAPI, perms ports.PermissionChecker, log zerolog.Logger) *ProductService {
	return &ProductService{
		api:      api,
		perms:    perms,
		validate: validator.New(),
		log:      log,
		dialog:   ports.DialogView{Mode: domain.DialogClosed},
	}
}

// FetchAll replaces the local list wholesale with the server's. On failure
// the prior list is left untouched. A result arriving for a superseded fetch
// generation is discarded.
func (s *ProductService) FetchAll(ctx context.Context) error {
	s.fetchGen++
	gen := s.fetchGen

	items, err := s.api.List(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to fetch products")
		return err
	}
	if gen != s.fetchGen {
		s.log.Debug().Uint64("generation", gen).Msg("discarding stale fetch result")
		return nil
	}
	s.products = items
	return nil
}

// Products returns a copy of the cached list.
func (s *ProductService) Products() []domain.Product {
	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *ProductService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.api.Get(ctx, id)
}

// Create validates the draft locally, then appends the server-returned record
// on confirmation. The server's record wins over the draft: it may carry
// identity and fields the draft lacks.
func (s *ProductService) Create(ctx context.Context, draft ports.ProductDraft) (*domain.Product, error) {
	if !s.perms.CanManageProducts() {
		return nil, domain.ErrPermissionDenied
	}
	input, verr := s.validateDraft(draft)
	if verr != nil {
		s.dialog.Errors = verr.Fields
		return nil, verr
	}
	if s.busy {
		return nil, domain.ErrRequestInFlight
	}
	s.busy = true
	defer func() { s.busy = false }()

	created, err := s.api.Create(ctx, input)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to create product")
		return nil, err
	}
	s.products = append(s.products, *created)
	s.CloseDialog()
	s.log.Info().Int64("id", created.ID).Msg("product created")
	return created, nil
}

// Update replaces the matching local record by identity with the
// server-returned one. There is no pre-confirmation replacement.
func (s *ProductService) Update(ctx context.Context, id int64, draft ports.ProductDraft) (*domain.Product, error) {
	if !s.perms.CanManageProducts() {
		return nil, domain.ErrPermissionDenied
	}
	input, verr := s.validateDraft(draft)
	if verr != nil {
		s.dialog.Errors = verr.Fields
		return nil, verr
	}
	if s.busy {
		return nil, domain.ErrRequestInFlight
	}
	s.busy = true
	defer func() { s.busy = false }()

	updated, err := s.api.Update(ctx, id, input)
	if err != nil {
		s.log.Warn().Err(err).Int64("id", id).Msg("failed to update product")
		return nil, err
	}
	for i := range s.products {
		if s.products[i].ID == id {
			s.products[i] = *updated
			break
		}
	}
	s.CloseDialog()
	s.log.Info().Int64("id", id).Msg("product updated")
	return updated, nil
}

// Delete asks confirm before issuing the request and removes the record by
// identity once the server confirms. Declining aborts with no request.
func (s *ProductService) Delete(ctx context.Context, id int64, confirm ports.ConfirmFunc) (bool, error) {
	if !s.perms.CanManageProducts() {
		return false, domain.ErrPermissionDenied
	}
	if confirm == nil || !confirm("Are you sure you want to delete this product?") {
		return false, nil
	}
	if s.busy {
		return false, domain.ErrRequestInFlight
	}
	s.busy = true
	defer func() { s.busy = false }()

	if err := s.api.Delete(ctx, id); err != nil {
		s.log.Warn().Err(err).Int64("id", id).Msg("failed to delete product")
		return false, err
	}
	kept := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.products = kept
	s.log.Info().Int64("id", id).Msg("product deleted")
	return true, nil
}

// OpenDialog moves the dialog workflow into mode. Creating clears the draft;
// viewing and editing seed it from the target record.
func (s *ProductService) OpenDialog(mode domain.DialogMode, target *domain.Product) error {
	if !s.dialog.Mode.CanTransitionTo(mode) {
		return domain.ErrInvalidDialogTransition
	}
	view := ports.DialogView{Mode: mode, Errors: map[string]string{}}
	switch mode {
	case domain.DialogCreating:
		// draft starts empty
	case domain.DialogViewing, domain.DialogEditing:
		if target == nil {
			return domain.ErrProductNotFound
		}
		t := *target
		view.Target = &t
		view.Draft = ports.ProductDraft{
			Name:        t.Name,
			Price:       strconv.FormatFloat(t.Price, 'f', -1, 64),
			Description: t.Description,
		}
	}
	s.dialog = view
	return nil
}

// CloseDialog clears draft and error state from any mode.
func (s *ProductService) CloseDialog() {
	s.dialog = ports.DialogView{Mode: domain.DialogClosed}
}

// SetDraftField updates one draft field and clears that field's error, the
// way a form clears an inline error as the user edits the field.
func (s *ProductService) SetDraftField(field, value string) {
	switch field {
	case "name":
		s.dialog.Draft.Name = value
	case "price":
		s.dialog.Draft.Price = value
	case "description":
		s.dialog.Draft.Description = value
	default:
		return
	}
	if s.dialog.Errors != nil {
		delete(s.dialog.Errors, field)
	}
}

// Dialog returns a snapshot of the dialog state.
func (s *ProductService) Dialog() ports.DialogView {
	view := s.dialog
	if s.dialog.Target != nil {
		t := *s.dialog.Target
		view.Target = &t
	}
	view.Errors = make(map[string]string, len(s.dialog.Errors))
	for k, v := range s.dialog.Errors {
		view.Errors[k] = v
	}
	return view
}

// productForm is the validation target for a parsed draft.
type productForm struct {
	Name        string  `validate:"required"`
	Price       float64 `validate:"required,gt=0"`
	Description string  `validate:"required"`
}

// validateDraft parses and validates a draft. All failures are field-scoped
// and block submission; nothing reaches the network.
func (s *ProductService) validateDraft(draft ports.ProductDraft) (ports.ProductInput, *domain.ValidationError) {
	fields := map[string]string{}

	price, perr := strconv.ParseFloat(strings.TrimSpace(draft.Price), 64)
	if strings.TrimSpace(draft.Price) == "" || perr != nil {
		price = 0
	}

	form := productForm{
		Name:        strings.TrimSpace(draft.Name),
		Price:       price,
		Description: strings.TrimSpace(draft.Description),
	}
	if err := s.validate.Struct(form); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			for _, fe := range ve {
				name, msg := draftFieldError(fe)
				fields[name] = msg
			}
		}
	}
	if len(fields) > 0 {
		return ports.ProductInput{}, &domain.ValidationError{Fields: fields}
	}
	return ports.ProductInput{Name: form.Name, Price: form.Price, Description: form.Description}, nil
}

// draftFieldError converts a single validation failure into the form's
// field name and inline message.
func draftFieldError(fe validator.FieldError) (string, string) {
	switch fe.Field() {
	case "Name":
		return "name", "Product name is required"
	case "Price":
		return "price", "Valid price is required"
	case "Description":
		return "description", "Product description is required"
	default:
		return strings.ToLower(fe.Field()), fe.Field() + " failed validation (" + fe.Tag() + ")"
	}
}
