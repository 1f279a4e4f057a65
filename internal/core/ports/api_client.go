package ports

import (
	"context"

	"github.com/shopfront/catalog-console/internal/core/domain"
)

// Credentials carries a login attempt.
type Credentials struct {
	Email    string
	Password string
}

// RegisterInput carries all data needed to create an account.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// AuthSession is the server's answer to a successful login or registration.
type AuthSession struct {
	AccessToken string
	User        domain.UserProfile
}

// AuthAPI is the remote authentication surface. Implementations attach the
// stored bearer token to requests that need one (refresh, profile).
type AuthAPI interface {
	Login(ctx context.Context, creds Credentials) (*AuthSession, error)
	Register(ctx context.Context, input RegisterInput) (*AuthSession, error)
	// Refresh exchanges the current token for a new one.
	Refresh(ctx context.Context) (string, error)
	// Profile fetches the canonical record of the authenticated user.
	Profile(ctx context.Context) (*domain.UserProfile, error)
}

// ProductInput is the payload for create and update calls. Price is the
// already-parsed numeric value; draft-to-input conversion happens during
// validation.
type ProductInput struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

// ProductAPI is the remote catalog surface.
type ProductAPI interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, input ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id int64, input ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
}
