package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/shopfront/catalog-console/internal/core/ports"
)

const (
	fillAllFieldsMsg    = "Please fill in all fields"
	passwordTooShortMsg = "Password must be at least 6 characters long"
)

// LoginForm holds the transient state of the login form: field values and the
// current error message. Discarded on success.
type LoginForm struct {
	Email    string
	Password string
	Message  string

	session ports.SessionService
}

func NewLoginForm(session ports.SessionService) *LoginForm {
	return &LoginForm{session: session}
}

// Submit validates locally and delegates to the session service. Validation
// failures never issue a network call. Returns true when the session was
// established and navigation to the dashboard should proceed.
func (f *LoginForm) Submit(ctx context.Context) bool {
	f.Message = ""
	if f.Email == "" || f.Password == "" {
		f.Message = fillAllFieldsMsg
		return false
	}
	res := f.session.Login(ctx, f.Email, f.Password)
	if !res.Success {
		f.Message = res.Message
		return false
	}
	return true
}

// registerForm is the validation target for a registration attempt.
type registerForm struct {
	Email     string `validate:"required"`
	Password  string `validate:"required,min=6"`
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
}

// RegisterForm holds the transient state of the registration form.
type RegisterForm struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Message   string

	session  ports.SessionService
	validate *validator.Validate
}

func NewRegisterForm(session ports.SessionService) *RegisterForm {
	return &RegisterForm{session: session, validate: validator.New()}
}

// Submit validates locally (all four fields present, password length >= 6)
// and delegates to the session service. Same contract as LoginForm.Submit.
func (f *RegisterForm) Submit(ctx context.Context) bool {
	f.Message = ""
	form := registerForm{
		Email:     f.Email,
		Password:  f.Password,
		FirstName: f.FirstName,
		LastName:  f.LastName,
	}
	if err := f.validate.Struct(form); err != nil {
		f.Message = registerMessage(err)
		return false
	}
	res := f.session.Register(ctx, ports.RegisterInput{
		Email:     f.Email,
		Password:  f.Password,
		FirstName: f.FirstName,
		LastName:  f.LastName,
	})
	if !res.Success {
		f.Message = res.Message
		return false
	}
	return true
}

// registerMessage mirrors the form's check order: missing fields first, then
// password length.
func registerMessage(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fillAllFieldsMsg
	}
	for _, fe := range ve {
		if fe.Tag() == "required" {
			return fillAllFieldsMsg
		}
	}
	for _, fe := range ve {
		if fe.Field() == "Password" && fe.Tag() == "min" {
			return passwordTooShortMsg
		}
	}
	return fillAllFieldsMsg
}
