package forms

import (
	"net/url"
	"strings"
)

// SigninForm collects sign-in credentials.
type SigninForm struct {
	Form
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// NewSigninForm binds submitted values without validating them.
func NewSigninForm(values url.Values) *SigninForm {
	return &SigninForm{Form: newForm(values)}
}

// Validate checks both fields are present and fills the cleaned values.
// Usernames are stored trimmed, so they are looked up trimmed too.
func (f *SigninForm) Validate() bool {
	f.Username = strings.TrimSpace(f.Values.Get("username"))
	f.Password = f.Values.Get("password")
	f.check(f)
	return f.Valid()
}
