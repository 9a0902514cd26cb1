package user

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// ========================================
// AUTH DTOs
// ========================================

// Credentials is the body of both register and login.
type Credentials struct {
	EmailAddress string `json:"emailAddress"`
	Password     string `json:"password"`
}

func (r Credentials) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.EmailAddress, validation.Required, is.EmailFormat),
		validation.Field(&r.Password, validation.Required, validation.Length(5, 10)),
	)
}

// ValidateLogin only requires both fields; password policy is enforced at
// registration so identities created out of band can still log in.
func (r Credentials) ValidateLogin() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.EmailAddress, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

type RegisterResponse struct {
	Succeeded bool `json:"succeeded"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

// MeResponse echoes the identity carried by the caller's token.
type MeResponse struct {
	Email    string   `json:"email"`
	UserID   string   `json:"userId"`
	UserName string   `json:"userName"`
	Roles    []string `json:"roles"`
}
