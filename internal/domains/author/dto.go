package author

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const maxNameLength = 50

// ========================================
// AUTHOR DTOs
// ========================================

// AuthorDTO is the read model returned by the API.
type AuthorDTO struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type CreateAuthorRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (r CreateAuthorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, nameRules()...),
		validation.Field(&r.LastName, nameRules()...),
	)
}

type UpdateAuthorRequest struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (r UpdateAuthorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Required, validation.Min(int64(1))),
		validation.Field(&r.FirstName, nameRules()...),
		validation.Field(&r.LastName, nameRules()...),
	)
}

// Key is the id the update targets.
func (r UpdateAuthorRequest) Key() int64 { return r.ID }

func nameRules() []validation.Rule {
	return []validation.Rule{
		validation.Required,
		validation.Length(1, maxNameLength),
	}
}
