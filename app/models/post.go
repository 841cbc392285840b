package models

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks that the post meets the persistence invariants:
// non-empty title, slug and author, and both timestamps set.
func (p *Post) Validate() error {
	return validate.Struct(p)
}

// Validate checks the credential record before it is stored.
func (u *User) Validate() error {
	return validate.Struct(u)
}
