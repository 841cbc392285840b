// Package auth resolves and holds the acting identity for a browsing
// session.
package auth

import (
	"errors"

	"quill/app/models"
	"quill/app/repositories"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for a failed sign-in. The same
// error covers an unknown email and a wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Backend verifies credentials and looks up profiles. The session
// never asserts the admin capability itself; it always derives it from
// ProfileFor.
type Backend interface {
	Authenticate(email, password string) (models.Identity, error)
	ProfileFor(userID string) (*models.Profile, error)
}

// RepoBackend implements Backend on the user repository with bcrypt
// password verification.
type RepoBackend struct {
	users repositories.UserRepository
}

func NewRepoBackend(users repositories.UserRepository) *RepoBackend {
	return &RepoBackend{users: users}
}

func (b *RepoBackend) Authenticate(email, password string) (models.Identity, error) {
	user, err := b.users.GetUserByEmail(email)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.Identity{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.Identity{}, err
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return models.Identity{}, ErrInvalidCredentials
	}
	return models.Identity{ID: user.ID, Email: user.Email}, nil
}

func (b *RepoBackend) ProfileFor(userID string) (*models.Profile, error) {
	return b.users.GetProfile(userID)
}
