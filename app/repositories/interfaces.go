package repositories

import "quill/app/models"

// PostRepository is the record store for posts. Every method returns
// an explicit error; callers check sentinels with errors.Is.
type PostRepository interface {
	// Create assigns an id and persists the post. It fails with
	// ErrDuplicateSlug if the slug is taken.
	Create(post *models.Post) error
	GetByID(id string) (*models.Post, error)
	GetBySlug(slug string) (*models.Post, error)
	// List returns all posts, newest first by creation time.
	List() ([]*models.Post, error)
	// ListPublished returns published posts, newest first.
	ListPublished() ([]*models.Post, error)
	// Update rewrites the post's mutable fields. AuthorID and
	// CreatedAt of the stored record are preserved.
	Update(post *models.Post) error
	Delete(id string) error
	Stats() (models.Stats, error)
}

// UserRepository stores admin credentials and profiles.
type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByEmail(email string) (*models.User, error)
	PutProfile(profile *models.Profile) error
	GetProfile(userID string) (*models.Profile, error)
}
