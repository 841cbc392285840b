package models

import "time"

// Post is a single blog entry. Excerpt and CoverImage are optional and
// stay nil when the author left them blank.
type Post struct {
	ID         string    `json:"id" validate:"required"`
	Title      string    `json:"title" validate:"required"`
	Slug       string    `json:"slug" validate:"required"`
	Content    string    `json:"content"`
	Excerpt    *string   `json:"excerpt"`
	CoverImage *string   `json:"cover_image"`
	Published  bool      `json:"published"`
	AuthorID   string    `json:"author_id" validate:"required"`
	CreatedAt  time.Time `json:"created_at" validate:"required"`
	UpdatedAt  time.Time `json:"updated_at" validate:"required"`
}

// User is an admin credential record.
type User struct {
	ID           string    `json:"id" validate:"required"`
	Email        string    `json:"email" validate:"required,email"`
	PasswordHash []byte    `json:"password_hash" validate:"required"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile carries the per-user data the session derives capabilities
// from. A user without a profile is never an admin.
type Profile struct {
	UserID   string `json:"user_id" validate:"required"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

// Identity is a resolved acting user for the lifetime of a browsing
// session. It is never persisted.
type Identity struct {
	ID    string
	Email string
}

// Stats summarizes the post collection for the admin dashboard.
type Stats struct {
	Total     int
	Published int
	Drafts    int
}
