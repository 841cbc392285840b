// Package services holds the read-side rules the public site and the
// admin dashboard render from.
package services

import (
	"quill/app/models"
	"quill/app/repositories"
)

// PostService answers the queries the rendering layer needs. Anonymous
// readers only ever see published posts through it.
type PostService struct {
	posts repositories.PostRepository
}

func NewPostService(posts repositories.PostRepository) *PostService {
	return &PostService{posts: posts}
}

// PublishedPosts returns the public feed, newest first.
func (s *PostService) PublishedPosts() ([]*models.Post, error) {
	return s.posts.ListPublished()
}

// PublishedBySlug resolves a public post URL. An existing but
// unpublished post reads exactly like a missing one.
func (s *PostService) PublishedBySlug(slug string) (*models.Post, error) {
	post, err := s.posts.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if !post.Published {
		return nil, repositories.ErrNotFound
	}
	return post, nil
}

// Stats returns the dashboard counts.
func (s *PostService) Stats() (models.Stats, error) {
	return s.posts.Stats()
}
