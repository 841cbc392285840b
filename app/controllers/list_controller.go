package controllers

import (
	"log"

	"quill/app/models"
	"quill/app/repositories"
)

// Confirmer asks the user a yes/no question before a destructive
// action proceeds.
type Confirmer interface {
	Confirm(prompt string) bool
}

// Notifier surfaces a failure notice to the user.
type Notifier interface {
	Notify(message string)
}

// PostListController owns the admin post collection: load,
// publish-toggle and delete. The visible list changes only after the
// store call succeeded; there is no optimistic update and therefore
// nothing to roll back.
type PostListController struct {
	repo    repositories.PostRepository
	confirm Confirmer
	notify  Notifier
	logger  *log.Logger

	posts []*models.Post
}

func NewPostListController(repo repositories.PostRepository, confirm Confirmer, notify Notifier, logger *log.Logger) *PostListController {
	return &PostListController{
		repo:    repo,
		confirm: confirm,
		notify:  notify,
		logger:  logger,
	}
}

// Load fetches all posts, drafts included, newest first.
func (c *PostListController) Load() error {
	posts, err := c.repo.List()
	if err != nil {
		return err
	}
	c.posts = posts
	return nil
}

// Posts returns the held list.
func (c *PostListController) Posts() []*models.Post {
	return c.posts
}

// TogglePublish flips the published flag of one post. On success the
// held entry is replaced with the flipped record; on failure the list
// is left exactly as it was and the error goes to the log sink only —
// this path shows no user-facing banner.
func (c *PostListController) TogglePublish(id string) {
	idx := c.indexOf(id)
	if idx < 0 {
		return
	}

	flipped := *c.posts[idx]
	flipped.Published = !flipped.Published
	if err := c.repo.Update(&flipped); err != nil {
		c.logger.Printf("toggle publish %s: %v", id, err)
		return
	}
	c.posts[idx] = &flipped
}

// Delete asks for confirmation, then removes the post. On failure the
// list is unchanged and a notice is surfaced.
func (c *PostListController) Delete(id string) {
	idx := c.indexOf(id)
	if idx < 0 {
		return
	}
	if !c.confirm.Confirm("Are you sure you want to delete this post?") {
		return
	}

	if err := c.repo.Delete(id); err != nil {
		c.logger.Printf("delete post %s: %v", id, err)
		c.notify.Notify("Failed to delete post")
		return
	}
	c.posts = append(c.posts[:idx], c.posts[idx+1:]...)
}

func (c *PostListController) indexOf(id string) int {
	for i, p := range c.posts {
		if p.ID == id {
			return i
		}
	}
	return -1
}
