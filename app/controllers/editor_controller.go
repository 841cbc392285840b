// Package controllers holds the authoring state machines: the single
// post editor and the admin post list. Both get their collaborators
// injected and own their field state exclusively.
package controllers

import (
	"time"

	"quill/app/auth"
	"quill/app/models"
	"quill/app/repositories"
	"quill/app/slug"
)

// EditorState is the editor's externally visible state.
type EditorState int

const (
	EditorLoading EditorState = iota
	EditorEditing
	EditorPreviewing
	EditorSaving
	EditorError
)

// AdminPostsPath is where the editor navigates after a successful save.
const AdminPostsPath = "/admin/posts"

// Navigator moves the user somewhere else once a controller is done
// with them.
type Navigator interface {
	GoTo(path string, replace bool)
}

// Clock supplies timestamps so tests can pin them.
type Clock func() time.Time

// SessionFunc returns the current session snapshot.
type SessionFunc func() auth.State

// PostEditorController owns the authoring workflow for one post:
// load-for-edit, field state, preview toggling, validation and save.
// It is not safe for concurrent use; each flow gets its own instance.
type PostEditorController struct {
	repo    repositories.PostRepository
	session SessionFunc
	nav     Navigator
	clock   Clock

	postID  string // empty while creating a new post
	loading bool
	saving  bool
	mode    EditorState // EditorEditing or EditorPreviewing
	errMsg  string

	draft models.PostDraft
}

// NewPostEditorController starts a create flow: empty fields,
// unpublished, immediately editable.
func NewPostEditorController(repo repositories.PostRepository, session SessionFunc, nav Navigator, clock Clock) *PostEditorController {
	return &PostEditorController{
		repo:    repo,
		session: session,
		nav:     nav,
		clock:   clock,
		mode:    EditorEditing,
	}
}

// Load switches the controller into an edit flow for an existing post.
// A failed fetch is a navigational dead end for the caller to handle,
// not an editor error state; the controller stays in Loading.
func (c *PostEditorController) Load(id string) error {
	c.loading = true
	post, err := c.repo.GetByID(id)
	if err != nil {
		return err
	}

	c.postID = id
	c.draft = models.PostDraft{
		Title:     post.Title,
		Slug:      post.Slug,
		Content:   post.Content,
		Published: post.Published,
	}
	if post.Excerpt != nil {
		c.draft.Excerpt = *post.Excerpt
	}
	if post.CoverImage != nil {
		c.draft.CoverImage = *post.CoverImage
	}
	c.loading = false
	c.mode = EditorEditing
	return nil
}

// State derives the editor state: Loading and Saving trump everything,
// a held error message shows as EditorError, otherwise the view mode.
func (c *PostEditorController) State() EditorState {
	switch {
	case c.loading:
		return EditorLoading
	case c.saving:
		return EditorSaving
	case c.errMsg != "":
		return EditorError
	default:
		return c.mode
	}
}

// ErrorMessage returns the held error text, empty when none.
func (c *PostEditorController) ErrorMessage() string {
	return c.errMsg
}

// Editing reports whether this flow edits an existing post.
func (c *PostEditorController) Editing() bool {
	return c.postID != ""
}

// Draft returns the current in-memory field values. Previewing renders
// exactly these, with no store round-trip.
func (c *PostEditorController) Draft() models.PostDraft {
	return c.draft
}

// SetTitle updates the title. While creating a new post the slug is
// always recomputed from the latest title, overwriting any manual
// edit; on an existing post the slug is left untouched.
func (c *PostEditorController) SetTitle(title string) {
	c.draft.Title = title
	if c.postID == "" {
		c.draft.Slug = slug.Make(title)
	}
	c.clearError()
}

func (c *PostEditorController) SetSlug(s string) {
	c.draft.Slug = s
	c.clearError()
}

func (c *PostEditorController) SetContent(markdown string) {
	c.draft.Content = markdown
	c.clearError()
}

func (c *PostEditorController) SetExcerpt(excerpt string) {
	c.draft.Excerpt = excerpt
	c.clearError()
}

func (c *PostEditorController) SetCoverImage(u string) {
	c.draft.CoverImage = u
	c.clearError()
}

func (c *PostEditorController) SetPublished(published bool) {
	c.draft.Published = published
	c.clearError()
}

// ShowPreview switches to the preview of the unsaved field values.
// Nothing is persisted and nothing is re-fetched.
func (c *PostEditorController) ShowPreview() {
	c.mode = EditorPreviewing
}

// ShowEditor switches back to the editable form.
func (c *PostEditorController) ShowEditor() {
	c.mode = EditorEditing
}

// The error message is retained until the next field change or submit
// attempt.
func (c *PostEditorController) clearError() {
	c.errMsg = ""
}

// Submit validates and issues exactly one store call: an insert for a
// new post, an update otherwise. On success the controller navigates
// to the post list and its job ends. On any failure the fields are
// preserved so a retry needs no re-entry.
func (c *PostEditorController) Submit() {
	if c.saving {
		return
	}
	c.errMsg = ""
	c.saving = true
	defer func() {
		// Whatever escapes the save path must not leave the editor
		// stuck in Saving.
		if r := recover(); r != nil {
			c.errMsg = "An unexpected error occurred"
		}
		c.saving = false
	}()

	authorID := ""
	if state := c.session(); state.Phase == auth.Authenticated {
		authorID = state.Identity.ID
	}

	record, issue := c.draft.Validate(authorID)
	if issue != nil {
		c.errMsg = issue.Reason
		return
	}

	now := c.clock()
	record.UpdatedAt = now
	if c.postID == "" {
		record.CreatedAt = now
		if err := c.repo.Create(&record); err != nil {
			c.errMsg = err.Error()
			return
		}
	} else {
		record.ID = c.postID
		if err := c.repo.Update(&record); err != nil {
			c.errMsg = err.Error()
			return
		}
	}

	c.nav.GoTo(AdminPostsPath, false)
}
