package controllers

import (
	"errors"
	"testing"
	"time"

	"quill/app/auth"
	"quill/app/models"
	"quill/app/repositories"
	"quill/app/repositories/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNav struct {
	path     string
	replace  bool
	navCount int
}

func (n *fakeNav) GoTo(path string, replace bool) {
	n.path = path
	n.replace = replace
	n.navCount++
}

var testClock Clock = func() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func signedIn() auth.State {
	return auth.State{
		Phase:    auth.Authenticated,
		Identity: models.Identity{ID: "user-1", Email: "admin@example.com"},
		IsAdmin:  true,
	}
}

func newEditor(repo repositories.PostRepository, session SessionFunc) (*PostEditorController, *fakeNav) {
	nav := &fakeNav{}
	return NewPostEditorController(repo, session, nav, testClock), nav
}

func TestEditorSlugFollowsTitleForNewPosts(t *testing.T) {
	editor, _ := newEditor(mock.NewPostRepository(), signedIn)

	editor.SetTitle("My Awesome Blog Post! #1")
	assert.Equal(t, "my-awesome-blog-post-1", editor.Draft().Slug)

	// A manual slug edit does not survive the next title change.
	editor.SetSlug("hand-picked")
	assert.Equal(t, "hand-picked", editor.Draft().Slug)
	editor.SetTitle("My Awesome Blog Post! #2")
	assert.Equal(t, "my-awesome-blog-post-2", editor.Draft().Slug)
}

func TestEditorSlugUntouchedForExistingPosts(t *testing.T) {
	repo := mock.NewPostRepository()
	seed := &models.Post{
		Title: "Original", Slug: "original", AuthorID: "user-1",
		CreatedAt: testClock(), UpdatedAt: testClock(),
	}
	require.NoError(t, repo.Create(seed))

	editor, _ := newEditor(repo, signedIn)
	require.NoError(t, editor.Load(seed.ID))
	assert.Equal(t, EditorEditing, editor.State())

	editor.SetTitle("A Completely New Title")
	assert.Equal(t, "original", editor.Draft().Slug)
}

func TestEditorLoad(t *testing.T) {
	repo := mock.NewPostRepository()
	excerpt := "teaser"
	seed := &models.Post{
		Title: "Loaded", Slug: "loaded", Content: "body",
		Excerpt: &excerpt, Published: true, AuthorID: "user-1",
		CreatedAt: testClock(), UpdatedAt: testClock(),
	}
	require.NoError(t, repo.Create(seed))

	t.Run("populates fields from the fetched post", func(t *testing.T) {
		editor, _ := newEditor(repo, signedIn)
		require.NoError(t, editor.Load(seed.ID))

		draft := editor.Draft()
		assert.Equal(t, "Loaded", draft.Title)
		assert.Equal(t, "loaded", draft.Slug)
		assert.Equal(t, "body", draft.Content)
		assert.Equal(t, "teaser", draft.Excerpt)
		assert.Equal(t, "", draft.CoverImage)
		assert.True(t, draft.Published)
	})

	t.Run("missing post is surfaced to the caller", func(t *testing.T) {
		editor, _ := newEditor(repo, signedIn)
		err := editor.Load("post-404")
		assert.ErrorIs(t, err, repositories.ErrNotFound)
		assert.Equal(t, EditorLoading, editor.State())
	})
}

func TestEditorValidation(t *testing.T) {
	t.Run("whitespace title never reaches the store", func(t *testing.T) {
		repo := mock.NewPostRepository()
		editor, nav := newEditor(repo, signedIn)
		editor.SetTitle("   ")
		editor.SetSlug("has-a-slug")

		editor.Submit()

		assert.Equal(t, EditorError, editor.State())
		assert.Equal(t, "Title is required", editor.ErrorMessage())
		assert.Zero(t, repo.Calls["Create"])
		assert.Zero(t, repo.Calls["Update"])
		assert.Zero(t, nav.navCount)
	})

	t.Run("empty slug never reaches the store", func(t *testing.T) {
		repo := mock.NewPostRepository()
		editor, _ := newEditor(repo, signedIn)
		editor.SetTitle("Fine Title")
		editor.SetSlug("  ")

		editor.Submit()

		assert.Equal(t, "Slug is required", editor.ErrorMessage())
		assert.Zero(t, repo.Calls["Create"])
	})

	t.Run("anonymous submit never reaches the store", func(t *testing.T) {
		repo := mock.NewPostRepository()
		editor, _ := newEditor(repo, func() auth.State { return auth.State{Phase: auth.Anonymous} })
		editor.SetTitle("Fine Title")

		editor.Submit()

		assert.Equal(t, "You must be logged in", editor.ErrorMessage())
		assert.Zero(t, repo.Calls["Create"])
	})

	t.Run("error clears on the next field change", func(t *testing.T) {
		editor, _ := newEditor(mock.NewPostRepository(), signedIn)
		editor.Submit() // empty title
		assert.Equal(t, EditorError, editor.State())

		editor.SetTitle("Recovered")
		assert.Equal(t, EditorEditing, editor.State())
		assert.Empty(t, editor.ErrorMessage())
	})

	t.Run("error returns to whichever view was active", func(t *testing.T) {
		editor, _ := newEditor(mock.NewPostRepository(), signedIn)
		editor.ShowPreview()
		editor.Submit() // empty title
		assert.Equal(t, EditorError, editor.State())

		editor.SetTitle("Recovered")
		assert.Equal(t, EditorPreviewing, editor.State())
	})
}

func TestEditorCreate(t *testing.T) {
	repo := mock.NewPostRepository()
	editor, nav := newEditor(repo, signedIn)

	editor.SetTitle("  Hello World ")
	editor.SetSlug(" hello-world ")
	editor.SetContent("# heading")
	editor.SetExcerpt("   ")
	editor.SetCoverImage(" https://example.com/c.png ")
	editor.SetPublished(true)

	editor.Submit()

	assert.NotEqual(t, EditorError, editor.State(), editor.ErrorMessage())
	assert.Equal(t, 1, nav.navCount)
	assert.Equal(t, AdminPostsPath, nav.path)

	stored, err := repo.GetBySlug("hello-world")
	require.NoError(t, err)
	assert.Equal(t, "Hello World", stored.Title)
	assert.Equal(t, "# heading", stored.Content)
	assert.Nil(t, stored.Excerpt)
	require.NotNil(t, stored.CoverImage)
	assert.Equal(t, "https://example.com/c.png", *stored.CoverImage)
	assert.True(t, stored.Published)
	assert.Equal(t, "user-1", stored.AuthorID)
	assert.True(t, stored.CreatedAt.Equal(testClock()))
	assert.True(t, stored.UpdatedAt.Equal(testClock()))
}

func TestEditorUpdate(t *testing.T) {
	repo := mock.NewPostRepository()
	created := testClock().Add(-48 * time.Hour)
	seed := &models.Post{
		Title: "Before", Slug: "before", AuthorID: "user-1",
		CreatedAt: created, UpdatedAt: created,
	}
	require.NoError(t, repo.Create(seed))

	editor, nav := newEditor(repo, signedIn)
	require.NoError(t, editor.Load(seed.ID))
	editor.SetContent("revised body")
	editor.Submit()

	assert.Equal(t, 1, nav.navCount)
	assert.Equal(t, 1, repo.Calls["Update"])
	assert.Zero(t, repo.Calls["Create"])

	stored, err := repo.GetByID(seed.ID)
	require.NoError(t, err)
	assert.Equal(t, "revised body", stored.Content)
	assert.True(t, stored.CreatedAt.Equal(created), "creation time never changes")
	assert.True(t, stored.UpdatedAt.Equal(testClock()))
}

func TestEditorStoreFailure(t *testing.T) {
	t.Run("store error is surfaced verbatim and fields survive", func(t *testing.T) {
		repo := mock.NewPostRepository()
		repo.Err = errors.New(`duplicate key value violates unique constraint "posts_slug_key"`)

		editor, nav := newEditor(repo, signedIn)
		editor.SetTitle("Hello")
		editor.SetContent("body text")
		editor.Submit()

		assert.Equal(t, EditorError, editor.State())
		assert.Equal(t, `duplicate key value violates unique constraint "posts_slug_key"`, editor.ErrorMessage())
		assert.Zero(t, nav.navCount)
		assert.Equal(t, "Hello", editor.Draft().Title)
		assert.Equal(t, "body text", editor.Draft().Content)

		// Clearing the failure and retrying works without re-entry.
		repo.Err = nil
		editor.Submit()
		assert.Equal(t, 1, nav.navCount)
	})

	t.Run("duplicate slug from a second create", func(t *testing.T) {
		repo := mock.NewPostRepository()

		first, _ := newEditor(repo, signedIn)
		first.SetTitle("Same Slug")
		first.Submit()
		require.NotEqual(t, EditorError, first.State())

		second, nav := newEditor(repo, signedIn)
		second.SetTitle("Same Slug")
		second.Submit()

		assert.Equal(t, EditorError, second.State())
		assert.Contains(t, second.ErrorMessage(), "slug already in use")
		assert.Zero(t, nav.navCount)

		// First post intact, second absent.
		posts, err := repo.List()
		require.NoError(t, err)
		assert.Len(t, posts, 1)
	})
}

type panickyRepo struct {
	*mock.PostRepository
}

func (p panickyRepo) Create(*models.Post) error {
	panic("store client blew up")
}

func TestEditorNeverStuckSaving(t *testing.T) {
	editor, nav := newEditor(panickyRepo{mock.NewPostRepository()}, signedIn)
	editor.SetTitle("Hello")

	editor.Submit()

	assert.Equal(t, EditorError, editor.State())
	assert.Equal(t, "An unexpected error occurred", editor.ErrorMessage())
	assert.Zero(t, nav.navCount)
}

func TestEditorPreview(t *testing.T) {
	repo := mock.NewPostRepository()
	editor, _ := newEditor(repo, signedIn)

	editor.SetTitle("Preview Me")
	editor.SetExcerpt("the teaser")
	editor.SetCoverImage("https://example.com/cover.jpg")
	editor.SetContent("*emphasis*")
	getCalls := repo.Calls["GetByID"] + repo.Calls["GetBySlug"] + repo.Calls["List"]

	editor.ShowPreview()
	assert.Equal(t, EditorPreviewing, editor.State())

	draft := editor.Draft()
	assert.Equal(t, "Preview Me", draft.Title)
	assert.Equal(t, "the teaser", draft.Excerpt)
	assert.Equal(t, "https://example.com/cover.jpg", draft.CoverImage)
	assert.Equal(t, "*emphasis*", draft.Content)

	// Pure view toggle: nothing fetched, nothing persisted.
	assert.Equal(t, getCalls, repo.Calls["GetByID"]+repo.Calls["GetBySlug"]+repo.Calls["List"])
	assert.Zero(t, repo.Calls["Create"])
	assert.Zero(t, repo.Calls["Update"])

	editor.ShowEditor()
	assert.Equal(t, EditorEditing, editor.State())
}
