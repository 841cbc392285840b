package routes

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicRoutes(t *testing.T) {
	router, posts := setupTestServer(t)
	seedPost(t, posts, "Hello World", "hello-world", true)
	seedPost(t, posts, "Secret Draft", "secret-draft", false)

	t.Run("home lists only published posts", func(t *testing.T) {
		w := get(router, "/", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Hello World")
		assert.NotContains(t, w.Body.String(), "Secret Draft")
	})

	t.Run("published post renders by slug", func(t *testing.T) {
		w := get(router, "/post/hello-world", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Hello World")
		assert.Contains(t, w.Body.String(), "<em>markdown</em>")
	})

	t.Run("draft post is not reachable", func(t *testing.T) {
		w := get(router, "/post/secret-draft", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unknown slug is not found", func(t *testing.T) {
		w := get(router, "/post/no-such-post", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAdminGuard(t *testing.T) {
	router, _ := setupTestServer(t)

	t.Run("anonymous visitor is sent to login with return path", func(t *testing.T) {
		w := get(router, "/admin/posts/new", nil)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		loc, err := w.Result().Location()
		require.NoError(t, err)
		assert.Equal(t, "/admin/login", loc.Path)
		assert.Equal(t, "/admin/posts/new", loc.Query().Get("return"))
	})

	t.Run("login page itself is reachable anonymously", func(t *testing.T) {
		w := get(router, "/admin/login", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Sign In")
	})

	t.Run("signed-in non-admin is sent home", func(t *testing.T) {
		cookie := signIn(t, router, testWriterEmail, testAdminPassword)

		w := get(router, "/admin/posts", cookie)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		loc, err := w.Result().Location()
		require.NoError(t, err)
		assert.Equal(t, "/", loc.Path)
	})
}

func TestLoginFlow(t *testing.T) {
	t.Run("wrong password is rejected", func(t *testing.T) {
		router, _ := setupTestServer(t)

		w := postForm(router, "/admin/login", url.Values{
			"email":    {testAdminEmail},
			"password": {"wrong"},
		}, nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid email or password")
	})

	t.Run("successful login opens the admin area", func(t *testing.T) {
		router, _ := setupTestServer(t)
		cookie := signIn(t, router, testAdminEmail, testAdminPassword)

		w := get(router, "/admin", cookie)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Dashboard")
	})

	t.Run("login honors the return path", func(t *testing.T) {
		router, _ := setupTestServer(t)

		w := postForm(router, "/admin/login", url.Values{
			"email":    {testAdminEmail},
			"password": {testAdminPassword},
			"return":   {"/admin/posts/new"},
		}, nil)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		loc, err := w.Result().Location()
		require.NoError(t, err)
		assert.Equal(t, "/admin/posts/new", loc.Path)
	})

	t.Run("off-site return paths are dropped", func(t *testing.T) {
		router, _ := setupTestServer(t)

		w := postForm(router, "/admin/login", url.Values{
			"email":    {testAdminEmail},
			"password": {testAdminPassword},
			"return":   {"//evil.example.com/"},
		}, nil)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		loc, err := w.Result().Location()
		require.NoError(t, err)
		assert.Equal(t, "/admin", loc.Path)
	})

	t.Run("logout ends the session", func(t *testing.T) {
		router, _ := setupTestServer(t)
		cookie := signIn(t, router, testAdminEmail, testAdminPassword)

		w := postForm(router, "/admin/logout", url.Values{}, cookie)
		assert.Equal(t, http.StatusSeeOther, w.Code)

		w = get(router, "/admin", cookie)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		loc, err := w.Result().Location()
		require.NoError(t, err)
		assert.Equal(t, "/admin/login", loc.Path)
	})
}

func TestPostAuthoring(t *testing.T) {
	router, posts := setupTestServer(t)
	cookie := signIn(t, router, testAdminEmail, testAdminPassword)

	t.Run("new post form renders", func(t *testing.T) {
		w := get(router, "/admin/posts/new", cookie)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "New Post")
	})

	t.Run("creating a post derives the slug from the title", func(t *testing.T) {
		w := postForm(router, "/admin/posts/new", url.Values{
			"title":   {"My First Post!"},
			"content": {"Welcome to the blog."},
		}, cookie)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		loc, err := w.Result().Location()
		require.NoError(t, err)
		assert.Equal(t, "/admin/posts", loc.Path)

		post, err := posts.GetBySlug("my-first-post")
		require.NoError(t, err)
		assert.Equal(t, "My First Post!", post.Title)
		assert.False(t, post.Published)
	})

	t.Run("missing title re-renders the form with the message", func(t *testing.T) {
		w := postForm(router, "/admin/posts/new", url.Values{
			"title":   {"   "},
			"content": {"No title here."},
		}, cookie)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Title is required")
	})

	t.Run("preview renders the draft without saving", func(t *testing.T) {
		w := postForm(router, "/admin/posts/new", url.Values{
			"title":   {"Unsaved Preview"},
			"content": {"Preview **bold** text."},
			"mode":    {"preview"},
		}, cookie)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "<strong>bold</strong>")

		_, err := posts.GetBySlug("unsaved-preview")
		assert.Error(t, err)
	})

	t.Run("editing keeps a manually chosen slug", func(t *testing.T) {
		seeded := seedPost(t, posts, "Editable", "editable", false)

		w := postForm(router, "/admin/posts/"+seeded.ID, url.Values{
			"title":   {"Editable But Renamed"},
			"slug":    {"editable"},
			"content": {"Updated body."},
		}, cookie)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		post, err := posts.GetByID(seeded.ID)
		require.NoError(t, err)
		assert.Equal(t, "Editable But Renamed", post.Title)
		assert.Equal(t, "editable", post.Slug)
	})
}

func TestPostManagement(t *testing.T) {
	router, posts := setupTestServer(t)
	cookie := signIn(t, router, testAdminEmail, testAdminPassword)

	t.Run("publish toggle flips the flag", func(t *testing.T) {
		seeded := seedPost(t, posts, "Toggle Me", "toggle-me", false)

		w := postForm(router, "/admin/posts/"+seeded.ID+"/publish", url.Values{}, cookie)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		post, err := posts.GetByID(seeded.ID)
		require.NoError(t, err)
		assert.True(t, post.Published)
	})

	t.Run("delete with confirmation removes the post", func(t *testing.T) {
		seeded := seedPost(t, posts, "Doomed", "doomed", true)

		w := postForm(router, "/admin/posts/"+seeded.ID+"/delete", url.Values{
			"confirm": {"yes"},
		}, cookie)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		_, err := posts.GetByID(seeded.ID)
		assert.Error(t, err)
	})

	t.Run("delete without confirmation is a no-op", func(t *testing.T) {
		seeded := seedPost(t, posts, "Spared", "spared", true)

		w := postForm(router, "/admin/posts/"+seeded.ID+"/delete", url.Values{}, cookie)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		_, err := posts.GetByID(seeded.ID)
		assert.NoError(t, err)
	})
}
