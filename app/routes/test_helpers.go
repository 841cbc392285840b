package routes

import (
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"quill/app/auth"
	"quill/app/models"
	"quill/app/repositories"
	"quill/app/services"
	"quill/app/web"

	"github.com/dgraph-io/badger/v4"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAdminEmail    = "admin@example.com"
	testAdminPassword = "hunter2"
	testWriterEmail   = "writer@example.com"
)

func setupTestDB(t *testing.T) *badger.DB {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// setupTestServer wires the full stack against an in-memory store with
// one admin and one non-admin account seeded. Templates are the real
// ones from app/views.
func setupTestServer(t *testing.T) (*mux.Router, repositories.PostRepository) {
	db := setupTestDB(t)
	posts := repositories.NewBadgerPostRepository(db)
	users := repositories.NewBadgerUserRepository(db)

	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	require.NoError(t, err)

	admin := &models.User{Email: testAdminEmail, PasswordHash: hash}
	require.NoError(t, users.CreateUser(admin))
	require.NoError(t, users.PutProfile(&models.Profile{
		UserID:   admin.ID,
		Username: "admin",
		IsAdmin:  true,
	}))

	writer := &models.User{Email: testWriterEmail, PasswordHash: hash}
	require.NoError(t, users.CreateUser(writer))
	require.NoError(t, users.PutProfile(&models.Profile{
		UserID:   writer.ID,
		Username: "writer",
	}))

	view := web.NewView("../..", "Quill Test")
	logger := log.New(testWriter{t}, "", 0)
	handlers := web.NewHandlers(
		services.NewPostService(posts),
		posts,
		auth.NewRepoBackend(users),
		auth.NewTokenStore(),
		view,
		logger,
	)
	return Setup(handlers), posts
}

type testWriter struct {
	t *testing.T
}

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

func seedPost(t *testing.T, posts repositories.PostRepository, title, slug string, published bool) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:     title,
		Slug:      slug,
		Content:   "Some *markdown* content.",
		Published: published,
		AuthorID:  "user-1",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, posts.Create(post))
	return post
}

// signIn posts the login form and returns the session cookie.
func signIn(t *testing.T, router *mux.Router, email, password string) *http.Cookie {
	t.Helper()
	form := url.Values{"email": {email}, "password": {password}}
	req := httptest.NewRequest("POST", "/admin/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusSeeOther, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	for _, c := range cookies {
		if c.Name == web.SessionCookie {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func postForm(router *mux.Router, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func get(router *mux.Router, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
