// Package web is the HTTP surface: thin handlers that drive the
// authoring controllers and render templates. No business rule lives
// here.
package web

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"quill/app/auth"
	"quill/app/controllers"
	"quill/app/guard"
	"quill/app/models"
	"quill/app/repositories"
	"quill/app/services"

	"github.com/gorilla/mux"
)

// SessionCookie names the cookie carrying the session token.
const SessionCookie = "quill_session"

type Handlers struct {
	svc      *services.PostService
	posts    repositories.PostRepository
	backend  auth.Backend
	sessions *auth.TokenStore
	view     *View
	logger   *log.Logger
	clock    controllers.Clock
}

func NewHandlers(svc *services.PostService, posts repositories.PostRepository, backend auth.Backend, sessions *auth.TokenStore, view *View, logger *log.Logger) *Handlers {
	return &Handlers{
		svc:      svc,
		posts:    posts,
		backend:  backend,
		sessions: sessions,
		view:     view,
		logger:   logger,
		clock:    time.Now,
	}
}

// SessionState resolves the acting identity for a request. A request
// without a live session token acts anonymously.
func (h *Handlers) SessionState(r *http.Request) auth.State {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return auth.State{Phase: auth.Anonymous}
	}
	session := h.sessions.Get(cookie.Value)
	if session == nil {
		return auth.State{Phase: auth.Anonymous}
	}
	return session.Current()
}

// --- public pages ---

func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.PublishedPosts()
	if err != nil {
		h.logger.Printf("list published posts: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	h.view.Render(w, "home", http.StatusOK, posts)
}

func (h *Handlers) ShowPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.svc.PublishedBySlug(mux.Vars(r)["slug"])
	if errors.Is(err, repositories.ErrNotFound) {
		h.view.Render(w, "notfound", http.StatusNotFound, nil)
		return
	}
	if err != nil {
		h.logger.Printf("fetch post: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	h.view.Render(w, "post", http.StatusOK, post)
}

// --- login / logout ---

type loginPage struct {
	Error  string
	Return string
}

func (h *Handlers) LoginForm(w http.ResponseWriter, r *http.Request) {
	if state := h.SessionState(r); state.Phase == auth.Authenticated {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	h.view.Render(w, "login", http.StatusOK, loginPage{Return: r.URL.Query().Get("return")})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")
	returnTo := sanitizeReturn(r.FormValue("return"))

	session := auth.NewSession(h.backend)
	session.Resolve()
	if err := session.SignIn(email, password); err != nil {
		status := http.StatusUnauthorized
		msg := err.Error()
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			h.logger.Printf("sign in: %v", err)
			status = http.StatusInternalServerError
			msg = "Sign-in failed, try again"
		}
		h.view.Render(w, "login", status, loginPage{Error: msg, Return: returnTo})
		return
	}

	token, err := auth.NewToken()
	if err != nil {
		h.logger.Printf("mint session token: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	h.sessions.Put(token, session)
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	if returnTo == "" {
		returnTo = "/admin"
	}
	http.Redirect(w, r, returnTo, http.StatusSeeOther)
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		if session := h.sessions.Get(cookie.Value); session != nil {
			session.SignOut()
		}
		h.sessions.Drop(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:   SessionCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	http.Redirect(w, r, guard.HomePath, http.StatusSeeOther)
}

// sanitizeReturn only accepts site-local paths, so the login redirect
// cannot be pointed off-site.
func sanitizeReturn(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") {
		return ""
	}
	return raw
}

// --- admin pages ---

func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats()
	if err != nil {
		h.logger.Printf("dashboard stats: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	h.view.Render(w, "dashboard", http.StatusOK, stats)
}

type adminPostsPage struct {
	Posts  []*models.Post
	Notice string
}

func (h *Handlers) AdminPosts(w http.ResponseWriter, r *http.Request) {
	list := h.newListController(alwaysConfirm{}, discardNotice{})
	if err := list.Load(); err != nil {
		h.logger.Printf("load posts: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	h.view.Render(w, "admin_posts", http.StatusOK, adminPostsPage{
		Posts:  list.Posts(),
		Notice: r.URL.Query().Get("notice"),
	})
}

func (h *Handlers) TogglePublish(w http.ResponseWriter, r *http.Request) {
	list := h.newListController(alwaysConfirm{}, discardNotice{})
	if err := list.Load(); err != nil {
		h.logger.Printf("load posts: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	list.TogglePublish(mux.Vars(r)["id"])
	http.Redirect(w, r, controllers.AdminPostsPath, http.StatusSeeOther)
}

func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	notice := &capturedNotice{}
	list := h.newListController(formConfirm{r}, notice)
	if err := list.Load(); err != nil {
		h.logger.Printf("load posts: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	list.Delete(mux.Vars(r)["id"])

	target := controllers.AdminPostsPath
	if notice.message != "" {
		target += "?" + url.Values{"notice": {notice.message}}.Encode()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

type editorPage struct {
	Draft   models.PostDraft
	Editing bool
	PostID  string
	Error   string
}

func (h *Handlers) NewPost(w http.ResponseWriter, r *http.Request) {
	editor := h.newEditorController(r, &redirectNav{})
	h.view.Render(w, "editor", http.StatusOK, editorPage{Draft: editor.Draft()})
}

func (h *Handlers) EditPost(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	editor := h.newEditorController(r, &redirectNav{})
	if err := editor.Load(id); err != nil {
		h.view.Render(w, "notfound", http.StatusNotFound, nil)
		return
	}
	h.view.Render(w, "editor", http.StatusOK, editorPage{
		Draft:   editor.Draft(),
		Editing: true,
		PostID:  id,
	})
}

// SavePost handles both the new-post and edit forms, plus the preview
// mode of either.
func (h *Handlers) SavePost(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	nav := &redirectNav{}
	editor := h.newEditorController(r, nav)
	if id != "" {
		if err := editor.Load(id); err != nil {
			h.view.Render(w, "notfound", http.StatusNotFound, nil)
			return
		}
	}

	// Slug before title: on a new post the latest title always wins
	// the slug.
	editor.SetSlug(r.FormValue("slug"))
	editor.SetTitle(r.FormValue("title"))
	editor.SetContent(r.FormValue("content"))
	editor.SetExcerpt(r.FormValue("excerpt"))
	editor.SetCoverImage(r.FormValue("cover_image"))
	editor.SetPublished(r.FormValue("published") == "on")

	switch r.FormValue("mode") {
	case "preview":
		editor.ShowPreview()
		h.view.Render(w, "preview", http.StatusOK, editorPage{
			Draft:   editor.Draft(),
			Editing: editor.Editing(),
			PostID:  id,
		})
		return
	case "edit":
		editor.ShowEditor()
		h.view.Render(w, "editor", http.StatusOK, editorPage{
			Draft:   editor.Draft(),
			Editing: editor.Editing(),
			PostID:  id,
		})
		return
	}

	editor.Submit()
	if editor.State() == controllers.EditorError {
		h.view.Render(w, "editor", http.StatusOK, editorPage{
			Draft:   editor.Draft(),
			Editing: editor.Editing(),
			PostID:  id,
			Error:   editor.ErrorMessage(),
		})
		return
	}
	http.Redirect(w, r, nav.path, http.StatusSeeOther)
}

func (h *Handlers) newEditorController(r *http.Request, nav controllers.Navigator) *controllers.PostEditorController {
	return controllers.NewPostEditorController(
		h.posts,
		func() auth.State { return h.SessionState(r) },
		nav,
		h.clock,
	)
}

func (h *Handlers) newListController(confirm controllers.Confirmer, notify controllers.Notifier) *controllers.PostListController {
	return controllers.NewPostListController(h.posts, confirm, notify, h.logger)
}

// --- controller collaborators over HTTP ---

// redirectNav records where the editor wants the user to go next.
type redirectNav struct {
	path    string
	replace bool
}

func (n *redirectNav) GoTo(path string, replace bool) {
	n.path = path
	n.replace = replace
}

// formConfirm treats the confirmation prompt as already answered by
// the browser: the delete form submits confirm=yes from its dialog.
type formConfirm struct {
	r *http.Request
}

func (f formConfirm) Confirm(string) bool {
	return f.r.FormValue("confirm") == "yes"
}

type alwaysConfirm struct{}

func (alwaysConfirm) Confirm(string) bool { return true }

// capturedNotice collects a failure notice for the redirect target.
type capturedNotice struct {
	message string
}

func (c *capturedNotice) Notify(message string) {
	c.message = message
}

type discardNotice struct{}

func (discardNotice) Notify(string) {}
