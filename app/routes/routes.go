// Package routes wires the HTTP surface together.
package routes

import (
	"net/http"

	"quill/app/guard"
	"quill/app/middleware"
	"quill/app/web"

	"github.com/gorilla/mux"
)

// Setup builds the router: public pages, the login pair, and the admin
// area behind the admin guard.
func Setup(h *web.Handlers) *mux.Router {
	router := mux.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// Public pages
	router.HandleFunc("/", h.Home).Methods("GET")
	router.HandleFunc("/post/{slug}", h.ShowPost).Methods("GET")
	router.PathPrefix("/static/").Handler(
		http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	// Login is reachable anonymously by definition
	router.HandleFunc(guard.LoginPath, h.LoginForm).Methods("GET")
	router.HandleFunc(guard.LoginPath, h.Login).Methods("POST")
	router.HandleFunc("/admin/logout", h.Logout).Methods("POST")

	// Admin area
	admin := router.PathPrefix("/admin").Subrouter()
	admin.Use(guard.Middleware(guard.RequireAdmin, h.SessionState))
	admin.HandleFunc("", h.Dashboard).Methods("GET")
	admin.HandleFunc("/", h.Dashboard).Methods("GET")
	admin.HandleFunc("/posts", h.AdminPosts).Methods("GET")
	admin.HandleFunc("/posts/new", h.NewPost).Methods("GET")
	admin.HandleFunc("/posts/new", h.SavePost).Methods("POST")
	admin.HandleFunc("/posts/{id}", h.EditPost).Methods("GET")
	admin.HandleFunc("/posts/{id}", h.SavePost).Methods("POST")
	admin.HandleFunc("/posts/{id}/publish", h.TogglePublish).Methods("POST")
	admin.HandleFunc("/posts/{id}/delete", h.DeletePost).Methods("POST")

	return router
}
