package web

import (
	"html/template"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// View renders pages against a shared layout. Templates are parsed
// once at startup; a missing template is a programming error and
// panics then, not at request time.
type View struct {
	templates map[string]*template.Template
	siteTitle string
}

var pageNames = []string{
	"home",
	"post",
	"notfound",
	"login",
	"dashboard",
	"admin_posts",
	"editor",
	"preview",
}

var pageFiles = map[string]string{
	"home":        "home.html",
	"post":        "post.html",
	"notfound":    "notfound.html",
	"login":       "login.html",
	"dashboard":   "admin/dashboard.html",
	"admin_posts": "admin/posts.html",
	"editor":      "admin/editor.html",
	"preview":     "admin/preview.html",
}

// NewView loads every page template relative to basePath.
func NewView(basePath, siteTitle string) *View {
	funcs := template.FuncMap{
		"markdown": renderMarkdown,
		"dateFmt": func(layout string, t time.Time) string {
			return t.Format(layout)
		},
	}

	templates := make(map[string]*template.Template)
	layout := filepath.Join(basePath, "app/views/layout.html")
	for _, name := range pageNames {
		page := filepath.Join(basePath, "app/views", pageFiles[name])
		templates[name] = template.Must(
			template.New("layout.html").Funcs(funcs).ParseFiles(layout, page))
	}

	return &View{templates: templates, siteTitle: siteTitle}
}

type pageData struct {
	Site string
	Data any
}

// Render writes a page. Template execution failures are logged; by
// then part of the body may already be out, so no error page follows.
func (v *View) Render(w http.ResponseWriter, name string, status int, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	err := v.templates[name].ExecuteTemplate(w, "layout", pageData{Site: v.siteTitle, Data: data})
	if err != nil {
		log.Printf("render %s: %v", name, err)
	}
}

// renderMarkdown turns post markdown into HTML for the public pages
// and the editor preview.
func renderMarkdown(src string) template.HTML {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs
	doc := parser.NewWithExtensions(extensions).Parse([]byte(src))

	htmlFlags := html.CommonFlags | html.HrefTargetBlank
	renderer := html.NewRenderer(html.RendererOptions{Flags: htmlFlags})

	return template.HTML(markdown.Render(doc, renderer))
}
