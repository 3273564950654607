package ui

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"agencyui/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed assets
var assetFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type pageData struct {
	Title string
	View  session.View
}

func renderPage(w http.ResponseWriter, view session.View) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	return pageTemplate.Execute(w, pageData{Title: "Agency Composer", View: view})
}

func assetsHandler() http.Handler {
	sub, err := fs.Sub(assetFS, "assets")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/assets/", http.FileServer(http.FS(sub)))
}
