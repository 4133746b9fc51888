// Package web serves the HTML landing page and its script.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

type pageData struct {
	Title   string
	APIBase string
}

type Handler struct {
	apiBase string
}

// NewHandler renders pages whose script talks to the employee routes
// mounted at apiBase (e.g. "/api").
func NewHandler(apiBase string) *Handler {
	return &Handler{apiBase: apiBase}
}

func (h *Handler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", pageData{
		Title:   "Employees",
		APIBase: h.apiBase,
	})
}

// RegisterRoutes installs the templates on r and mounts / and /static.
func RegisterRoutes(r *gin.Engine, handler *Handler) error {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return err
	}
	r.SetHTMLTemplate(tmpl)

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return err
	}

	r.GET("/", handler.Index)
	r.StaticFS("/static", http.FS(static))
	return nil
}
