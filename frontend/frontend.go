// Package frontend holds the embedded storefront views and static assets.
package frontend

import (
	"embed"
	"html/template"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ChaosForCurio/Xieriee-Store/utils"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// Renderer implements echo.Renderer over the embedded html/template set.
type Renderer struct {
	templates *template.Template
}

func NewRenderer() (*Renderer, error) {
	templates, err := template.New("store").Funcs(template.FuncMap{
		"formatFileSize": utils.FormatFileSize,
		"until": func(n int) []int {
			r := make([]int, n)
			for i := range r {
				r[i] = i
			}
			return r
		},
	}).ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: templates}, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

// RegisterHandlers mounts the embedded static assets.
func RegisterHandlers(e *echo.Echo) {
	e.GET("/static/*", echo.WrapHandler(http.FileServer(http.FS(staticFS))))
}
