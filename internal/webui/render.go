package webui

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

// templateRenderer implements echo.Renderer over the embedded templates
type templateRenderer struct {
	templates *template.Template
}

func newRenderer() *templateRenderer {
	funcs := template.FuncMap{
		"qty": func(f float64) string { return fmt.Sprintf("%g", f) },
		"fixed2": func(f float64) string { return fmt.Sprintf("%.2f", f) },
	}
	t := template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
	return &templateRenderer{templates: t}
}

func (r *templateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}
