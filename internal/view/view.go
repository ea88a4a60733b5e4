// Package view renders the admin pages. Each page is parsed into its own
// template set on top of the shared layout so that every page can define
// its own "content" block.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin/render"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Page names accepted by Renderer.Instance.
const (
	PageSPPList     = "spp_list"
	PageSPPForm     = "spp_form"
	PageStudentList = "student_list"
	PageStudentForm = "student_form"
)

var pageNames = []string{PageSPPList, PageSPPForm, PageStudentList, PageStudentForm}

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

var printer = message.NewPrinter(language.Indonesian)

// Rupiah formats an amount with Indonesian digit grouping, e.g. "Rp 5.000.000".
func Rupiah(amount int64) string {
	return printer.Sprintf("Rp %d", amount)
}

// Funcs returns the template helpers shared by every page.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"rupiah": Rupiah,
		"inc":    func(i int) int { return i + 1 },
		"year":   func() int { return time.Now().Year() },
	}
}

// Renderer implements gin's render.HTMLRender over the embedded pages.
type Renderer struct {
	pages map[string]*template.Template
}

// Load parses the layout and every page.
func Load() (*Renderer, error) {
	base, err := template.New("base").Funcs(Funcs()).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout for %s: %w", name, err)
		}
		if _, err := t.ParseFS(templateFS, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = t
	}
	return &Renderer{pages: pages}, nil
}

// Instance satisfies render.HTMLRender. Unknown page names panic, which gin
// recovers into a 500.
func (r *Renderer) Instance(name string, data any) render.Render {
	t, ok := r.pages[name]
	if !ok {
		panic(fmt.Sprintf("view: unknown page %q", name))
	}
	return render.HTML{Template: t, Name: "layout", Data: data}
}

// Static serves the stylesheet.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
