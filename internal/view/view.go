package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"eau-clair-web/internal/middleware"
	"eau-clair-web/internal/model"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

//go:embed templates/*.html
var files embed.FS

// Page template names.
const (
	PageHome           = "home.html"
	PageAbout          = "about.html"
	PageProducts       = "products.html"
	PageProduct        = "product.html"
	PageLogin          = "login.html"
	PageSignup         = "signup.html"
	PageAdminLogin     = "admin_login.html"
	PageForgotPassword = "forgot_password.html"
	PageResetPassword  = "reset_password.html"
	PageAdmin          = "admin.html"
	PageProductForm    = "admin_product_form.html"
	PageNotFound       = "not_found.html"
)

var pageNames = []string{
	PageHome, PageAbout, PageProducts, PageProduct,
	PageLogin, PageSignup, PageAdminLogin, PageForgotPassword, PageResetPassword,
	PageAdmin, PageProductForm, PageNotFound,
}

var funcs = template.FuncMap{
	"price": func(p float64) string { return fmt.Sprintf("$%.2f", p) },
	"year":  func() int { return time.Now().Year() },
}

// Renderer holds every page parsed together with the shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

func New() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		tpl, err := template.New("layout.html").Funcs(funcs).ParseFS(files, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, errors.Wrapf(err, "parse %s", name)
		}
		r.pages[name] = tpl
	}
	return r, nil
}

// Render writes page as HTML with the current status code. Besides data the
// page sees User, IsAdmin, Categories, and the Message and Error flashes
// from the query string; data wins on conflict.
func (r *Renderer) Render(c *fiber.Ctx, page string, data fiber.Map) error {
	tpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	vars := fiber.Map{
		"User":       middleware.CurrentUser(c),
		"IsAdmin":    middleware.IsAdmin(c),
		"Categories": model.Categories,
		"Message":    c.Query("message"),
		"Error":      c.Query("error"),
		"Path":       c.Path(),
	}
	for k, v := range data {
		vars[k] = v
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, vars); err != nil {
		return errors.Wrapf(err, "render %s", page)
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}
