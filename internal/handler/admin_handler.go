package handler

import (
	"strings"

	"eau-clair-web/internal/middleware"
	"eau-clair-web/internal/model"
	"eau-clair-web/internal/service"
	"eau-clair-web/internal/view"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

type AdminHandler struct {
	service service.AdminService
	view    *view.Renderer
}

func NewAdminHandler(s service.AdminService, v *view.Renderer) *AdminHandler {
	return &AdminHandler{service: s, view: v}
}

// productForm holds the raw form values so a rejected submission can be shown again.
type productForm struct {
	Name        string
	Description string
	Size        string
	Price       string
	Category    string
	Stock       string
	ImageURL    string
	IsActive    bool
}

func readProductForm(c *fiber.Ctx) productForm {
	return productForm{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		Size:        c.FormValue("size"),
		Price:       strings.TrimSpace(c.FormValue("price")),
		Category:    c.FormValue("category"),
		Stock:       strings.TrimSpace(c.FormValue("stock")),
		ImageURL:    c.FormValue("image_url"),
		IsActive:    c.FormValue("is_active") == "true",
	}
}

func formFromProduct(p *model.Product) productForm {
	return productForm{
		Name:        p.Name,
		Description: p.DescriptionText(),
		Size:        p.SizeText(),
		Price:       cast.ToString(p.Price),
		Category:    p.Category,
		Stock:       cast.ToString(p.Stock),
		ImageURL:    p.Image(),
		IsActive:    p.IsActive,
	}
}

// input coerces the text fields. An unparsable number is left nil and
// reported as missing by validation. Stock is truncated like an integer parse.
func (f productForm) input() *service.ProductInput {
	in := &service.ProductInput{
		Name:        f.Name,
		Description: f.Description,
		Size:        f.Size,
		Category:    f.Category,
		ImageURL:    f.ImageURL,
		IsActive:    f.IsActive,
	}
	if price, err := cast.ToFloat64E(f.Price); err == nil && f.Price != "" {
		in.Price = &price
	}
	if stock, err := cast.ToFloat64E(f.Stock); err == nil && f.Stock != "" {
		n := int(stock)
		in.Stock = &n
	}
	return in
}

func actor(c *fiber.Ctx) string {
	if user := middleware.CurrentUser(c); user != nil {
		return user.Email
	}
	return ""
}

func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	products, err := h.service.ListAll(c.UserContext())
	if err != nil {
		c.Status(fiber.StatusInternalServerError)
		return h.view.Render(c, view.PageAdmin, fiber.Map{"Title": "Admin", "Error": userMessage(err)})
	}
	return h.view.Render(c, view.PageAdmin, fiber.Map{"Title": "Admin", "Products": products})
}

func (h *AdminHandler) NewProductPage(c *fiber.Ctx) error {
	return h.renderForm(c, "/admin/products/new", false, productForm{Category: model.CategoryStillWater, IsActive: true}, "")
}

func (h *AdminHandler) CreateProduct(c *fiber.Ctx) error {
	form := readProductForm(c)
	if _, err := h.service.CreateProduct(c.UserContext(), form.input(), actor(c)); err != nil {
		c.Status(fiber.StatusBadRequest)
		return h.renderForm(c, "/admin/products/new", false, form, userMessage(err))
	}
	return c.Redirect("/admin")
}

func (h *AdminHandler) EditProductPage(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return h.productNotFound(c)
	}
	product, err := h.service.Get(c.UserContext(), id)
	if errors.Is(err, service.ErrProductNotFound) {
		return h.productNotFound(c)
	}
	if err != nil {
		return err
	}
	return h.renderForm(c, editPath(id), true, formFromProduct(product), "")
}

func (h *AdminHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return h.productNotFound(c)
	}
	form := readProductForm(c)
	if _, err := h.service.UpdateProduct(c.UserContext(), id, form.input(), actor(c)); err != nil {
		c.Status(fiber.StatusBadRequest)
		return h.renderForm(c, editPath(id), true, form, userMessage(err))
	}
	return c.Redirect("/admin")
}

// DeleteProduct answers with a DeleteResult; the page refreshes itself.
func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(service.DeleteResult{Error: "Invalid product id"})
	}
	result := h.service.DeleteProduct(c.UserContext(), id, actor(c))
	if !result.Success {
		c.Status(fiber.StatusBadRequest)
	}
	return c.JSON(result)
}

func (h *AdminHandler) renderForm(c *fiber.Ctx, action string, editing bool, form productForm, errMsg string) error {
	title := "Add Product"
	if editing {
		title = "Edit Product"
	}
	return h.view.Render(c, view.PageProductForm, fiber.Map{
		"Title":   title,
		"Action":  action,
		"Editing": editing,
		"Form":    form,
		"Error":   errMsg,
	})
}

func (h *AdminHandler) productNotFound(c *fiber.Ctx) error {
	c.Status(fiber.StatusNotFound)
	return h.view.Render(c, view.PageNotFound, fiber.Map{"Title": "Not found", "What": "This product"})
}

func editPath(id uuid.UUID) string {
	return "/admin/products/edit/" + id.String()
}
