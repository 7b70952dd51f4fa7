package handler

import (
	"eau-clair-web/internal/service"
	"eau-clair-web/internal/view"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// featuredCount is how many products the home page shows.
const featuredCount = 3

type PageHandler struct {
	catalog service.CatalogService
	view    *view.Renderer
}

func NewPageHandler(catalog service.CatalogService, v *view.Renderer) *PageHandler {
	return &PageHandler{catalog: catalog, view: v}
}

func (h *PageHandler) Home(c *fiber.Ctx) error {
	return h.view.Render(c, view.PageHome, fiber.Map{
		"Products": h.catalog.Featured(c.UserContext(), featuredCount),
	})
}

func (h *PageHandler) About(c *fiber.Ctx) error {
	return h.view.Render(c, view.PageAbout, fiber.Map{"Title": "About"})
}

func (h *PageHandler) Products(c *fiber.Ctx) error {
	category := c.Query("category", service.CategoryAll)
	products := service.FilterByCategory(h.catalog.ListActive(c.UserContext()), category)
	return h.view.Render(c, view.PageProducts, fiber.Map{
		"Title":    "Products",
		"Products": products,
		"Category": category,
	})
}

func (h *PageHandler) Product(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return h.notFound(c, "This product")
	}
	product, err := h.catalog.Get(c.UserContext(), id)
	if errors.Is(err, service.ErrProductNotFound) {
		return h.notFound(c, "This product")
	}
	if err != nil {
		return err
	}
	return h.view.Render(c, view.PageProduct, fiber.Map{
		"Title":   product.Name,
		"Product": product,
	})
}

// NotFound is the catch-all route.
func (h *PageHandler) NotFound(c *fiber.Ctx) error {
	return h.notFound(c, "")
}

func (h *PageHandler) notFound(c *fiber.Ctx, what string) error {
	c.Status(fiber.StatusNotFound)
	return h.view.Render(c, view.PageNotFound, fiber.Map{"Title": "Not found", "What": what})
}

func (h *PageHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
