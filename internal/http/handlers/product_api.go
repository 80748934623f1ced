package handlers

import (
	"github.com/gofiber/fiber/v2"

	"silkmarket/internal/domain"
	applog "silkmarket/internal/log"
	"silkmarket/internal/services"
)

type ProductAPI struct {
	Products *services.ProductService
}

// POST /api/products
func (h *ProductAPI) Create(c *fiber.Ctx) error {
	var in domain.ProductInput
	if err := c.BodyParser(&in); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"error": "bad body"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	p, err := h.Products.Create(in)
	if err != nil {
		return writeError(c, err)
	}
	applog.Audit(c, "product.create", map[string]any{"product_id": p.ID, "seller_id": p.SellerID})
	return c.Status(fiber.StatusCreated).JSON(p)
}

// GET /api/products?search=&category=&currency=
func (h *ProductAPI) List(c *fiber.Ctx) error {
	f := domain.ProductFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Currency: c.Query("currency"),
	}
	products, err := h.Products.FindAll(f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(products)
}

// GET /api/products/:id
func (h *ProductAPI) Get(c *fiber.Ctx) error {
	p, err := h.Products.FindByID(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(p)
}

// PATCH /api/products/:id/view
func (h *ProductAPI) IncrementView(c *fiber.Ctx) error {
	n, err := h.Products.IncrementViewCount(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"viewCount": n})
}
