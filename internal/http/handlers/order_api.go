package handlers

import (
	"github.com/gofiber/fiber/v2"

	"silkmarket/internal/domain"
	applog "silkmarket/internal/log"
	"silkmarket/internal/services"
)

type OrderAPI struct {
	Orders *services.OrderService
}

// POST /api/orders
func (h *OrderAPI) Create(c *fiber.Ctx) error {
	var in domain.OrderInput
	if err := c.BodyParser(&in); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"error": "bad body"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	o, err := h.Orders.Create(in)
	if err != nil {
		return writeError(c, err)
	}
	applog.Audit(c, "order.create", map[string]any{
		"order_id": o.ID, "product_id": o.ProductID, "buyer_id": o.BuyerID,
	})
	return c.Status(fiber.StatusCreated).JSON(o)
}

// GET /api/orders/buyer/:buyerId
func (h *OrderAPI) ListByBuyer(c *fiber.Ctx) error {
	orders, err := h.Orders.ListByBuyer(c.Params("buyerId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(orders)
}

// GET /api/orders/seller/:sellerId
func (h *OrderAPI) ListBySeller(c *fiber.Ctx) error {
	orders, err := h.Orders.ListBySeller(c.Params("sellerId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(orders)
}

// PUT /api/orders/:orderId/status
func (h *OrderAPI) UpdateStatus(c *fiber.Ctx) error {
	var upd domain.OrderStatusUpdate
	if err := c.BodyParser(&upd); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"error": "bad body"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	o, err := h.Orders.UpdateStatus(c.Params("orderId"), upd)
	if err != nil {
		return writeError(c, err)
	}
	applog.Audit(c, "order.status.update", map[string]any{
		"order_id": o.ID, "status": o.Status,
		"payment_status": o.PaymentStatus, "shipping_status": o.ShippingStatus,
	})
	return c.JSON(fiber.Map{"message": "Order status updated successfully.", "order": o})
}
