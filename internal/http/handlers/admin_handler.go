package handlers

import (
	"silkmarket/internal/domain"
	applog "silkmarket/internal/log"
	"silkmarket/internal/repos"
	"silkmarket/internal/services"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Orders *services.OrderService
	Repo   *repos.OrderRepo
}

// GET /admin/orders
func (h *AdminHandler) OrdersPage(c *fiber.Ctx) error {
	ords, err := h.Repo.ListLatest(100)
	if err != nil {
		applog.Error(c, "admin.orders.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load orders"})
	}
	return render(c, "admin_orders", fiber.Map{"Orders": ords})
}

// POST /admin/orders/:id/status
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	upd := domain.OrderStatusUpdate{
		Status:         c.FormValue("status"),
		PaymentStatus:  c.FormValue("paymentStatus"),
		ShippingStatus: c.FormValue("shippingStatus"),
	}
	if id == "" || (upd.Status == "" && upd.PaymentStatus == "" && upd.ShippingStatus == "") {
		return c.Status(400).SendString("missing id or status")
	}
	o, err := h.Orders.UpdateStatus(id, upd)
	if err != nil {
		applog.Error(c, "admin.orders.update.fail", err, map[string]any{"order_id": id})
		if domain.IsNotFound(err) {
			return c.Status(404).SendString("order not found")
		}
		return c.Status(400).SendString("could not update status")
	}
	applog.Audit(c, "admin.orders.update", map[string]any{
		"order_id": o.ID, "status": o.Status,
		"payment_status": o.PaymentStatus, "shipping_status": o.ShippingStatus,
	})
	return c.Redirect("/admin/orders")
}
