package handlers

import (
	"sort"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"silkmarket/internal/domain"
	applog "silkmarket/internal/log"
	"silkmarket/internal/services"
	"silkmarket/internal/validate"
)

// PageHandler serves the server-rendered storefront: browsing, the sell form
// and checkout. All writes go through the same services as the JSON API.
type PageHandler struct {
	Products *services.ProductService
	Orders   *services.OrderService
}

type categoryCount struct {
	Name  string
	Count int
}

// Home renders the listing grid with search and the category sidebar.
func (h *PageHandler) Home(c *fiber.Ctx) error {
	q := strings.TrimSpace(c.Query("q"))
	if q != "" {
		if _, ok := validate.Q(q); !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "q", "value": q})
			c.Status(fiber.StatusBadRequest)
			return render(c, "home", fiber.Map{
				"Q": "", "Products": []domain.Product{}, "Categories": []categoryCount{},
				"Err": "Enter a valid keyword (letters/numbers only)",
			})
		}
	}
	selected := strings.TrimSpace(c.Query("category"))

	products, err := h.Products.FindAll(domain.ProductFilter{Search: q})
	if err != nil {
		applog.Error(c, "home.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load listings. Please retry."})
	}

	// Category counts come from the unfiltered result so the sidebar keeps
	// all categories visible while one is selected.
	counts := map[string]int{}
	for _, p := range products {
		cat := p.Category
		if cat == "" {
			cat = "Outros"
		}
		counts[cat]++
	}
	cats := make([]categoryCount, 0, len(counts))
	for name, n := range counts {
		cats = append(cats, categoryCount{Name: name, Count: n})
	}
	sort.Slice(cats, func(i, j int) bool {
		if cats[i].Count != cats[j].Count {
			return cats[i].Count > cats[j].Count
		}
		return cats[i].Name < cats[j].Name
	})

	if selected != "" {
		filtered := make([]domain.Product, 0, len(products))
		for _, p := range products {
			if p.Category == selected {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}

	return render(c, "home", fiber.Map{
		"Q": q, "Selected": selected,
		"Products": products, "Categories": cats, "Count": len(products),
	})
}

// Detail shows one listing and counts the view.
func (h *PageHandler) Detail(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := h.Products.IncrementViewCount(id); err != nil {
		if domain.IsNotFound(err) {
			return c.Status(404).Render("notfound", fiber.Map{"Message": "This item is no longer available"})
		}
		applog.Error(c, "product.view.fail", err, map[string]any{"product_id": id})
	}
	p, err := h.Products.FindByID(id)
	if err != nil {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This item is no longer available"})
	}
	return render(c, "product", fiber.Map{"P": p})
}

// SellForm renders the new-listing form.
func (h *PageHandler) SellForm(c *fiber.Ctx) error {
	return render(c, "sell", fiber.Map{})
}

// Sell creates a listing for the logged-in user.
func (h *PageHandler) Sell(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	if u == nil {
		return c.Redirect("/login")
	}

	price, _ := strconv.ParseFloat(strings.TrimSpace(c.FormValue("price")), 64)
	in := domain.ProductInput{
		Title:       strings.TrimSpace(c.FormValue("title")),
		Description: strings.TrimSpace(c.FormValue("description")),
		SellerID:    u.ID,
		Price:       price,
		Currency:    strings.TrimSpace(c.FormValue("currency")),
		Category:    strings.TrimSpace(c.FormValue("category")),
		Tags:        splitList(c.FormValue("tags")),
		Images:      splitList(c.FormValue("images")),
		Quantity:    validate.Qty(c.FormValue("quantity")),
		IsDigital:   c.FormValue("isDigital") == "on",
	}
	if dm := strings.TrimSpace(c.FormValue("deliveryMethod")); dm != "" {
		in.DeliveryMethod = &dm
	}

	p, err := h.Products.Create(in)
	if err != nil {
		if domain.IsValidation(err) {
			applog.Security(c, "validation.fail", map[string]any{"form": "sell", "error": err.Error()})
			c.Status(fiber.StatusBadRequest)
			return render(c, "sell", fiber.Map{"Err": err.Error(), "In": in})
		}
		applog.Error(c, "product.create.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not create the listing. Please retry."})
	}
	applog.Audit(c, "product.create", map[string]any{"product_id": p.ID, "seller_id": u.ID})
	return c.Redirect("/product/" + p.ID)
}

// CheckoutForm renders the checkout page for one listing.
func (h *PageHandler) CheckoutForm(c *fiber.Ctx) error {
	p, err := h.Products.FindByID(c.Params("id"))
	if err != nil {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This item is no longer available"})
	}
	return render(c, "checkout", fiber.Map{"P": p})
}

// Checkout places an order for the logged-in buyer. The line price is
// computed server-side from the listing.
func (h *PageHandler) Checkout(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	if u == nil {
		return c.Redirect("/login")
	}
	p, err := h.Products.FindByID(c.Params("id"))
	if err != nil {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This item is no longer available"})
	}

	qty := validate.Qty(c.FormValue("quantity"))
	address := strings.TrimSpace(c.FormValue("shippingAddress"))
	if !p.IsDigital && address == "" {
		applog.Security(c, "validation.fail", map[string]any{"form": "checkout", "field": "shippingAddress"})
		c.Status(fiber.StatusBadRequest)
		return render(c, "checkout", fiber.Map{
			"P": p, "Err": "Shipping address is required for physical items",
		})
	}

	in := domain.OrderInput{
		ProductID:     p.ID,
		BuyerID:       u.ID,
		SellerID:      p.SellerID,
		Quantity:      qty,
		Price:         p.Price * float64(qty),
		PaymentMethod: strings.TrimSpace(c.FormValue("paymentMethod")),
	}
	if address != "" {
		in.ShippingAddress = &address
	}
	if notes := strings.TrimSpace(c.FormValue("notes")); notes != "" {
		in.Notes = &notes
	}
	if !p.IsDigital {
		in.ShippingStatus = "AWAITING_SHIPMENT"
	}

	o, err := h.Orders.Create(in)
	if err != nil {
		if domain.IsValidation(err) {
			applog.Security(c, "validation.fail", map[string]any{"form": "checkout", "error": err.Error()})
			c.Status(fiber.StatusBadRequest)
			return render(c, "checkout", fiber.Map{"P": p, "Err": err.Error()})
		}
		applog.Error(c, "order.create.fail", err, map[string]any{"product_id": p.ID})
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not place the order. Please retry."})
	}
	applog.Audit(c, "order.place", map[string]any{"order_id": o.ID, "product_id": p.ID, "buyer_id": u.ID})
	return c.Redirect("/orders")
}

// Purchases lists the logged-in user's orders as buyer.
func (h *PageHandler) Purchases(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	if u == nil {
		return c.Redirect("/login")
	}
	orders, err := h.Orders.ListByBuyer(u.ID)
	if err != nil {
		applog.Error(c, "orders.history.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load orders"})
	}
	return render(c, "orders", fiber.Map{"Orders": orders, "Role": "buyer"})
}

// Sales lists the logged-in user's orders as seller.
func (h *PageHandler) Sales(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	if u == nil {
		return c.Redirect("/login")
	}
	orders, err := h.Orders.ListBySeller(u.ID)
	if err != nil {
		applog.Error(c, "orders.sales.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load orders"})
	}
	return render(c, "orders", fiber.Map{"Orders": orders, "Role": "seller"})
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
