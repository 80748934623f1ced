package services

import (
	"database/sql"
	"errors"

	"silkmarket/internal/domain"
	"silkmarket/internal/repos"
	"silkmarket/internal/status"
)

type OrderService struct {
	Orders *repos.OrderRepo
}

func NewOrderService(orders *repos.OrderRepo) *OrderService {
	return &OrderService{Orders: orders}
}

// Create validates the input and persists the order with status CREATED and
// payment PENDING. Product/buyer/seller ids are taken as opaque references.
func (s *OrderService) Create(in domain.OrderInput) (domain.Order, error) {
	if in.ProductID == "" || in.BuyerID == "" || in.SellerID == "" {
		return domain.Order{}, domain.Invalid("product ID, buyer ID, and seller ID are required")
	}
	if in.Quantity <= 0 {
		return domain.Order{}, domain.Invalid("quantity must be greater than 0")
	}
	if in.Price <= 0 {
		return domain.Order{}, domain.Invalid("price must be greater than 0")
	}
	if in.PaymentMethod == "" {
		return domain.Order{}, domain.Invalid("payment method is required")
	}
	if in.ShippingStatus == "" {
		in.ShippingStatus = "DIGITAL" // non-shippable default
	} else if !status.Known(status.ShippingStatus, in.ShippingStatus) {
		return domain.Order{}, domain.Invalid("unknown shipping status " + in.ShippingStatus)
	}
	return s.Orders.Create(in)
}

func (s *OrderService) ListByBuyer(buyerID string) ([]domain.Order, error) {
	if buyerID == "" {
		return nil, domain.Invalid("buyer ID is required")
	}
	return s.Orders.ListByBuyer(buyerID)
}

func (s *OrderService) ListBySeller(sellerID string) ([]domain.Order, error) {
	if sellerID == "" {
		return nil, domain.Invalid("seller ID is required")
	}
	return s.Orders.ListBySeller(sellerID)
}

// UpdateStatus overwrites all three status columns together. Fields the
// caller leaves empty are re-encoded from the order's current values, so a
// partial update preserves the rest. Concurrent updates are last-writer-wins.
func (s *OrderService) UpdateStatus(orderID string, upd domain.OrderStatusUpdate) (domain.Order, error) {
	if orderID == "" {
		return domain.Order{}, domain.Invalid("order ID is required")
	}
	cur, err := s.Orders.Get(orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, domain.NotFound("order")
	}
	if err != nil {
		return domain.Order{}, err
	}

	statusCode, err := resolve(status.OrderStatus, upd.Status, cur.Status)
	if err != nil {
		return domain.Order{}, err
	}
	paymentCode, err := resolve(status.PaymentStatus, upd.PaymentStatus, cur.PaymentStatus)
	if err != nil {
		return domain.Order{}, err
	}
	shippingCode, err := resolve(status.ShippingStatus, upd.ShippingStatus, cur.ShippingStatus)
	if err != nil {
		return domain.Order{}, err
	}

	out, err := s.Orders.UpdateStatus(orderID, statusCode, paymentCode, shippingCode)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, domain.NotFound("order")
	}
	return out, err
}

// resolve encodes the supplied symbol, falling back to the current persisted
// one when the caller omitted the field. Unknown symbols fail instead of
// silently defaulting.
func resolve(d status.Domain, supplied, current string) (int, error) {
	symbol := supplied
	if symbol == "" {
		symbol = current
	}
	code, err := status.Code(d, symbol)
	if err != nil {
		return 0, domain.Invalid("unknown " + string(d) + " " + symbol)
	}
	return code, nil
}
