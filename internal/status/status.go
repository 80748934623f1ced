// Package status maps the symbolic status/category names used by the domain
// model to the small integer codes persisted in SQLite, per axis.
package status

import "fmt"

// Domain is one independent code axis.
type Domain string

const (
	ProductStatus  Domain = "product status"
	OrderStatus    Domain = "order status"
	PaymentStatus  Domain = "payment status"
	ShippingStatus Domain = "shipping status"
	Currency       Domain = "currency"
	DeliveryMethod Domain = "delivery method"
)

type table struct {
	symbols []string // index 0 == code 1
	// fallback is returned when decoding a code outside the known range.
	// Empty means the domain is optional and unknown codes decode to absent.
	fallback string
}

var registry = map[Domain]table{
	ProductStatus:  {symbols: []string{"ACTIVE", "SOLD_OUT", "DELETED", "PENDING_REVIEW", "ARCHIVED"}, fallback: "ACTIVE"},
	OrderStatus:    {symbols: []string{"CREATED", "PROCESSING", "COMPLETED", "CANCELLED"}, fallback: "CREATED"},
	PaymentStatus:  {symbols: []string{"PENDING", "COMPLETED", "FAILED", "REFUNDED"}, fallback: "PENDING"},
	ShippingStatus: {symbols: []string{"DIGITAL", "AWAITING_SHIPMENT", "IN_TRANSIT", "DELIVERED"}, fallback: "DIGITAL"},
	Currency:       {symbols: []string{"ETH", "BTC", "USDT", "BRL"}, fallback: "BRL"},
	DeliveryMethod: {symbols: []string{"DIGITAL_LINK", "PHYSICAL_SHIPPING", "PICKUP"}},
}

// Code encodes a symbol to its persisted integer. Unknown symbols are an
// error; callers surface it as a validation failure rather than writing a
// default code.
func Code(d Domain, symbol string) (int, error) {
	t, ok := registry[d]
	if !ok {
		return 0, fmt.Errorf("unknown status domain %q", d)
	}
	for i, s := range t.symbols {
		if s == symbol {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", d, symbol)
}

// Symbol decodes a persisted integer. Codes outside the known range decode to
// the domain's default symbol; for optional domains (delivery method) they
// decode to "". The round trip is intentionally lossy for unknown codes.
func Symbol(d Domain, code int) string {
	t, ok := registry[d]
	if !ok {
		return ""
	}
	if code < 1 || code > len(t.symbols) {
		return t.fallback
	}
	return t.symbols[code-1]
}

// Known reports whether symbol is a member of the domain.
func Known(d Domain, symbol string) bool {
	_, err := Code(d, symbol)
	return err == nil
}
