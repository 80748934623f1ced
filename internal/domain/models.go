package domain

// Product is the catalog record as exposed to callers. Status, currency and
// delivery method are symbolic; the integer wire codes stay inside repos.
type Product struct {
	ID                string   `json:"productId"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	SellerID          string   `json:"sellerId"`
	Price             float64  `json:"price"`
	Currency          string   `json:"currency"` // ETH | BTC | USDT | BRL
	Category          string   `json:"category"`
	Tags              []string `json:"tags"`
	Images            []string `json:"images"`
	Quantity          int      `json:"quantity"`
	IsDigital         bool     `json:"isDigital"`
	DeliveryMethod    *string  `json:"deliveryMethod"` // DIGITAL_LINK | PHYSICAL_SHIPPING | PICKUP
	EstimatedDelivery *string  `json:"estimatedDelivery"`
	Status            string   `json:"status"` // ACTIVE | SOLD_OUT | DELETED | PENDING_REVIEW | ARCHIVED
	ViewCount         int      `json:"viewCount"`
	SoldCount         int      `json:"soldCount"`
	CreatedAt         string   `json:"createdAt"`
	UpdatedAt         string   `json:"updatedAt"`
}

type ProductInput struct {
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	SellerID          string   `json:"sellerId"`
	Price             float64  `json:"price"`
	Currency          string   `json:"currency"`
	Category          string   `json:"category"`
	Tags              []string `json:"tags"`
	Images            []string `json:"images"`
	Quantity          int      `json:"quantity"`
	IsDigital         bool     `json:"isDigital"`
	DeliveryMethod    *string  `json:"deliveryMethod"`
	EstimatedDelivery *string  `json:"estimatedDelivery"`
}

// ProductFilter holds the AND-combined listing filters; empty fields impose
// no constraint.
type ProductFilter struct {
	Search   string
	Category string
	Currency string
}

// Order is a single-product purchase. Price is the total line price, not the
// unit price.
type Order struct {
	ID              string  `json:"orderId"`
	ProductID       string  `json:"productId"`
	BuyerID         string  `json:"buyerId"`
	SellerID        string  `json:"sellerId"`
	Quantity        int     `json:"quantity"`
	Price           float64 `json:"price"`
	PaymentMethod   string  `json:"paymentMethod"` // PIX | CREDIT_CARD | CRYPTO | BOLETO
	ShippingAddress *string `json:"shippingAddress"`
	Notes           *string `json:"notes"`
	Status          string  `json:"status"`         // CREATED | PROCESSING | COMPLETED | CANCELLED
	PaymentStatus   string  `json:"paymentStatus"`  // PENDING | COMPLETED | FAILED | REFUNDED
	ShippingStatus  string  `json:"shippingStatus"` // DIGITAL | AWAITING_SHIPMENT | IN_TRANSIT | DELIVERED
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

type OrderInput struct {
	ProductID       string  `json:"productId"`
	BuyerID         string  `json:"buyerId"`
	SellerID        string  `json:"sellerId"`
	Quantity        int     `json:"quantity"`
	Price           float64 `json:"price"`
	PaymentMethod   string  `json:"paymentMethod"`
	ShippingAddress *string `json:"shippingAddress"`
	Notes           *string `json:"notes"`
	ShippingStatus  string  `json:"shippingStatus"` // optional; DIGITAL when empty
}

// OrderStatusUpdate carries the tri-state status change; empty fields keep the
// order's current value.
type OrderStatusUpdate struct {
	Status         string `json:"status"`
	PaymentStatus  string `json:"paymentStatus"`
	ShippingStatus string `json:"shippingStatus"`
}
