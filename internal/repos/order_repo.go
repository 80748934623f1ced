package repos

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"silkmarket/internal/domain"
	"silkmarket/internal/status"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

type orderRow struct {
	ID              string  `db:"id"`
	ProductID       string  `db:"product_id"`
	BuyerID         string  `db:"buyer_id"`
	SellerID        string  `db:"seller_id"`
	Quantity        int     `db:"quantity"`
	Price           float64 `db:"price"`
	PaymentMethod   string  `db:"payment_method"`
	ShippingAddress *string `db:"shipping_address"`
	Notes           *string `db:"notes"`
	Status          int     `db:"status"`
	PaymentStatus   int     `db:"payment_status"`
	ShippingStatus  int     `db:"shipping_status"`
	CreatedAt       string  `db:"created_at"`
	UpdatedAt       string  `db:"updated_at"`
}

const orderCols = `
    id, product_id, buyer_id, seller_id, quantity, price, payment_method,
    shipping_address, notes, status, payment_status, shipping_status,
    created_at, COALESCE(updated_at,'') AS updated_at`

func (r orderRow) decode() domain.Order {
	return domain.Order{
		ID:              r.ID,
		ProductID:       r.ProductID,
		BuyerID:         r.BuyerID,
		SellerID:        r.SellerID,
		Quantity:        r.Quantity,
		Price:           r.Price,
		PaymentMethod:   r.PaymentMethod,
		ShippingAddress: r.ShippingAddress,
		Notes:           r.Notes,
		Status:          status.Symbol(status.OrderStatus, r.Status),
		PaymentStatus:   status.Symbol(status.PaymentStatus, r.PaymentStatus),
		ShippingStatus:  status.Symbol(status.ShippingStatus, r.ShippingStatus),
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

// Create inserts a new order with status CREATED and payment PENDING.
// shippingStatus arrives as a validated symbol (DIGITAL when the caller left
// it out).
func (r *OrderRepo) Create(in domain.OrderInput) (domain.Order, error) {
	shipping, err := status.Code(status.ShippingStatus, in.ShippingStatus)
	if err != nil {
		return domain.Order{}, err
	}
	created, _ := status.Code(status.OrderStatus, "CREATED")
	pending, _ := status.Code(status.PaymentStatus, "PENDING")

	id := uuid.NewString()
	now := time.Now().UTC().Format("2006-01-02 15:04:05")
	_, err = r.db.Exec(`
	  INSERT INTO orders
	    (id, product_id, buyer_id, seller_id, quantity, price, payment_method,
	     shipping_address, notes, status, payment_status, shipping_status, created_at, updated_at)
	  VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)
	`, id, in.ProductID, in.BuyerID, in.SellerID, in.Quantity, in.Price, in.PaymentMethod,
		in.ShippingAddress, in.Notes, created, pending, shipping, now, now)
	if err != nil {
		return domain.Order{}, err
	}
	return r.Get(id)
}

func (r *OrderRepo) Get(id string) (domain.Order, error) {
	var row orderRow
	err := r.db.Get(&row, `SELECT `+orderCols+` FROM orders WHERE id = ?`, id)
	if err != nil {
		return domain.Order{}, err
	}
	return row.decode(), nil
}

func (r *OrderRepo) ListByBuyer(buyerID string) ([]domain.Order, error) {
	return r.list(`buyer_id = ?`, buyerID)
}

func (r *OrderRepo) ListBySeller(sellerID string) ([]domain.Order, error) {
	return r.list(`seller_id = ?`, sellerID)
}

// ListLatest returns the newest orders for the admin dashboard.
func (r *OrderRepo) ListLatest(limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []orderRow
	err := r.db.Select(&rows, `
	  SELECT `+orderCols+` FROM orders
	  ORDER BY datetime(created_at) DESC
	  LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	return decodeOrders(rows), nil
}

func (r *OrderRepo) list(where string, args ...any) ([]domain.Order, error) {
	var rows []orderRow
	err := r.db.Select(&rows, `
	  SELECT `+orderCols+` FROM orders
	  WHERE `+where+`
	  ORDER BY datetime(created_at) DESC`, args...)
	if err != nil {
		return nil, err
	}
	return decodeOrders(rows), nil
}

func decodeOrders(rows []orderRow) []domain.Order {
	out := make([]domain.Order, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.decode())
	}
	return out
}

// UpdateStatus overwrites all three status columns in one statement and
// returns the updated order. Last writer wins; there is no version check.
func (r *OrderRepo) UpdateStatus(id string, statusCode, paymentCode, shippingCode int) (domain.Order, error) {
	res, err := r.db.Exec(`
	  UPDATE orders
	  SET status = ?, payment_status = ?, shipping_status = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ?
	`, statusCode, paymentCode, shippingCode, id)
	if err != nil {
		return domain.Order{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Order{}, sql.ErrNoRows
	}
	return r.Get(id)
}
