package repos

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"silkmarket/internal/domain"
	"silkmarket/internal/status"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

// productRow mirrors the products table; integer codes are decoded to symbols
// at this boundary and never leave the package.
type productRow struct {
	ID                string  `db:"id"`
	Title             string  `db:"title"`
	Description       string  `db:"description"`
	SellerID          string  `db:"seller_id"`
	Price             float64 `db:"price"`
	Currency          int     `db:"currency"`
	Category          string  `db:"category"`
	TagsJSON          string  `db:"tags_json"`
	ImagesJSON        string  `db:"images_json"`
	Quantity          int     `db:"quantity"`
	IsDigital         bool    `db:"is_digital"`
	DeliveryMethod    *int    `db:"delivery_method"`
	EstimatedDelivery *string `db:"estimated_delivery"`
	Status            int     `db:"status"`
	ViewCount         int     `db:"view_count"`
	SoldCount         int     `db:"sold_count"`
	CreatedAt         string  `db:"created_at"`
	UpdatedAt         string  `db:"updated_at"`
}

const productCols = `
    id, title, description, seller_id, price, currency,
    COALESCE(category,'') AS category,
    COALESCE(tags_json,'[]') AS tags_json,
    COALESCE(images_json,'[]') AS images_json,
    quantity, is_digital, delivery_method, estimated_delivery,
    status, view_count, sold_count,
    created_at, COALESCE(updated_at,'') AS updated_at`

func (r productRow) decode() domain.Product {
	p := domain.Product{
		ID:                r.ID,
		Title:             r.Title,
		Description:       r.Description,
		SellerID:          r.SellerID,
		Price:             r.Price,
		Currency:          status.Symbol(status.Currency, r.Currency),
		Category:          r.Category,
		Tags:              decodeList(r.TagsJSON),
		Images:            decodeList(r.ImagesJSON),
		Quantity:          r.Quantity,
		IsDigital:         r.IsDigital,
		EstimatedDelivery: r.EstimatedDelivery,
		Status:            status.Symbol(status.ProductStatus, r.Status),
		ViewCount:         r.ViewCount,
		SoldCount:         r.SoldCount,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
	if r.DeliveryMethod != nil {
		if s := status.Symbol(status.DeliveryMethod, *r.DeliveryMethod); s != "" {
			p.DeliveryMethod = &s
		}
	}
	return p
}

func decodeList(s string) []string {
	out := []string{}
	_ = json.Unmarshal([]byte(s), &out)
	return out
}

func encodeList(ss []string) string {
	if ss == nil {
		ss = []string{}
	}
	b, _ := json.Marshal(ss)
	return string(b)
}

// Create persists a new listing with a generated id and status ACTIVE.
// Symbols in the input must already be validated; encoding failures here mean
// the service let a bad symbol through.
func (r *ProductRepo) Create(in domain.ProductInput) (domain.Product, error) {
	currency, err := status.Code(status.Currency, in.Currency)
	if err != nil {
		return domain.Product{}, err
	}
	var delivery *int
	if in.DeliveryMethod != nil {
		code, err := status.Code(status.DeliveryMethod, *in.DeliveryMethod)
		if err != nil {
			return domain.Product{}, err
		}
		delivery = &code
	}
	active, _ := status.Code(status.ProductStatus, "ACTIVE")

	id := uuid.NewString()
	now := time.Now().UTC().Format("2006-01-02 15:04:05")
	_, err = r.db.Exec(`
	  INSERT INTO products
	    (id, title, description, seller_id, price, currency, category, tags_json, images_json,
	     quantity, is_digital, delivery_method, estimated_delivery, status, created_at, updated_at)
	  VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
	`, id, in.Title, in.Description, in.SellerID, in.Price, currency, in.Category,
		encodeList(in.Tags), encodeList(in.Images),
		in.Quantity, in.IsDigital, delivery, in.EstimatedDelivery, active, now, now)
	if err != nil {
		return domain.Product{}, err
	}
	return r.Get(id)
}

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var row productRow
	err := r.db.Get(&row, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	if err != nil {
		return domain.Product{}, err
	}
	return row.decode(), nil
}

// FindAll lists ACTIVE products newest first. Filters are AND-combined;
// search matches title or description case-insensitively, currency must
// already be encoded to its code by the caller.
func (r *ProductRepo) FindAll(f domain.ProductFilter, currencyCode int) ([]domain.Product, error) {
	where := `status = 1`
	args := []any{}
	if f.Search != "" {
		where += ` AND (LOWER(title) LIKE ? OR LOWER(description) LIKE ?)`
		pat := "%" + strings.ToLower(f.Search) + "%"
		args = append(args, pat, pat)
	}
	if f.Category != "" {
		where += ` AND category = ?`
		args = append(args, f.Category)
	}
	if f.Currency != "" {
		where += ` AND currency = ?`
		args = append(args, currencyCode)
	}

	var rows []productRow
	err := r.db.Select(&rows, `
	  SELECT `+productCols+`
	  FROM products
	  WHERE `+where+`
	  ORDER BY created_at DESC`, args...)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.decode())
	}
	return out, nil
}

// IncrementViews atomically bumps view_count and returns the new value.
// sql.ErrNoRows doubles as the existence check.
func (r *ProductRepo) IncrementViews(id string) (int, error) {
	var n int
	err := r.db.Get(&n, `
	  UPDATE products
	  SET view_count = view_count + 1, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ?
	  RETURNING view_count
	`, id)
	return n, err
}
