package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// SQLite allows a single writer; one pooled connection also keeps
	// ":memory:" databases shared across the pool.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed demo sellers and listings if DB is empty (idempotent; safe to run every start)
	if err := seedUsers(db); err != nil {
		return nil, err
	}
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
-- Products. currency/delivery_method/status hold small integer codes;
-- internal/status owns the symbol mapping.
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT NOT NULL,
  seller_id TEXT NOT NULL,
  price NUMERIC NOT NULL CHECK (price > 0),
  currency INTEGER NOT NULL DEFAULT 4,
  category TEXT,
  tags_json TEXT,
  images_json TEXT,
  quantity INTEGER NOT NULL DEFAULT 1 CHECK (quantity >= 0),
  is_digital INTEGER NOT NULL DEFAULT 0,
  delivery_method INTEGER,
  estimated_delivery TEXT,
  status INTEGER NOT NULL DEFAULT 1,
  view_count INTEGER NOT NULL DEFAULT 0 CHECK (view_count >= 0),
  sold_count INTEGER NOT NULL DEFAULT 0 CHECK (sold_count >= 0),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_seller     ON products(seller_id);
CREATE INDEX IF NOT EXISTS idx_products_category   ON products(category);
CREATE INDEX IF NOT EXISTS idx_products_status     ON products(status);
CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at);

-- Orders. buyer_id/seller_id/product_id are opaque UUID-shaped ids; they are
-- deliberately not foreign keys (orders outlive catalog rows).
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  buyer_id TEXT NOT NULL,
  seller_id TEXT NOT NULL,
  quantity INTEGER NOT NULL CHECK (quantity > 0),
  price NUMERIC NOT NULL CHECK (price > 0),
  payment_method TEXT NOT NULL,
  shipping_address TEXT,
  notes TEXT,
  status INTEGER NOT NULL DEFAULT 1,
  payment_status INTEGER NOT NULL DEFAULT 1,
  shipping_status INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_orders_buyer      ON orders(buyer_id);
CREATE INDEX IF NOT EXISTS idx_orders_seller     ON orders(seller_id);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);

-- Users & Sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('USER','ADMIN')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
`
	_, err := db.Exec(schema)
	return err
}

// Seed seller ids are stable UUIDs so seeded listings stay idempotent.
const (
	seedSellerMarina = "9ade7b3e-e2e6-4a3b-b79b-62f6d855adf6"
	seedSellerRafael = "5f0c1b4a-8d2e-4f6a-9c3b-7e1d2a4b6c8d"
)

// seedUsers ensures two seller USERs and one ADMIN exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, Role, Hash string
	}
	mk := func(id, email, name, role, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return u{ID: id, Email: email, Name: name, Role: role, Hash: string(h)}
	}

	users := []u{
		mk(seedSellerMarina, "marina@silkmarket.test", "Marina", "USER", "Passw0rd!"),
		mk(seedSellerRafael, "rafael@silkmarket.test", "Rafael", "USER", "Passw0rd!"),
		mk("a31f5c77-1d9b-4b0e-8f23-6c4d5e7a9b01", "admin@silkmarket.test", "Admin", "ADMIN", "Passw0rd!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,name,password_hash,role)
			VALUES(?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Email, x.Name, x.Hash, x.Role); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo listings")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO products
	  (id, title, description, seller_id, price, currency, category, tags_json, images_json,
	   quantity, is_digital, delivery_method, status)
	VALUES
	  ('1c9f2a6e-3b5d-47e8-9a1c-2d4f6b8e0a3c',
	   'Go Concurrency Course', 'Self-paced video course on goroutines, channels and pipelines.',
	   '`+seedSellerMarina+`', 149.90, 4, 'Cursos Digitais',
	   '["go","concurrency","course"]', '["https://cdn.silkmarket.test/courses/go-conc.jpg"]',
	   100, 1, 1, 1),
	  ('7e4b8d2f-6a1c-49e3-b5d7-8f0a2c4e6b9d',
	   'Mechanical Keyboard 60%', 'Hot-swappable 60% board, brown switches, PBT caps.',
	   '`+seedSellerRafael+`', 0.012, 2, 'Eletrônicos',
	   '["keyboard","mechanical"]', '["https://cdn.silkmarket.test/kb/60.jpg"]',
	   5, 0, 2, 1),
	  ('3a6d9f1b-8c2e-4d7a-a9b3-1e5c7f9d2b4a',
	   'Pixel Art Commission', 'Custom 64x64 pixel art portrait, delivered as PNG.',
	   '`+seedSellerMarina+`', 80.00, 4, 'Arte e Design',
	   '["pixel-art","commission"]', '[]',
	   10, 1, 1, 1)`)

	return tx.Commit()
}
