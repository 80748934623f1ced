package services_test

import (
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"silkmarket/internal/domain"
	"silkmarket/internal/repos"
	"silkmarket/internal/services"
)

const sellerID = "9ade7b3e-e2e6-4a3b-b79b-62f6d855adf6"

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	// one connection so ":memory:" is shared and writes serialize
	db.SetMaxOpenConns(1)
	schema := `
	CREATE TABLE products(id TEXT PRIMARY KEY, title TEXT, description TEXT, seller_id TEXT,
	  price NUMERIC, currency INTEGER, category TEXT, tags_json TEXT, images_json TEXT,
	  quantity INTEGER, is_digital INTEGER, delivery_method INTEGER, estimated_delivery TEXT,
	  status INTEGER, view_count INTEGER DEFAULT 0, sold_count INTEGER DEFAULT 0,
	  created_at TEXT DEFAULT CURRENT_TIMESTAMP, updated_at TEXT);
	CREATE TABLE orders(id TEXT PRIMARY KEY, product_id TEXT, buyer_id TEXT, seller_id TEXT,
	  quantity INTEGER, price NUMERIC, payment_method TEXT, shipping_address TEXT, notes TEXT,
	  status INTEGER, payment_status INTEGER, shipping_status INTEGER,
	  created_at TEXT DEFAULT CURRENT_TIMESTAMP, updated_at TEXT);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatal(err)
	}
	return db
}

func productSvc(t *testing.T) (*services.ProductService, *sqlx.DB) {
	t.Helper()
	db := memdb(t)
	return services.NewProductService(repos.NewProductRepo(db)), db
}

func validProduct() domain.ProductInput {
	return domain.ProductInput{
		Title:       "Go Concurrency Course",
		Description: "Video course on goroutines and channels",
		SellerID:    sellerID,
		Price:       149.90,
		Category:    "Cursos Digitais",
		Tags:        []string{"go", "course"},
		IsDigital:   true,
	}
}

func TestProductCreateAndFindByID(t *testing.T) {
	svc, _ := productSvc(t)

	created, err := svc.Create(validProduct())
	if err != nil {
		t.Fatal(err)
	}
	if created.ID == "" || created.CreatedAt == "" {
		t.Fatalf("missing generated fields: %+v", created)
	}
	if created.Status != "ACTIVE" {
		t.Fatalf("want status ACTIVE, got %s", created.Status)
	}
	if created.Currency != "BRL" {
		t.Fatalf("want default currency BRL, got %s", created.Currency)
	}
	if created.Quantity != 1 {
		t.Fatalf("want default quantity 1, got %d", created.Quantity)
	}

	got, err := svc.FindByID(created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != created.Title || got.Description != created.Description ||
		got.Price != created.Price || got.SellerID != sellerID {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "go" {
		t.Fatalf("tags mismatch: %+v", got.Tags)
	}
}

func TestProductCreateValidation(t *testing.T) {
	svc, _ := productSvc(t)

	cases := []struct {
		name string
		mut  func(*domain.ProductInput)
	}{
		{"zero price", func(in *domain.ProductInput) { in.Price = 0 }},
		{"negative price", func(in *domain.ProductInput) { in.Price = -5 }},
		{"empty title", func(in *domain.ProductInput) { in.Title = "" }},
		{"empty description", func(in *domain.ProductInput) { in.Description = "" }},
		{"missing seller", func(in *domain.ProductInput) { in.SellerID = "" }},
		{"malformed seller", func(in *domain.ProductInput) { in.SellerID = "abc" }},
		{"unknown currency", func(in *domain.ProductInput) { in.Currency = "USD" }},
	}
	for _, tc := range cases {
		in := validProduct()
		tc.mut(&in)
		if _, err := svc.Create(in); !domain.IsValidation(err) {
			t.Fatalf("%s: want ValidationError, got %v", tc.name, err)
		}
	}

	// a one-cent price is fine
	in := validProduct()
	in.Price = 0.01
	if _, err := svc.Create(in); err != nil {
		t.Fatalf("price=0.01 should pass: %v", err)
	}
}

func TestProductFindAllFilters(t *testing.T) {
	svc, db := productSvc(t)

	mk := func(title, desc, category, currency, createdAt string) {
		in := validProduct()
		in.Title = title
		in.Description = desc
		in.Category = category
		in.Currency = currency
		p, err := svc.Create(in)
		if err != nil {
			t.Fatal(err)
		}
		// spread creation times so ordering is deterministic
		if _, err := db.Exec(`UPDATE products SET created_at=? WHERE id=?`, createdAt, p.ID); err != nil {
			t.Fatal(err)
		}
	}
	mk("Keyboard", "Mechanical with FOO keycaps", "Eletrônicos", "BTC", "2025-01-01 10:00:00")
	mk("Painting", "Oil on canvas", "Arte e Design", "BRL", "2025-02-01 10:00:00")
	mk("Course", "Learn testing", "Cursos Digitais", "BRL", "2025-03-01 10:00:00")

	// search matches the description case-insensitively even when the title does not
	out, err := svc.FindAll(domain.ProductFilter{Search: "foo"})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].Title != "Keyboard" {
		t.Fatalf("search=foo: %+v", out)
	}

	// AND-combined category + currency
	out, err = svc.FindAll(domain.ProductFilter{Category: "Arte e Design", Currency: "BRL"})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].Title != "Painting" {
		t.Fatalf("category+currency: %+v", out)
	}

	// no filters: everything, newest first
	out, err = svc.FindAll(domain.ProductFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 || out[0].Title != "Course" || out[2].Title != "Keyboard" {
		t.Fatalf("ordering: %+v", out)
	}

	// zero matches is an empty slice, not an error
	out, err = svc.FindAll(domain.ProductFilter{Search: "nonexistent"})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 0 {
		t.Fatalf("want empty, got %+v", out)
	}

	// unknown currency filter is a validation failure
	if _, err := svc.FindAll(domain.ProductFilter{Currency: "USD"}); !domain.IsValidation(err) {
		t.Fatalf("want ValidationError, got %v", err)
	}
}

func TestProductFindAllSkipsInactive(t *testing.T) {
	svc, db := productSvc(t)

	p, err := svc.Create(validProduct())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`UPDATE products SET status=5 WHERE id=?`, p.ID); err != nil {
		t.Fatal(err)
	}

	out, err := svc.FindAll(domain.ProductFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 0 {
		t.Fatalf("archived product should not list: %+v", out)
	}
}

func TestProductFindByIDNotFound(t *testing.T) {
	svc, _ := productSvc(t)
	if _, err := svc.FindByID("no-such-id"); !domain.IsNotFound(err) {
		t.Fatalf("want NotFoundError, got %v", err)
	}
}

func TestIncrementViewCount(t *testing.T) {
	svc, _ := productSvc(t)
	p, err := svc.Create(validProduct())
	if err != nil {
		t.Fatal(err)
	}

	n, err := svc.IncrementViewCount(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("want 1, got %d", n)
	}
	if n, _ = svc.IncrementViewCount(p.ID); n != 2 {
		t.Fatalf("want 2, got %d", n)
	}

	if _, err := svc.IncrementViewCount("no-such-id"); !domain.IsNotFound(err) {
		t.Fatalf("want NotFoundError, got %v", err)
	}
}

func TestIncrementViewCountConcurrent(t *testing.T) {
	svc, _ := productSvc(t)
	p, err := svc.Create(validProduct())
	if err != nil {
		t.Fatal(err)
	}

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.IncrementViewCount(p.ID); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}

	got, err := svc.FindByID(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.ViewCount != workers {
		t.Fatalf("want %d views, got %d", workers, got.ViewCount)
	}
}
