package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/jmoiron/sqlx"

	"silkmarket/internal/config"
	"silkmarket/internal/domain"
	"silkmarket/internal/http/handlers"
	"silkmarket/internal/repos"
	"silkmarket/internal/services"
)

// newAPIApp boots the JSON API against a seeded in-memory database.
func newAPIApp(t *testing.T) (*fiber.App, *sqlx.DB) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}

	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine, ErrorHandler: handlers.ErrorHandler})
	app.Use(requestid.New())

	deps := handlers.NewDeps(db, config.Config{DBDSN: ":memory:"}, authSvc)
	api := app.Group("/api")
	api.Post("/products", deps.ProductAPI.Create)
	api.Get("/products", deps.ProductAPI.List)
	api.Get("/products/:id", deps.ProductAPI.Get)
	api.Patch("/products/:id/view", deps.ProductAPI.IncrementView)
	api.Post("/orders", deps.OrderAPI.Create)
	api.Get("/orders/buyer/:buyerId", deps.OrderAPI.ListByBuyer)
	api.Get("/orders/seller/:sellerId", deps.OrderAPI.ListBySeller)
	api.Put("/orders/:orderId/status", deps.OrderAPI.UpdateStatus)

	return app, db
}

func postJSON(t *testing.T, app *fiber.App, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	rec := httptest.NewRecorder()
	rec.Code = resp.StatusCode
	data, _ := io.ReadAll(resp.Body)
	rec.Body = bytes.NewBuffer(data)
	return rec
}

func TestProductAPICreateGetView(t *testing.T) {
	app, _ := newAPIApp(t)

	in := domain.ProductInput{
		Title:       "Vintage Film Camera",
		Description: "35mm rangefinder, serviced",
		SellerID:    "9ade7b3e-e2e6-4a3b-b79b-62f6d855adf6",
		Price:       420.00,
		Currency:    "BRL",
		Category:    "Colecionáveis",
	}
	rec := postJSON(t, app, "POST", "/api/products", in)
	if rec.Code != fiber.StatusCreated {
		t.Fatalf("create: want 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	var created domain.Product
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.ID == "" || created.Status != "ACTIVE" {
		t.Fatalf("bad created record: %+v", created)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/api/products/"+created.ID, nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("get: want 200, got %d", resp.StatusCode)
	}
	var got domain.Product
	_ = json.NewDecoder(resp.Body).Decode(&got)
	if got.Title != in.Title || got.ViewCount != 0 {
		t.Fatalf("get mismatch: %+v", got)
	}

	resp, err = app.Test(httptest.NewRequest("PATCH", "/api/products/"+created.ID+"/view", nil))
	if err != nil {
		t.Fatal(err)
	}
	var vc struct {
		ViewCount int `json:"viewCount"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&vc)
	if resp.StatusCode != 200 || vc.ViewCount != 1 {
		t.Fatalf("view: want 200/1, got %d/%d", resp.StatusCode, vc.ViewCount)
	}
}

func TestProductAPIValidationErrors(t *testing.T) {
	app, _ := newAPIApp(t)

	bad := domain.ProductInput{Title: "x", Description: "y", SellerID: "abc", Price: 10}
	rec := postJSON(t, app, "POST", "/api/products", bad)
	if rec.Code != fiber.StatusBadRequest {
		t.Fatalf("bad seller: want 400, got %d", rec.Code)
	}
	var e struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &e)
	if e.Error == "" {
		t.Fatalf("missing error message: %s", rec.Body.String())
	}

	bad = domain.ProductInput{Title: "x", Description: "y", SellerID: "9ade7b3e-e2e6-4a3b-b79b-62f6d855adf6", Price: 0}
	if rec := postJSON(t, app, "POST", "/api/products", bad); rec.Code != fiber.StatusBadRequest {
		t.Fatalf("zero price: want 400, got %d", rec.Code)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/api/products/no-such-id", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("unknown id: want 404, got %d", resp.StatusCode)
	}
}

func TestProductAPISearchMatchesDescription(t *testing.T) {
	app, _ := newAPIApp(t)

	// the seeded course mentions goroutines only in its description
	resp, err := app.Test(httptest.NewRequest("GET", "/api/products?search=GOROUTINES", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	var out []domain.Product
	_ = json.NewDecoder(resp.Body).Decode(&out)
	if len(out) != 1 || out[0].Title != "Go Concurrency Course" {
		t.Fatalf("search result: %+v", out)
	}

	// zero matches is 200 + empty array
	resp, _ = app.Test(httptest.NewRequest("GET", "/api/products?search=zzzzzz", nil))
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != 200 || string(body) != "[]" {
		t.Fatalf("want 200 [], got %d %s", resp.StatusCode, body)
	}
}
