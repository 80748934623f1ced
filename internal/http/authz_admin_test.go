package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"silkmarket/internal/config"
	"silkmarket/internal/http/handlers"
	"silkmarket/internal/repos"
	"silkmarket/internal/services"
)

// Admin area is only reachable with an ADMIN session.
func TestAdminOrdersRequiresAdmin(t *testing.T) {
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
	admin := app.Group("/admin", handlers.RequireAdmin(authSvc))
	admin.Get("/orders", deps.Admin.OrdersPage)

	// seeded accounts
	adminUser, err := userRepo.ByEmail("admin@silkmarket.test")
	if err != nil {
		t.Fatal(err)
	}
	seller, err := userRepo.ByEmail("marina@silkmarket.test")
	if err != nil {
		t.Fatal(err)
	}
	if err := userRepo.BindSession("sid-admin", adminUser.ID); err != nil {
		t.Fatal(err)
	}
	if err := userRepo.BindSession("sid-seller", seller.ID); err != nil {
		t.Fatal(err)
	}

	// anonymous -> redirected to login
	resp, err := app.Test(httptest.NewRequest("GET", "/admin/orders", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusFound {
		t.Fatalf("anonymous: want 302, got %d", resp.StatusCode)
	}

	// plain user -> denied
	req := httptest.NewRequest("GET", "/admin/orders", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "sid-seller"})
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("seller: want 403, got %d", resp.StatusCode)
	}

	// admin -> allowed
	req = httptest.NewRequest("GET", "/admin/orders", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "sid-admin"})
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("admin: want 200, got %d", resp.StatusCode)
	}
}
