package handlers

import (
	"silkmarket/internal/config"
	"silkmarket/internal/repos"
	"silkmarket/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	ProductAPI *ProductAPI
	OrderAPI   *OrderAPI
	Pages      *PageHandler
	Admin      *AdminHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService) *Deps {
	prodRepo := repos.NewProductRepo(db)
	orderRepo := repos.NewOrderRepo(db)

	prodSvc := services.NewProductService(prodRepo)
	orderSvc := services.NewOrderService(orderRepo)

	return &Deps{
		ProductAPI: &ProductAPI{Products: prodSvc},
		OrderAPI:   &OrderAPI{Orders: orderSvc},
		Pages:      &PageHandler{Products: prodSvc, Orders: orderSvc},
		Admin:      &AdminHandler{Orders: orderSvc, Repo: orderRepo},
	}
}
