package handler

import (
	"net/http"
	"spice-storefront/internal/model"
	"spice-storefront/internal/service"

	"github.com/labstack/echo/v4"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

func (h *CatalogHandler) List(c echo.Context) error {
	products, err := h.catalogService.List(c.Request().Context(), model.ProductFilter{
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("search"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

func (h *CatalogHandler) Get(c echo.Context) error {
	product, err := h.catalogService.Get(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}
