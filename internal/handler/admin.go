package handler

import (
	"net/http"
	"spice-storefront/internal/dto"
	"spice-storefront/internal/model"
	"spice-storefront/internal/service"

	"github.com/labstack/echo/v4"
)

type AdminHandler struct {
	adminService service.AdminService
}

func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

func (h *AdminHandler) Dashboard(c echo.Context) error {
	dashboard, err := h.adminService.Dashboard(c.Request().Context(), c.QueryParam("period"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dashboard)
}

func (h *AdminHandler) Settings(c echo.Context) error {
	settings, err := h.adminService.Settings(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, settings)
}

// -------- products --------

func (h *AdminHandler) ListProducts(c echo.Context) error {
	products, err := h.adminService.ListProducts(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

func (h *AdminHandler) GetProduct(c echo.Context) error {
	product, err := h.adminService.GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

func (h *AdminHandler) CreateProduct(c echo.Context) error {
	var req service.ProductDraft
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	product, err := h.adminService.CreateProduct(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, product)
}

func (h *AdminHandler) UpdateProduct(c echo.Context) error {
	var req model.ProductPatch
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	product, err := h.adminService.UpdateProduct(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

func (h *AdminHandler) ToggleProduct(c echo.Context) error {
	active, err := h.adminService.ToggleProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, &dto.ToggleResponse{Active: active})
}

func (h *AdminHandler) DeleteProduct(c echo.Context) error {
	confirmed, err := confirmParam(c)
	if err != nil {
		return err
	}
	if err := h.adminService.ForceDeleteProduct(c.Request().Context(), c.Param("id"), confirmed); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) UploadImage(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing file")
	}
	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable file")
	}
	defer src.Close()

	ctx := c.Request().Context()
	if productID := c.Param("id"); productID != "" {
		product, err := h.adminService.ReplaceProductImage(ctx, productID, file.Filename, src)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, product)
	}

	url, err := h.adminService.UploadImage(ctx, file.Filename, src)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, &dto.ImageUploadResponse{URL: url})
}

// -------- variants --------

func (h *AdminHandler) ListVariants(c echo.Context) error {
	variants, err := h.adminService.ListVariants(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, variants)
}

func (h *AdminHandler) CreateVariant(c echo.Context) error {
	var req model.Variant
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	variant, err := h.adminService.CreateVariant(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, variant)
}

func (h *AdminHandler) UpdateVariant(c echo.Context) error {
	var req model.Variant
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	variant, err := h.adminService.UpdateVariant(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, variant)
}

func (h *AdminHandler) ToggleVariant(c echo.Context) error {
	active, err := h.adminService.ToggleVariant(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, &dto.ToggleResponse{Active: active})
}

func (h *AdminHandler) ToggleVariantStock(c echo.Context) error {
	inStock, err := h.adminService.ToggleVariantStock(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, &dto.StockResponse{InStock: inStock})
}

// -------- coupons --------

func (h *AdminHandler) ListCoupons(c echo.Context) error {
	coupons, err := h.adminService.ListCoupons(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, coupons)
}

func (h *AdminHandler) CreateCoupon(c echo.Context) error {
	var req model.Coupon
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	req.ID = ""

	coupon, err := h.adminService.SaveCoupon(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, coupon)
}

func (h *AdminHandler) UpdateCoupon(c echo.Context) error {
	var req model.Coupon
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	req.ID = c.Param("id")

	coupon, err := h.adminService.SaveCoupon(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, coupon)
}

func (h *AdminHandler) DeleteCoupon(c echo.Context) error {
	var permanent, confirmed bool
	err := echo.QueryParamsBinder(c).
		Bool("permanent", &permanent).
		Bool("confirm", &confirmed).
		BindError()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "permanent and confirm must be booleans")
	}

	if err := h.adminService.DeleteCoupon(c.Request().Context(), c.Param("id"), permanent, confirmed); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) ToggleCoupon(c echo.Context) error {
	active, err := h.adminService.ToggleCoupon(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, &dto.ToggleResponse{Active: active})
}

// -------- orders --------

func (h *AdminHandler) ListOrders(c echo.Context) error {
	orders, err := h.adminService.ListOrders(c.Request().Context(), model.OrderFilter{
		Status:        c.QueryParam("status"),
		PaymentStatus: c.QueryParam("payment_status"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *AdminHandler) UpdateOrderStatus(c echo.Context) error {
	var req model.OrderStatusUpdate
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	if err := h.adminService.UpdateOrderStatus(c.Request().Context(), c.Param("id"), req); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// -------- delivery --------

func (h *AdminHandler) DeliveryStates(c echo.Context) error {
	states, err := h.adminService.DeliveryStates(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, &dto.DeliveryStatesRequest{EnabledStates: states})
}

func (h *AdminHandler) SaveDeliveryStates(c echo.Context) error {
	var req dto.DeliveryStatesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	states, err := h.adminService.SaveDeliveryStates(c.Request().Context(), req.EnabledStates)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, &dto.DeliveryStatesRequest{EnabledStates: states})
}

func (h *AdminHandler) SearchStates(c echo.Context) error {
	return c.JSON(http.StatusOK, h.adminService.SearchStates(c.QueryParam("q")))
}
