package handler

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"
	"spice-storefront/internal/model"
	"spice-storefront/internal/service"

	"github.com/labstack/echo/v4"
)

var pageTemplate = template.Must(template.New("page").Parse(`
	<!DOCTYPE html>
	<html>
	<head>
		<meta charset="utf-8">
		<title>{{.Title}}</title>
		<style>
			body {
				font-family: Arial, sans-serif;
				text-align: center;
				margin-top: 80px;
			}
			.countdown {
				font-size: 24px;
				font-weight: bold;
			}
		</style>
	</head>
	<body>
		<h2>{{.Heading}}</h2>
		{{if .Order}}<p>Order <strong>{{.Order.OrderNumber}}</strong> &middot; total ₹{{.Order.Total.StringFixed 2}}</p>{{end}}
		<p>{{.Message}}</p>
		<p>Redirecting in <span class="countdown" id="countdown">{{.Seconds}}</span> seconds…</p>

		<script>
			let seconds = {{.Seconds}};
			const el = document.getElementById("countdown");

			const timer = setInterval(function () {
				seconds--;
				el.textContent = seconds;

				if (seconds <= 0) {
					clearInterval(timer);
					window.location.href = {{.RedirectTo}};
				}
			}, 1000);
		</script>
	</body>
	</html>
`))

type page struct {
	Title      string
	Heading    string
	Message    string
	Order      *model.Order
	Seconds    int
	RedirectTo string
}

func thankYouPage(order *model.Order) page {
	return page{
		Title:      "Order Confirmed",
		Heading:    "Thank you for your order",
		Message:    "Your order is confirmed. We will email you when it ships.",
		Order:      order,
		Seconds:    10,
		RedirectTo: "/account/orders",
	}
}

func paymentFailedPage(order *model.Order) page {
	return page{
		Title:      "Payment Failed",
		Heading:    "Payment failed",
		Message:    "We could not confirm your payment. No amount was captured; you can try again from checkout.",
		Order:      order,
		Seconds:    15,
		RedirectTo: "/checkout",
	}
}

type PageHandler struct {
	checkoutService service.CheckoutService
}

func NewPageHandler(checkoutService service.CheckoutService) *PageHandler {
	return &PageHandler{
		checkoutService: checkoutService,
	}
}

// PaymentReturn is where the gateway sends the shopper back. The order's
// payment status decides which page is shown.
func (h *PageHandler) PaymentReturn(c echo.Context) error {
	orderID := c.QueryParam("order_id")
	if orderID == "" {
		return c.String(http.StatusBadRequest, "missing order id")
	}

	res, err := h.checkoutService.ResolvePaymentReturn(c.Request().Context(), orderID)
	if err != nil {
		slog.Warn("resolve payment return", "order_id", orderID, "error", err)
		return render(c, http.StatusOK, paymentFailedPage(nil))
	}
	if res.Succeeded {
		return render(c, http.StatusOK, thankYouPage(res.Order))
	}
	return render(c, http.StatusOK, paymentFailedPage(res.Order))
}

func (h *PageHandler) OrderSuccess(c echo.Context) error {
	return render(c, http.StatusOK, thankYouPage(h.lookup(c)))
}

func (h *PageHandler) PaymentFailed(c echo.Context) error {
	return render(c, http.StatusOK, paymentFailedPage(h.lookup(c)))
}

// lookup is best effort; the pages render without order details.
func (h *PageHandler) lookup(c echo.Context) *model.Order {
	res, err := h.checkoutService.ResolvePaymentReturn(c.Request().Context(), c.Param("id"))
	if err != nil {
		slog.Warn("load order for page", "order_id", c.Param("id"), "error", err)
		return nil
	}
	return res.Order
}

func render(c echo.Context, status int, p page) error {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, p); err != nil {
		return err
	}
	return c.HTML(status, buf.String())
}
