package model

import "github.com/shopspring/decimal"

type PaymentMethod string

const (
	PaymentPrepaid PaymentMethod = "PREPAID"
	PaymentCOD     PaymentMethod = "COD"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentPrepaid || m == PaymentCOD
}

// OrderStatus is the fixed set an admin can move an order through.
type OrderStatus string

const (
	OrderPendingPayment OrderStatus = "pending_payment"
	OrderProcessing     OrderStatus = "processing"
	OrderShipped        OrderStatus = "shipped"
	OrderOutForDelivery OrderStatus = "out_for_delivery"
	OrderDelivered      OrderStatus = "delivered"
	OrderCancelled      OrderStatus = "cancelled"
)

var OrderStatuses = []OrderStatus{
	OrderPendingPayment,
	OrderProcessing,
	OrderShipped,
	OrderOutForDelivery,
	OrderDelivered,
	OrderCancelled,
}

func (s OrderStatus) Valid() bool {
	for _, status := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// InTransit reports whether tracking fields apply.
func (s OrderStatus) InTransit() bool {
	return s == OrderShipped || s == OrderOutForDelivery
}

const (
	PaymentStatusPending = "pending"
	PaymentStatusSuccess = "success"
	PaymentStatusFailed  = "failed"
)

type OrderItem struct {
	ProductID   string          `json:"product_id"`
	VariantID   string          `json:"variant_id"`
	ProductName string          `json:"product_name"`
	VariantSize string          `json:"variant_size"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Total       decimal.Decimal `json:"total"`
}

type CouponApplied struct {
	CouponID string          `json:"coupon_id"`
	Code     string          `json:"code"`
	Type     CouponType      `json:"type"`
	Value    decimal.Decimal `json:"value"`
	Discount decimal.Decimal `json:"discount"`
}

type OrderHistory struct {
	Status         string  `json:"status"`
	Timestamp      string  `json:"timestamp"`
	Note           *string `json:"note,omitempty"`
	TrackingNumber *string `json:"tracking_number,omitempty"`
}

type Order struct {
	ID                 string          `json:"id"`
	OrderNumber        string          `json:"order_number"`
	UserID             string          `json:"user_id"`
	Items              []OrderItem     `json:"items"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	Discount           decimal.Decimal `json:"discount"`
	CouponApplied      *CouponApplied  `json:"coupon_applied,omitempty"`
	ShippingFee        decimal.Decimal `json:"shipping_fee"`
	Total              decimal.Decimal `json:"total"`
	ShippingAddress    Address         `json:"shipping_address"`
	PaymentMethod      string          `json:"payment_method"`
	PaymentStatus      string          `json:"payment_status"`
	OrderStatus        string          `json:"order_status"`
	TrackingNumber     *string         `json:"tracking_number,omitempty"`
	TrackingURL        *string         `json:"tracking_url,omitempty"`
	CourierName        *string         `json:"courier_name,omitempty"`
	EstimatedDelivery  *string         `json:"estimated_delivery,omitempty"`
	DeliveredAt        *string         `json:"delivered_at,omitempty"`
	CancelledAt        *string         `json:"cancelled_at,omitempty"`
	CancellationReason *string         `json:"cancellation_reason,omitempty"`
	InvoiceURL         *string         `json:"invoice_url,omitempty"`
	CreatedAt          string          `json:"created_at"`
	UpdatedAt          string          `json:"updated_at"`
	OrderHistory       []OrderHistory  `json:"order_history,omitempty"`
}

// PaymentSucceeded is true once the gateway has confirmed the order.
func (o *Order) PaymentSucceeded() bool {
	return o.PaymentStatus == PaymentStatusSuccess || o.PaymentMethod == string(PaymentCOD)
}

type InitiateOrderRequest struct {
	PaymentMethod PaymentMethod `json:"payment_method"`
	CouponCode    *string       `json:"coupon_code"`
}

type InitiateOrderResponse struct {
	OrderID     string `json:"order_id"`
	OrderNumber string `json:"order_number,omitempty"`
	CheckoutURL string `json:"checkout_url,omitempty"`
}

type CreateOrderRequest struct {
	Items      []LineRef `json:"items"`
	AddressID  string    `json:"address_id"`
	CouponCode *string   `json:"coupon_code"`
}

type CreateOrderResponse struct {
	OrderID        string          `json:"order_id"`
	GatewayOrderID string          `json:"razorpay_order_id"`
	Amount         decimal.Decimal `json:"amount"`
}

type VerifyPaymentRequest struct {
	OrderID   string `json:"order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

type VerifyPaymentResponse struct {
	Message string `json:"message"`
	OrderID string `json:"order_id"`
}

type OrderFilter struct {
	Status        string
	PaymentStatus string
}

// OrderStatusUpdate is what the admin status modal submits.
type OrderStatusUpdate struct {
	Status             OrderStatus `json:"status"`
	OrderStatus        string      `json:"order_status"`
	TrackingNumber     string      `json:"tracking_number,omitempty"`
	CourierName        string      `json:"courier_name,omitempty"`
	TrackingURL        string      `json:"tracking_url,omitempty"`
	EstimatedDelivery  string      `json:"estimated_delivery,omitempty"`
	CancellationReason string      `json:"cancellation_reason,omitempty"`
	Note               string      `json:"note,omitempty"`
}

type OrderStats struct {
	Period         string             `json:"period"`
	TotalOrders    int                `json:"total_orders"`
	OrderGrowth    float64            `json:"order_growth"`
	TotalRevenue   decimal.Decimal    `json:"total_revenue"`
	RevenueGrowth  float64            `json:"revenue_growth"`
	DeliveryRate   float64            `json:"delivery_rate"`
	PaymentMethods PaymentMethodStats `json:"payment_methods"`
	OrderStatus    map[string]int     `json:"order_status"`
	DailySales     []DailySales       `json:"daily_sales"`
}

type PaymentMethodStats struct {
	COD               int     `json:"cod"`
	Prepaid           int     `json:"prepaid"`
	CODPercentage     float64 `json:"cod_percentage"`
	PrepaidPercentage float64 `json:"prepaid_percentage"`
}

type DailySales struct {
	Date   string          `json:"date"`
	Sales  decimal.Decimal `json:"sales"`
	Orders int             `json:"orders"`
}
