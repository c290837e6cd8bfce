package client

import (
	"context"
	"net/url"
	"spice-storefront/internal/model"
)

type OrderAPI interface {
	CreateOrder(ctx context.Context, req model.CreateOrderRequest) (*model.CreateOrderResponse, error)
	InitiateOrder(ctx context.Context, req model.InitiateOrderRequest, idempotencyKey string) (*model.InitiateOrderResponse, error)
	VerifyPayment(ctx context.Context, req model.VerifyPaymentRequest) (*model.VerifyPaymentResponse, error)
	MyOrders(ctx context.Context) ([]model.Order, error)
	GetOrder(ctx context.Context, orderID string) (*model.Order, error)
	TrackOrder(ctx context.Context, orderNumber string) (*model.Order, error)
}

func (c *backendClientImpl) CreateOrder(ctx context.Context, req model.CreateOrderRequest) (*model.CreateOrderResponse, error) {
	var res model.CreateOrderResponse
	if err := c.post(ctx, "/orders/create", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *backendClientImpl) InitiateOrder(ctx context.Context, req model.InitiateOrderRequest, idempotencyKey string) (*model.InitiateOrderResponse, error) {
	var res model.InitiateOrderResponse
	err := c.do(ctx, "POST", "/orders/initiate", nil, req, &res, withHeader("Idempotency-Key", idempotencyKey))
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *backendClientImpl) VerifyPayment(ctx context.Context, req model.VerifyPaymentRequest) (*model.VerifyPaymentResponse, error) {
	var res model.VerifyPaymentResponse
	if err := c.post(ctx, "/orders/verify-payment", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *backendClientImpl) MyOrders(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	if err := c.get(ctx, "/orders/my-orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *backendClientImpl) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	if err := c.get(ctx, "/orders/"+url.PathEscape(orderID), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *backendClientImpl) TrackOrder(ctx context.Context, orderNumber string) (*model.Order, error) {
	var order model.Order
	if err := c.get(ctx, "/orders/track/"+url.PathEscape(orderNumber), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
