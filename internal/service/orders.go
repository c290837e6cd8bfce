package service

import (
	"context"
	"fmt"
	"spice-storefront/internal/client"
	"spice-storefront/internal/model"
	"strings"
)

type OrderService interface {
	MyOrders(ctx context.Context) ([]model.Order, error)
	Get(ctx context.Context, orderID string) (*model.Order, error)
	Track(ctx context.Context, orderNumber string) (*model.Order, error)
}

type orderServiceImpl struct {
	orderApi client.OrderAPI
	session  SessionService
}

func NewOrderService(orderApi client.OrderAPI, session SessionService) OrderService {
	return &orderServiceImpl{
		orderApi: orderApi,
		session:  session,
	}
}

func (s *orderServiceImpl) MyOrders(ctx context.Context) ([]model.Order, error) {
	if !s.session.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	orders, err := s.orderApi.MyOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list my orders: %w", err)
	}
	if orders == nil {
		orders = []model.Order{}
	}
	return orders, nil
}

func (s *orderServiceImpl) Get(ctx context.Context, orderID string) (*model.Order, error) {
	if !s.session.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	order, err := s.orderApi.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", orderID, err)
	}
	return order, nil
}

// Track works without a session; order numbers are shared with the shopper by email.
func (s *orderServiceImpl) Track(ctx context.Context, orderNumber string) (*model.Order, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return nil, invalid("order_number", "order number is required")
	}
	order, err := s.orderApi.TrackOrder(ctx, orderNumber)
	if err != nil {
		return nil, fmt.Errorf("track order %s: %w", orderNumber, err)
	}
	return order, nil
}
