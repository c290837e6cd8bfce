package service

import (
	"context"
	"fmt"
	"log/slog"
	"spice-storefront/internal/model"
	"strings"
)

// backendOrderStatus is the vocabulary the order service stores.
var backendOrderStatus = map[model.OrderStatus]string{
	model.OrderPendingPayment: "CREATED",
	model.OrderProcessing:     "PLACED",
	model.OrderShipped:        "SHIPPED",
	model.OrderOutForDelivery: "OUT_FOR_DELIVERY",
	model.OrderDelivered:      "DELIVERED",
	model.OrderCancelled:      "CANCELLED",
}

func (s *adminServiceImpl) ListOrders(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	if filter.Status != "" && !model.OrderStatus(filter.Status).Valid() {
		return nil, invalid("status", fmt.Sprintf("unknown order status %q", filter.Status))
	}
	orders, err := s.adminApi.ListAdminOrders(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if orders == nil {
		orders = []model.Order{}
	}
	return orders, nil
}

func (s *adminServiceImpl) UpdateOrderStatus(ctx context.Context, orderID string, update model.OrderStatusUpdate) error {
	payload, err := normalizeStatusUpdate(update)
	if err != nil {
		return err
	}
	if err := s.adminApi.UpdateOrderStatus(ctx, orderID, payload); err != nil {
		return fmt.Errorf("update order %s: %w", orderID, err)
	}
	slog.Info("order status updated", "order_id", orderID, "status", payload.Status, "order_status", payload.OrderStatus)
	return nil
}

// normalizeStatusUpdate maps the admin status onto the stored vocabulary and
// drops fields that do not belong to it.
func normalizeStatusUpdate(u model.OrderStatusUpdate) (model.OrderStatusUpdate, error) {
	u.Status = model.OrderStatus(strings.ToLower(strings.TrimSpace(string(u.Status))))
	mapped, ok := backendOrderStatus[u.Status]
	if !ok {
		return u, invalid("status", fmt.Sprintf("unknown order status %q", u.Status))
	}
	u.OrderStatus = mapped

	if !u.Status.InTransit() {
		u.TrackingNumber = ""
		u.CourierName = ""
		u.TrackingURL = ""
		u.EstimatedDelivery = ""
	}
	if u.Status != model.OrderCancelled {
		u.CancellationReason = ""
	}
	u.Note = strings.TrimSpace(u.Note)
	return u, nil
}
