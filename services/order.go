package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ray-remotestate/restroadmin/models"
	"github.com/ray-remotestate/restroadmin/utils"
)

type OrderService struct {
	store OrderStore
	log   logrus.FieldLogger
}

func NewOrderService(store OrderStore, log logrus.FieldLogger) *OrderService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &OrderService{store: store, log: log}
}

// CreateOrder writes the header and all of its items in one transaction.
// Either everything is stored or nothing is.
func (s *OrderService) CreateOrder(ctx context.Context, in models.CreateOrderInput) (*models.Order, error) {
	const op = "create order"
	if err := validateCreateOrder(in); err != nil {
		return nil, models.WithOp(op, err)
	}

	order := newOrder(in)
	err := s.store.InTx(ctx, func(ctx context.Context) error {
		if err := s.store.InsertOrder(ctx, order); err != nil {
			return err
		}
		if len(in.Items) == 0 {
			return nil
		}
		_, err := s.store.InsertOrderItems(ctx, order.ID, in.Items)
		return err
	})
	if err != nil {
		return nil, models.WithOp(op, err)
	}

	s.log.WithFields(logrus.Fields{
		"order_id":      order.ID,
		"restaurant_id": order.RestaurantID,
		"items":         len(in.Items),
	}).Info("order created")
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*models.OrderDetail, error) {
	op := "order " + id.String()
	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return nil, models.WithOp(op, err)
	}
	// header and items are separate reads; a concurrent delete can leave an empty item list
	items, err := s.store.GetOrderItems(ctx, id)
	if err != nil {
		return nil, models.WithOp(op, err)
	}
	if items == nil {
		items = []models.OrderItem{}
	}
	return &models.OrderDetail{Order: *order, Items: items}, nil
}

func (s *OrderService) ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, error) {
	const op = "list orders"
	var p utils.Problems
	if filter.Status != "" && !filter.Status.IsValid() {
		p.Addf("invalid status filter %q, must be one of: %s", filter.Status, statusList())
	}
	if filter.Limit < 0 {
		p.Addf("limit must not be negative")
	}
	if filter.Offset < 0 {
		p.Addf("offset must not be negative")
	}
	if err := p.Err(); err != nil {
		return nil, models.WithOp(op, err)
	}

	orders, err := s.store.ListOrders(ctx, filter)
	if err != nil {
		return nil, models.WithOp(op, err)
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

func (s *OrderService) UpdateOrder(ctx context.Context, id uuid.UUID, patch models.OrderPatch) (*models.Order, error) {
	op := "update order " + id.String()
	if err := validatePatch(patch); err != nil {
		return nil, models.WithOp(op, err)
	}
	order, err := s.store.UpdateOrder(ctx, id, patch)
	if err != nil {
		return nil, models.WithOp(op, err)
	}
	s.log.WithField("order_id", id).Info("order updated")
	return order, nil
}

// SetStatus moves an order to status. Any transition inside the enum is allowed.
func (s *OrderService) SetStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	op := "set status of order " + id.String()
	if status == "" {
		return nil, models.WithOp(op, models.NewError(models.KindValidation, "Status is required"))
	}
	if !status.IsValid() {
		return nil, models.WithOp(op, models.Errorf(models.KindValidation,
			"invalid status %q, must be one of: %s", status, statusList()))
	}

	order, err := s.store.UpdateOrder(ctx, id, models.OrderPatch{Status: &status})
	if err != nil {
		return nil, models.WithOp(op, err)
	}
	s.log.WithFields(logrus.Fields{"order_id": id, "status": status}).Info("order status changed")
	return order, nil
}

// DeleteOrder removes the order; its items go with it.
func (s *OrderService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	op := "delete order " + id.String()
	n, err := s.store.DeleteOrder(ctx, id)
	if err != nil {
		return models.WithOp(op, err)
	}
	if n == 0 {
		return models.WithOp(op, models.NewError(models.KindNotFound, "order not found"))
	}
	s.log.WithField("order_id", id).Info("order deleted")
	return nil
}

func newOrder(in models.CreateOrderInput) *models.Order {
	o := &models.Order{
		RestaurantID:    in.RestaurantID,
		CustomerName:    in.CustomerName,
		CustomerPhone:   in.CustomerPhone,
		CustomerAddress: in.CustomerAddress,
		Status:          models.OrderStatusPending,
		TotalAmount:     *in.TotalAmount,
		DeliveryFee:     decimal.Zero,
		PaymentMethod:   models.PaymentCash,
		PaymentStatus:   models.PaymentPending,
		Notes:           in.Notes,
	}
	if in.Status != "" {
		o.Status = in.Status
	}
	if in.DeliveryFee != nil {
		o.DeliveryFee = *in.DeliveryFee
	}
	if in.PaymentMethod != "" {
		o.PaymentMethod = in.PaymentMethod
	}
	if in.PaymentStatus != "" {
		o.PaymentStatus = in.PaymentStatus
	}
	return o
}

func validateCreateOrder(in models.CreateOrderInput) error {
	var p utils.Problems
	p.Struct(in)

	if in.TotalAmount == nil {
		p.Addf("total_amount is required")
	} else if in.TotalAmount.IsNegative() {
		p.Addf("total_amount must not be negative")
	}
	if in.DeliveryFee != nil && in.DeliveryFee.IsNegative() {
		p.Addf("delivery_fee must not be negative")
	}
	if in.Status != "" && !in.Status.IsValid() {
		p.Addf("invalid status %q, must be one of: %s", in.Status, statusList())
	}
	if in.PaymentMethod != "" && !in.PaymentMethod.IsValid() {
		p.Addf("invalid payment_method %q", in.PaymentMethod)
	}
	if in.PaymentStatus != "" && !in.PaymentStatus.IsValid() {
		p.Addf("invalid payment_status %q", in.PaymentStatus)
	}
	for i, item := range in.Items {
		switch {
		case item.Price == nil:
			p.Addf("items[%d].price is required", i)
		case item.Price.IsNegative():
			p.Addf("items[%d].price must not be negative", i)
		}
	}
	return p.Err()
}

func validatePatch(patch models.OrderPatch) error {
	var p utils.Problems
	if patch.IsEmpty() {
		p.Addf("no fields to update")
		return p.Err()
	}
	p.Struct(patch)

	if patch.RestaurantID != nil && *patch.RestaurantID == uuid.Nil {
		p.Addf("restaurant_id must not be empty")
	}
	if patch.Status != nil && !patch.Status.IsValid() {
		p.Addf("invalid status %q, must be one of: %s", *patch.Status, statusList())
	}
	if patch.TotalAmount != nil && patch.TotalAmount.IsNegative() {
		p.Addf("total_amount must not be negative")
	}
	if patch.DeliveryFee != nil && patch.DeliveryFee.IsNegative() {
		p.Addf("delivery_fee must not be negative")
	}
	if patch.PaymentMethod != nil && !patch.PaymentMethod.IsValid() {
		p.Addf("invalid payment_method %q", *patch.PaymentMethod)
	}
	if patch.PaymentStatus != nil && !patch.PaymentStatus.IsValid() {
		p.Addf("invalid payment_status %q", *patch.PaymentStatus)
	}
	return p.Err()
}

func statusList() string {
	names := make([]string, len(models.OrderStatuses))
	for i, s := range models.OrderStatuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
