package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/ray-remotestate/restroadmin/models"
)

// OrderStore is the storage the order service needs. Calls made with the
// context handed to the InTx callback run in that transaction.
type OrderStore interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
	InsertOrder(ctx context.Context, o *models.Order) error
	InsertOrderItems(ctx context.Context, orderID uuid.UUID, items []models.OrderItemInput) ([]models.OrderItem, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetOrderItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error)
	ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, error)
	UpdateOrder(ctx context.Context, id uuid.UUID, patch models.OrderPatch) (*models.Order, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) (int64, error)
}

type AmountStore interface {
	ListOrderAmounts(ctx context.Context, window models.StatsWindow) ([]models.OrderAmount, error)
}
