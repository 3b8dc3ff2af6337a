package dbhelper

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/ray-remotestate/restroadmin/database"
	"github.com/ray-remotestate/restroadmin/models"
)

type txKey struct{}

// OrderStore is the order-scoped storage gateway used by the services package.
// Inside InTx every call made with the callback's context runs on the same transaction.
type OrderStore struct {
	db *sql.DB
}

func NewOrderStore(db *sql.DB) *OrderStore {
	return &OrderStore{db: db}
}

func (s *OrderStore) querier(ctx context.Context) Querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return s.db
}

// InTx runs fn in a transaction. Nested calls reuse the outer transaction.
func (s *OrderStore) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}
	err := database.Tx(ctx, s.db, func(tx *sql.Tx) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
	return classify("order", err)
}

func (s *OrderStore) InsertOrder(ctx context.Context, o *models.Order) error {
	return InsertOrder(ctx, s.querier(ctx), o)
}

func (s *OrderStore) InsertOrderItems(ctx context.Context, orderID uuid.UUID, items []models.OrderItemInput) ([]models.OrderItem, error) {
	return InsertOrderItems(ctx, s.querier(ctx), orderID, items)
}

func (s *OrderStore) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return GetOrder(ctx, s.querier(ctx), id)
}

func (s *OrderStore) GetOrderItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	return GetOrderItems(ctx, s.querier(ctx), orderID)
}

func (s *OrderStore) ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, error) {
	return ListOrders(ctx, s.querier(ctx), filter)
}

func (s *OrderStore) UpdateOrder(ctx context.Context, id uuid.UUID, patch models.OrderPatch) (*models.Order, error) {
	return UpdateOrder(ctx, s.querier(ctx), id, patch)
}

func (s *OrderStore) DeleteOrder(ctx context.Context, id uuid.UUID) (int64, error) {
	return DeleteOrder(ctx, s.querier(ctx), id)
}

func (s *OrderStore) ListOrderAmounts(ctx context.Context, window models.StatsWindow) ([]models.OrderAmount, error) {
	return ListOrderAmounts(ctx, s.querier(ctx), window)
}

// Ping reports whether the database is reachable.
func (s *OrderStore) Ping(ctx context.Context) error {
	return classify("database", s.db.PingContext(ctx))
}
