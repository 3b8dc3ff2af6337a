package services

import (
	"context"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ray-remotestate/restroadmin/models"
)

// memStore keeps orders in memory and behaves like the postgres store for
// the things the services rely on: references, cascades and rollback.
type memStore struct {
	mu          sync.Mutex
	restaurants map[uuid.UUID]string
	menuItems   map[uuid.UUID]string
	orders      map[uuid.UUID]models.Order
	items       []models.OrderItem
	now         time.Time
}

func newMemStore() *memStore {
	return &memStore{
		restaurants: map[uuid.UUID]string{},
		menuItems:   map[uuid.UUID]string{},
		orders:      map[uuid.UUID]models.Order{},
		now:         time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) addRestaurant(name string) uuid.UUID {
	id := uuid.New()
	m.restaurants[id] = name
	return id
}

func (m *memStore) addMenuItem(name string) uuid.UUID {
	id := uuid.New()
	m.menuItems[id] = name
	return id
}

func (m *memStore) tick() time.Time {
	m.now = m.now.Add(time.Second)
	return m.now
}

func (m *memStore) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	orders := maps.Clone(m.orders)
	items := slices.Clone(m.items)
	m.mu.Unlock()

	if err := fn(ctx); err != nil {
		m.mu.Lock()
		m.orders, m.items = orders, items
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *memStore) InsertOrder(_ context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.restaurants[o.RestaurantID]; !ok {
		return models.NewError(models.KindReference, "restaurant does not exist")
	}
	o.ID = uuid.New()
	o.CreatedAt = m.tick()
	o.UpdatedAt = o.CreatedAt
	m.orders[o.ID] = *o
	return nil
}

func (m *memStore) InsertOrderItems(_ context.Context, orderID uuid.UUID, in []models.OrderItemInput) ([]models.OrderItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[orderID]; !ok {
		return nil, models.NewError(models.KindReference, "order does not exist")
	}
	out := make([]models.OrderItem, 0, len(in))
	for _, it := range in {
		if _, ok := m.menuItems[it.MenuItemID]; !ok {
			return nil, models.NewError(models.KindReference, "menu item does not exist")
		}
		out = append(out, models.OrderItem{
			ID:         uuid.New(),
			OrderID:    orderID,
			MenuItemID: it.MenuItemID,
			Quantity:   it.Quantity,
			Price:      *it.Price,
			Subtotal:   it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))),
			CreatedAt:  m.now,
		})
	}
	m.items = append(m.items, out...)
	return out, nil
}

func (m *memStore) GetOrder(_ context.Context, id uuid.UUID) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, models.NewError(models.KindNotFound, "order not found")
	}
	o.RestaurantName = m.restaurants[o.RestaurantID]
	return &o, nil
}

func (m *memStore) GetOrderItems(_ context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.OrderItem
	for _, it := range m.items {
		if it.OrderID == orderID {
			it.MenuItemName = m.menuItems[it.MenuItemID]
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *memStore) ListOrders(_ context.Context, f models.OrderFilter) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Order
	for _, o := range m.orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.RestaurantID != uuid.Nil && o.RestaurantID != f.RestaurantID {
			continue
		}
		o.RestaurantName = m.restaurants[o.RestaurantID]
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Offset > 0 {
		out = out[min(f.Offset, len(out)):]
	}
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *memStore) UpdateOrder(_ context.Context, id uuid.UUID, p models.OrderPatch) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, models.NewError(models.KindNotFound, "order not found")
	}
	if p.RestaurantID != nil {
		if _, ok := m.restaurants[*p.RestaurantID]; !ok {
			return nil, models.NewError(models.KindReference, "restaurant does not exist")
		}
		o.RestaurantID = *p.RestaurantID
	}
	set(&o.CustomerName, p.CustomerName)
	set(&o.CustomerPhone, p.CustomerPhone)
	set(&o.CustomerAddress, p.CustomerAddress)
	set(&o.Status, p.Status)
	set(&o.TotalAmount, p.TotalAmount)
	set(&o.DeliveryFee, p.DeliveryFee)
	set(&o.PaymentMethod, p.PaymentMethod)
	set(&o.PaymentStatus, p.PaymentStatus)
	if p.Notes != nil {
		o.Notes = p.Notes
	}
	o.UpdatedAt = m.tick()
	m.orders[id] = o
	o.RestaurantName = m.restaurants[o.RestaurantID]
	return &o, nil
}

func (m *memStore) DeleteOrder(_ context.Context, id uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[id]; !ok {
		return 0, nil
	}
	delete(m.orders, id)
	m.items = slices.DeleteFunc(m.items, func(it models.OrderItem) bool { return it.OrderID == id })
	return 1, nil
}

func (m *memStore) ListOrderAmounts(_ context.Context, w models.StatsWindow) ([]models.OrderAmount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.OrderAmount
	for _, o := range m.orders {
		if !w.From.IsZero() && o.CreatedAt.Before(w.From) {
			continue
		}
		if !w.To.IsZero() && !o.CreatedAt.Before(w.To) {
			continue
		}
		out = append(out, models.OrderAmount{Status: o.Status, TotalAmount: o.TotalAmount, CreatedAt: o.CreatedAt})
	}
	return out, nil
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
