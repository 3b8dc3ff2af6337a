package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/ray-remotestate/restroadmin/models"
)

type fixture struct {
	store      *memStore
	svc        *OrderService
	hook       *test.Hook
	restaurant uuid.UUID
	pizza      uuid.UUID
	cola       uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger, hook := test.NewNullLogger()
	store := newMemStore()
	return &fixture{
		store:      store,
		svc:        NewOrderService(store, logger),
		hook:       hook,
		restaurant: store.addRestaurant("Luigi's"),
		pizza:      store.addMenuItem("Margherita"),
		cola:       store.addMenuItem("Cola"),
	}
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func (f *fixture) input(total string, items ...models.OrderItemInput) models.CreateOrderInput {
	return models.CreateOrderInput{
		RestaurantID:    f.restaurant,
		CustomerName:    "Ada",
		CustomerPhone:   "+44 20 7946 0000",
		CustomerAddress: "1 Main St",
		TotalAmount:     dec(total),
		Items:           items,
	}
}

func TestCreateOrder_RoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := f.input("31.50",
		models.OrderItemInput{MenuItemID: f.pizza, Quantity: 2, Price: dec("12.50")},
		models.OrderItemInput{MenuItemID: f.cola, Quantity: 3, Price: dec("2.00")},
	)
	created, err := f.svc.CreateOrder(ctx, in)
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatal("expected an id to be assigned")
	}

	got, err := f.svc.GetOrder(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if got.CustomerName != "Ada" || got.RestaurantID != f.restaurant || got.RestaurantName != "Luigi's" {
		t.Errorf("unexpected header: %+v", got.Order)
	}
	if got.Status != models.OrderStatusPending {
		t.Errorf("status = %q, want pending", got.Status)
	}
	if got.PaymentMethod != models.PaymentCash || got.PaymentStatus != models.PaymentPending {
		t.Errorf("payment defaults = %q/%q", got.PaymentMethod, got.PaymentStatus)
	}
	if !got.DeliveryFee.IsZero() {
		t.Errorf("delivery fee = %s, want 0", got.DeliveryFee)
	}
	if !got.TotalAmount.Equal(decimal.RequireFromString("31.50")) {
		t.Errorf("total = %s", got.TotalAmount)
	}
	if len(got.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(got.Items))
	}

	subtotals := map[uuid.UUID]string{f.pizza: "25", f.cola: "6"}
	for _, it := range got.Items {
		if it.OrderID != created.ID {
			t.Errorf("item %s belongs to %s", it.ID, it.OrderID)
		}
		if !it.Subtotal.Equal(decimal.RequireFromString(subtotals[it.MenuItemID])) {
			t.Errorf("subtotal of %s = %s", it.MenuItemName, it.Subtotal)
		}
	}

	if len(f.hook.Entries) != 1 || f.hook.LastEntry().Message != "order created" {
		t.Errorf("expected one 'order created' log entry, got %d", len(f.hook.Entries))
	}
	if f.hook.LastEntry().Data["items"] != 2 {
		t.Errorf("logged items = %v", f.hook.LastEntry().Data["items"])
	}
}

func TestCreateOrder_KeepsExplicitValues(t *testing.T) {
	f := newFixture(t)
	in := f.input("20")
	in.Status = models.OrderStatusPreparing
	in.DeliveryFee = dec("3.5")
	in.PaymentMethod = models.PaymentOnline
	in.PaymentStatus = models.PaymentPaid

	got, err := f.svc.CreateOrder(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if got.Status != models.OrderStatusPreparing || got.PaymentMethod != models.PaymentOnline ||
		got.PaymentStatus != models.PaymentPaid || !got.DeliveryFee.Equal(decimal.RequireFromString("3.5")) {
		t.Errorf("explicit values lost: %+v", got)
	}
}

func TestCreateOrder_WithoutItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateOrder(ctx, f.input("0"))
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	got, err := f.svc.GetOrder(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if got.Items == nil || len(got.Items) != 0 {
		t.Errorf("items = %#v, want empty non-nil slice", got.Items)
	}
}

func TestCreateOrder_MissingMenuItemPersistsNothing(t *testing.T) {
	f := newFixture(t)
	in := f.input("10",
		models.OrderItemInput{MenuItemID: f.pizza, Quantity: 1, Price: dec("10")},
		models.OrderItemInput{MenuItemID: uuid.New(), Quantity: 1, Price: dec("0")},
	)

	_, err := f.svc.CreateOrder(context.Background(), in)
	if !errors.Is(err, models.ErrReference) {
		t.Fatalf("err = %v, want reference error", err)
	}
	if models.MessageOf(err) != "menu item does not exist" {
		t.Errorf("message = %q", models.MessageOf(err))
	}
	if len(f.store.orders) != 0 || len(f.store.items) != 0 {
		t.Errorf("partial write: %d orders, %d items", len(f.store.orders), len(f.store.items))
	}
	if len(f.hook.Entries) != 0 {
		t.Errorf("unexpected log entries on failure")
	}
}

func TestCreateOrder_MissingRestaurant(t *testing.T) {
	f := newFixture(t)
	in := f.input("10")
	in.RestaurantID = uuid.New()

	_, err := f.svc.CreateOrder(context.Background(), in)
	if !errors.Is(err, models.ErrReference) {
		t.Fatalf("err = %v, want reference error", err)
	}
	if len(f.store.orders) != 0 {
		t.Error("order stored for unknown restaurant")
	}
}

func TestCreateOrder_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		mutate func(*models.CreateOrderInput)
		want   []string
	}{
		{
			name:   "missing customer name",
			mutate: func(in *models.CreateOrderInput) { in.CustomerName = "" },
			want:   []string{"customer_name is required"},
		},
		{
			name:   "missing restaurant",
			mutate: func(in *models.CreateOrderInput) { in.RestaurantID = uuid.Nil },
			want:   []string{"restaurant_id is required"},
		},
		{
			name:   "missing total",
			mutate: func(in *models.CreateOrderInput) { in.TotalAmount = nil },
			want:   []string{"total_amount is required"},
		},
		{
			name:   "negative total",
			mutate: func(in *models.CreateOrderInput) { in.TotalAmount = dec("-1") },
			want:   []string{"total_amount must not be negative"},
		},
		{
			name:   "unknown status",
			mutate: func(in *models.CreateOrderInput) { in.Status = "shipped" },
			want:   []string{`invalid status "shipped"`},
		},
		{
			name:   "unknown payment method",
			mutate: func(in *models.CreateOrderInput) { in.PaymentMethod = "cheque" },
			want:   []string{`invalid payment_method "cheque"`},
		},
		{
			name: "bad items",
			mutate: func(in *models.CreateOrderInput) {
				in.Items = []models.OrderItemInput{
					{MenuItemID: f.pizza, Quantity: 0, Price: dec("1")},
					{MenuItemID: f.cola, Quantity: 1},
				}
			},
			want: []string{"items[0].quantity must be greater than 0", "items[1].price is required"},
		},
		{
			name: "several problems at once",
			mutate: func(in *models.CreateOrderInput) {
				in.CustomerPhone = ""
				in.DeliveryFee = dec("-2")
			},
			want: []string{"customer_phone is required", "; ", "delivery_fee must not be negative"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := f.input("10")
			tt.mutate(&in)
			_, err := f.svc.CreateOrder(context.Background(), in)
			if !errors.Is(err, models.ErrValidation) {
				t.Fatalf("err = %v, want validation error", err)
			}
			msg := models.MessageOf(err)
			for _, w := range tt.want {
				if !strings.Contains(msg, w) {
					t.Errorf("message %q does not contain %q", msg, w)
				}
			}
		})
	}
	if len(f.store.orders) != 0 {
		t.Errorf("invalid input stored %d orders", len(f.store.orders))
	}
}

func TestGetOrder_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.GetOrder(context.Background(), uuid.New())
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestListOrders_PendingNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var pending []uuid.UUID
	for _, st := range []models.OrderStatus{"pending", "delivered", "pending", "cancelled", "pending"} {
		in := f.input("5")
		in.Status = st
		o, err := f.svc.CreateOrder(ctx, in)
		if err != nil {
			t.Fatalf("CreateOrder: %v", err)
		}
		if st == models.OrderStatusPending {
			pending = append(pending, o.ID)
		}
	}

	got, err := f.svc.ListOrders(ctx, models.OrderFilter{Status: models.OrderStatusPending})
	if err != nil {
		t.Fatalf("ListOrders: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d orders, want 3", len(got))
	}
	for i, o := range got {
		if want := pending[len(pending)-1-i]; o.ID != want {
			t.Errorf("position %d: got %s, want %s", i, o.ID, want)
		}
		if o.RestaurantName != "Luigi's" {
			t.Errorf("restaurant name = %q", o.RestaurantName)
		}
	}

	page, err := f.svc.ListOrders(ctx, models.OrderFilter{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("ListOrders page: %v", err)
	}
	if len(page) != 2 {
		t.Errorf("page size = %d, want 2", len(page))
	}
}

func TestListOrders_EmptyIsNotNil(t *testing.T) {
	f := newFixture(t)
	got, err := f.svc.ListOrders(context.Background(), models.OrderFilter{RestaurantID: uuid.New()})
	if err != nil {
		t.Fatalf("ListOrders: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("got %#v, want empty slice", got)
	}
}

func TestListOrders_InvalidFilter(t *testing.T) {
	f := newFixture(t)
	for _, filter := range []models.OrderFilter{
		{Status: "shipped"},
		{Limit: -1},
		{Offset: -5},
	} {
		if _, err := f.svc.ListOrders(context.Background(), filter); !errors.Is(err, models.ErrValidation) {
			t.Errorf("filter %+v: err = %v, want validation error", filter, err)
		}
	}
}

func TestUpdateOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.svc.CreateOrder(ctx, f.input("10"))
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	name := "Grace"
	got, err := f.svc.UpdateOrder(ctx, created.ID, models.OrderPatch{CustomerName: &name, DeliveryFee: dec("2.25")})
	if err != nil {
		t.Fatalf("UpdateOrder: %v", err)
	}
	if got.CustomerName != "Grace" || !got.DeliveryFee.Equal(decimal.RequireFromString("2.25")) {
		t.Errorf("patch not applied: %+v", got)
	}
	if got.CustomerPhone != created.CustomerPhone || !got.TotalAmount.Equal(created.TotalAmount) {
		t.Errorf("unpatched fields changed: %+v", got)
	}
	if !got.UpdatedAt.After(created.UpdatedAt) {
		t.Errorf("updated_at not refreshed: %s -> %s", created.UpdatedAt, got.UpdatedAt)
	}
}

func TestUpdateOrder_Rejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.svc.CreateOrder(ctx, f.input("10"))
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	empty := ""
	bad := models.OrderStatus("lost")
	nilID := uuid.Nil
	tests := []struct {
		name  string
		id    uuid.UUID
		patch models.OrderPatch
		want  *models.Error
	}{
		{"empty patch", created.ID, models.OrderPatch{}, models.ErrValidation},
		{"blank customer", created.ID, models.OrderPatch{CustomerName: &empty}, models.ErrValidation},
		{"bad status", created.ID, models.OrderPatch{Status: &bad}, models.ErrValidation},
		{"negative total", created.ID, models.OrderPatch{TotalAmount: dec("-0.01")}, models.ErrValidation},
		{"nil restaurant", created.ID, models.OrderPatch{RestaurantID: &nilID}, models.ErrValidation},
		{"unknown order", uuid.New(), models.OrderPatch{Notes: &empty}, models.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.svc.UpdateOrder(ctx, tt.id, tt.patch); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want.Kind)
			}
		})
	}

	got, err := f.svc.GetOrder(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if !got.UpdatedAt.Equal(created.UpdatedAt) {
		t.Error("rejected updates touched the order")
	}
}

func TestSetStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.svc.CreateOrder(ctx, f.input("10"))
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	tests := []struct {
		name    string
		id      uuid.UUID
		status  models.OrderStatus
		wantErr *models.Error
		wantMsg string
	}{
		{name: "missing", id: created.ID, status: "", wantErr: models.ErrValidation, wantMsg: "Status is required"},
		{name: "outside enum", id: created.ID, status: "shipped", wantErr: models.ErrValidation, wantMsg: `invalid status "shipped"`},
		{name: "unknown order", id: uuid.New(), status: "delivered", wantErr: models.ErrNotFound, wantMsg: "order not found"},
		{name: "backwards transition", id: created.ID, status: "cancelled"},
		{name: "any transition", id: created.ID, status: "pending"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.svc.SetStatus(ctx, tt.id, tt.status)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr.Kind)
				}
				if !strings.Contains(models.MessageOf(err), tt.wantMsg) {
					t.Errorf("message = %q, want %q", models.MessageOf(err), tt.wantMsg)
				}
				return
			}
			if err != nil {
				t.Fatalf("SetStatus: %v", err)
			}
			if got.Status != tt.status {
				t.Errorf("status = %q, want %q", got.Status, tt.status)
			}
		})
	}
}

func TestSetStatus_InvalidLeavesOrderUnchanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.svc.CreateOrder(ctx, f.input("10"))
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if _, err := f.svc.SetStatus(ctx, created.ID, "teleported"); err == nil {
		t.Fatal("expected an error")
	}
	got, err := f.svc.GetOrder(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if got.Status != models.OrderStatusPending {
		t.Errorf("status = %q, want pending", got.Status)
	}
}

func TestDeleteOrder_CascadesItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	keep, err := f.svc.CreateOrder(ctx, f.input("3", models.OrderItemInput{MenuItemID: f.cola, Quantity: 1, Price: dec("3")}))
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	drop, err := f.svc.CreateOrder(ctx, f.input("25", models.OrderItemInput{MenuItemID: f.pizza, Quantity: 2, Price: dec("12.5")}))
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	if err := f.svc.DeleteOrder(ctx, drop.ID); err != nil {
		t.Fatalf("DeleteOrder: %v", err)
	}
	if _, err := f.svc.GetOrder(ctx, drop.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("deleted order still readable: %v", err)
	}
	for _, it := range f.store.items {
		if it.OrderID == drop.ID {
			t.Errorf("item %s survived its order", it.ID)
		}
	}

	rest, err := f.svc.GetOrder(ctx, keep.ID)
	if err != nil || len(rest.Items) != 1 {
		t.Errorf("other order affected: %v, %+v", err, rest)
	}

	if err := f.svc.DeleteOrder(ctx, drop.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("second delete: err = %v, want not found", err)
	}
}

func TestNewOrderService_DefaultLogger(t *testing.T) {
	svc := NewOrderService(newMemStore(), nil)
	if svc.log != logrus.StandardLogger() {
		t.Error("expected the standard logger")
	}
}
