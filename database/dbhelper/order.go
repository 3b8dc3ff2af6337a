package dbhelper

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ray-remotestate/restroadmin/models"
)

const orderColumns = `
	o.id, o.restaurant_id, COALESCE(r.name, ''), o.customer_name, o.customer_phone, o.customer_address,
	o.status, o.total_amount, o.delivery_fee, o.payment_method, o.payment_status, o.notes,
	o.created_at, o.updated_at`

func scanOrder(row rowScanner) (*models.Order, error) {
	var o models.Order
	err := row.Scan(&o.ID, &o.RestaurantID, &o.RestaurantName, &o.CustomerName, &o.CustomerPhone,
		&o.CustomerAddress, &o.Status, &o.TotalAmount, &o.DeliveryFee, &o.PaymentMethod,
		&o.PaymentStatus, &o.Notes, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// InsertOrder writes the header and fills in the generated id and timestamps.
func InsertOrder(ctx context.Context, q Querier, o *models.Order) error {
	err := q.QueryRowContext(ctx, `
		INSERT INTO orders (restaurant_id, customer_name, customer_phone, customer_address, status,
			total_amount, delivery_fee, payment_method, payment_status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`,
		o.RestaurantID, o.CustomerName, o.CustomerPhone, o.CustomerAddress, o.Status,
		o.TotalAmount, o.DeliveryFee, o.PaymentMethod, o.PaymentStatus, o.Notes).
		Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	return classify("order", err)
}

// InsertOrderItems writes all items of an order with a single multi-row insert.
func InsertOrderItems(ctx context.Context, q Querier, orderID uuid.UUID, items []models.OrderItemInput) ([]models.OrderItem, error) {
	if len(items) == 0 {
		return nil, nil
	}

	values := make([]string, 0, len(items))
	args := make([]any, 0, len(items)*4)
	for i, item := range items {
		n := i * 4
		values = append(values, fmt.Sprintf("($%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4))
		args = append(args, orderID, item.MenuItemID, item.Quantity, item.Price)
	}

	rows, err := q.QueryContext(ctx, `
		INSERT INTO order_items (order_id, menu_item_id, quantity, price)
		VALUES `+strings.Join(values, ", ")+`
		RETURNING id, order_id, menu_item_id, quantity, price, subtotal, created_at`, args...)
	if err != nil {
		return nil, classify("order item", err)
	}
	defer rows.Close()

	created := make([]models.OrderItem, 0, len(items))
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.MenuItemID, &it.Quantity, &it.Price, &it.Subtotal, &it.CreatedAt); err != nil {
			return nil, classify("order item", err)
		}
		created = append(created, it)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("order item", err)
	}
	return created, nil
}

func GetOrder(ctx context.Context, q Querier, id uuid.UUID) (*models.Order, error) {
	row := q.QueryRowContext(ctx, `
		SELECT`+orderColumns+`
		FROM orders o
		LEFT JOIN restaurants r ON r.id = o.restaurant_id
		WHERE o.id = $1`, id)
	o, err := scanOrder(row)
	if err != nil {
		return nil, classify("order", err)
	}
	return o, nil
}

// GetOrderItems returns the items of an order with the current menu item name.
// Price and subtotal are the values stored when the order was placed.
func GetOrderItems(ctx context.Context, q Querier, orderID uuid.UUID) ([]models.OrderItem, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT oi.id, oi.order_id, oi.menu_item_id, COALESCE(mi.name, ''), oi.quantity, oi.price,
			oi.subtotal, oi.created_at
		FROM order_items oi
		LEFT JOIN menu_items mi ON mi.id = oi.menu_item_id
		WHERE oi.order_id = $1
		ORDER BY oi.created_at, oi.id`, orderID)
	if err != nil {
		return nil, classify("order item", err)
	}
	defer rows.Close()

	items := make([]models.OrderItem, 0)
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.MenuItemID, &it.MenuItemName, &it.Quantity,
			&it.Price, &it.Subtotal, &it.CreatedAt); err != nil {
			return nil, classify("order item", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("order item", err)
	}
	return items, nil
}

// ListOrders returns headers matching every set field of the filter, newest first.
// A zero Limit means no limit.
func ListOrders(ctx context.Context, q Querier, filter models.OrderFilter) ([]models.Order, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("o.status = $%d", len(args)))
	}
	if filter.RestaurantID != uuid.Nil {
		args = append(args, filter.RestaurantID)
		conds = append(conds, fmt.Sprintf("o.restaurant_id = $%d", len(args)))
	}

	query := `
		SELECT` + orderColumns + `
		FROM orders o
		LEFT JOIN restaurants r ON r.id = o.restaurant_id`
	if len(conds) > 0 {
		query += "\n\t\tWHERE " + strings.Join(conds, " AND ")
	}
	query += "\n\t\tORDER BY o.created_at DESC, o.id"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify("order", err)
	}
	defer rows.Close()

	orders := make([]models.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, classify("order", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("order", err)
	}
	return orders, nil
}

// UpdateOrder applies the non-nil fields of patch and always refreshes updated_at.
func UpdateOrder(ctx context.Context, q Querier, id uuid.UUID, patch models.OrderPatch) (*models.Order, error) {
	var (
		sets []string
		args []any
	)
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.RestaurantID != nil {
		set("restaurant_id", *patch.RestaurantID)
	}
	if patch.CustomerName != nil {
		set("customer_name", *patch.CustomerName)
	}
	if patch.CustomerPhone != nil {
		set("customer_phone", *patch.CustomerPhone)
	}
	if patch.CustomerAddress != nil {
		set("customer_address", *patch.CustomerAddress)
	}
	if patch.Status != nil {
		set("status", *patch.Status)
	}
	if patch.TotalAmount != nil {
		set("total_amount", *patch.TotalAmount)
	}
	if patch.DeliveryFee != nil {
		set("delivery_fee", *patch.DeliveryFee)
	}
	if patch.PaymentMethod != nil {
		set("payment_method", *patch.PaymentMethod)
	}
	if patch.PaymentStatus != nil {
		set("payment_status", *patch.PaymentStatus)
	}
	if patch.Notes != nil {
		set("notes", *patch.Notes)
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	row := q.QueryRowContext(ctx, fmt.Sprintf(`
		WITH o AS (
			UPDATE orders SET %s
			WHERE id = $%d
			RETURNING *
		)
		SELECT`+orderColumns+`
		FROM o
		LEFT JOIN restaurants r ON r.id = o.restaurant_id`, strings.Join(sets, ", "), len(args)), args...)
	o, err := scanOrder(row)
	if err != nil {
		return nil, classify("order", err)
	}
	return o, nil
}

// DeleteOrder removes the header; the schema cascades the delete to its items.
func DeleteOrder(ctx context.Context, q Querier, id uuid.UUID) (int64, error) {
	res, err := q.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return 0, classify("order", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, classify("order", err)
	}
	return n, nil
}

// ListOrderAmounts reads the projection the stats summary aggregates.
// Zero bounds of the window are left open.
func ListOrderAmounts(ctx context.Context, q Querier, window models.StatsWindow) ([]models.OrderAmount, error) {
	var (
		conds []string
		args  []any
	)
	if !window.From.IsZero() {
		args = append(args, window.From)
		conds = append(conds, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if !window.To.IsZero() {
		args = append(args, window.To)
		conds = append(conds, fmt.Sprintf("created_at < $%d", len(args)))
	}

	query := `SELECT status, total_amount, created_at FROM orders`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify("order", err)
	}
	defer rows.Close()

	amounts := make([]models.OrderAmount, 0)
	for rows.Next() {
		var a models.OrderAmount
		if err := rows.Scan(&a.Status, &a.TotalAmount, &a.CreatedAt); err != nil {
			return nil, classify("order", err)
		}
		amounts = append(amounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("order", err)
	}
	return amounts, nil
}
