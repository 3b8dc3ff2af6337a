package dbhelper

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ray-remotestate/restroadmin/models"
)

const menuItemColumns = `id, restaurant_id, name, description, category, price, is_available, created_at, updated_at`

func scanMenuItem(row rowScanner) (*models.MenuItem, error) {
	var m models.MenuItem
	err := row.Scan(&m.ID, &m.RestaurantID, &m.Name, &m.Description, &m.Category, &m.Price,
		&m.IsAvailable, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func CreateMenuItem(ctx context.Context, q Querier, in models.MenuItemInput) (*models.MenuItem, error) {
	isAvailable := true
	if in.IsAvailable != nil {
		isAvailable = *in.IsAvailable
	}
	row := q.QueryRowContext(ctx, `
		INSERT INTO menu_items (restaurant_id, name, description, category, price, is_available)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+menuItemColumns,
		deref(in.RestaurantID), deref(in.Name), deref(in.Description), deref(in.Category), deref(in.Price), isAvailable)
	m, err := scanMenuItem(row)
	if err != nil {
		return nil, classify("menu item", err)
	}
	return m, nil
}

func GetMenuItem(ctx context.Context, q Querier, id uuid.UUID) (*models.MenuItem, error) {
	m, err := scanMenuItem(q.QueryRowContext(ctx, `SELECT `+menuItemColumns+` FROM menu_items WHERE id = $1`, id))
	if err != nil {
		return nil, classify("menu item", err)
	}
	return m, nil
}

// ListMenuItems returns every menu item, or only one restaurant's when restaurantID is set.
func ListMenuItems(ctx context.Context, q Querier, restaurantID uuid.UUID) ([]models.MenuItem, error) {
	query := `SELECT ` + menuItemColumns + ` FROM menu_items`
	var args []any
	if restaurantID != uuid.Nil {
		query += ` WHERE restaurant_id = $1`
		args = append(args, restaurantID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify("menu item", err)
	}
	defer rows.Close()

	items := make([]models.MenuItem, 0)
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, classify("menu item", err)
		}
		items = append(items, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("menu item", err)
	}
	return items, nil
}

// UpdateMenuItem changes the menu entry only. Prices already captured on order items are not touched.
func UpdateMenuItem(ctx context.Context, q Querier, id uuid.UUID, in models.MenuItemInput) (*models.MenuItem, error) {
	var (
		sets []string
		args []any
	)
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if in.RestaurantID != nil {
		set("restaurant_id", *in.RestaurantID)
	}
	if in.Name != nil {
		set("name", *in.Name)
	}
	if in.Description != nil {
		set("description", *in.Description)
	}
	if in.Category != nil {
		set("category", *in.Category)
	}
	if in.Price != nil {
		set("price", *in.Price)
	}
	if in.IsAvailable != nil {
		set("is_available", *in.IsAvailable)
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	row := q.QueryRowContext(ctx, fmt.Sprintf(`UPDATE menu_items SET %s WHERE id = $%d RETURNING `+menuItemColumns,
		strings.Join(sets, ", "), len(args)), args...)
	m, err := scanMenuItem(row)
	if err != nil {
		return nil, classify("menu item", err)
	}
	return m, nil
}

// DeleteMenuItem is refused while order items still reference the menu item.
func DeleteMenuItem(ctx context.Context, q Querier, id uuid.UUID) error {
	err := deleteByID(ctx, q, "menu_items", "menu item", id)
	if errors.Is(err, models.ErrReference) {
		return &models.Error{Kind: models.KindConstraint, Message: "menu item is referenced by existing orders", Err: err}
	}
	return err
}
