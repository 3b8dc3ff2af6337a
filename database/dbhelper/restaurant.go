package dbhelper

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ray-remotestate/restroadmin/models"
)

const restaurantColumns = `id, name, description, address, phone, is_active, created_at, updated_at`

func scanRestaurant(row rowScanner) (*models.Restaurant, error) {
	var r models.Restaurant
	if err := row.Scan(&r.ID, &r.Name, &r.Description, &r.Address, &r.Phone, &r.IsActive, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

func CreateRestaurant(ctx context.Context, q Querier, in models.RestaurantInput) (*models.Restaurant, error) {
	isActive := true
	if in.IsActive != nil {
		isActive = *in.IsActive
	}
	row := q.QueryRowContext(ctx, `
		INSERT INTO restaurants (name, description, address, phone, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+restaurantColumns,
		deref(in.Name), deref(in.Description), deref(in.Address), deref(in.Phone), isActive)
	r, err := scanRestaurant(row)
	if err != nil {
		return nil, classify("restaurant", err)
	}
	return r, nil
}

func GetRestaurant(ctx context.Context, q Querier, id uuid.UUID) (*models.Restaurant, error) {
	r, err := scanRestaurant(q.QueryRowContext(ctx, `SELECT `+restaurantColumns+` FROM restaurants WHERE id = $1`, id))
	if err != nil {
		return nil, classify("restaurant", err)
	}
	return r, nil
}

func ListRestaurants(ctx context.Context, q Querier) ([]models.Restaurant, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+restaurantColumns+` FROM restaurants ORDER BY created_at DESC`)
	if err != nil {
		return nil, classify("restaurant", err)
	}
	defer rows.Close()

	restaurants := make([]models.Restaurant, 0)
	for rows.Next() {
		r, err := scanRestaurant(rows)
		if err != nil {
			return nil, classify("restaurant", err)
		}
		restaurants = append(restaurants, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("restaurant", err)
	}
	return restaurants, nil
}

func UpdateRestaurant(ctx context.Context, q Querier, id uuid.UUID, in models.RestaurantInput) (*models.Restaurant, error) {
	var (
		sets []string
		args []any
	)
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if in.Name != nil {
		set("name", *in.Name)
	}
	if in.Description != nil {
		set("description", *in.Description)
	}
	if in.Address != nil {
		set("address", *in.Address)
	}
	if in.Phone != nil {
		set("phone", *in.Phone)
	}
	if in.IsActive != nil {
		set("is_active", *in.IsActive)
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	row := q.QueryRowContext(ctx, fmt.Sprintf(`UPDATE restaurants SET %s WHERE id = $%d RETURNING `+restaurantColumns,
		strings.Join(sets, ", "), len(args)), args...)
	r, err := scanRestaurant(row)
	if err != nil {
		return nil, classify("restaurant", err)
	}
	return r, nil
}

// DeleteRestaurant removes a restaurant and its menu. Restaurants with orders cannot be deleted.
func DeleteRestaurant(ctx context.Context, q Querier, id uuid.UUID) error {
	err := deleteByID(ctx, q, "restaurants", "restaurant", id)
	if errors.Is(err, models.ErrReference) {
		return &models.Error{Kind: models.KindConstraint, Message: "restaurant has orders and cannot be deleted", Err: err}
	}
	return err
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
