package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Restaurant struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Address     string    `db:"address" json:"address"`
	Phone       string    `db:"phone" json:"phone"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type RestaurantInput struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description"`
	Address     *string `json:"address"`
	Phone       *string `json:"phone" validate:"omitempty,max=32"`
	IsActive    *bool   `json:"is_active"`
}

type MenuItem struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	RestaurantID uuid.UUID       `db:"restaurant_id" json:"restaurant_id"`
	Name         string          `db:"name" json:"name"`
	Description  string          `db:"description" json:"description"`
	Category     string          `db:"category" json:"category"`
	Price        decimal.Decimal `db:"price" json:"price"`
	IsAvailable  bool            `db:"is_available" json:"is_available"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

type MenuItemInput struct {
	RestaurantID *uuid.UUID       `json:"restaurant_id"`
	Name         *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description  *string          `json:"description"`
	Category     *string          `json:"category" validate:"omitempty,max=100"`
	Price        *decimal.Decimal `json:"price"`
	IsAvailable  *bool            `json:"is_available"`
}
