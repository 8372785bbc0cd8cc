package domain

import (
	"errors"
	"time"
)

// ErrNotFound is returned by repositories when the requested row does not exist.
var ErrNotFound = errors.New("not found")

const (
	OrderStatusPlaced    = "placed"
	OrderStatusScheduled = "scheduled"

	PaymentStatusUnpaid  = "unpaid"
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

type MenuOption struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type MenuItem struct {
	ID           int          `json:"id"`
	RestaurantID int          `json:"restaurant_id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Price        float64      `json:"price"`
	ImageURL     string       `json:"image_url"`
	IsAvailable  bool         `json:"is_available"`
	Options      []MenuOption `json:"options,omitempty"`
}

type CartItem struct {
	ID                  string       `json:"id"`
	MenuItem            MenuItem     `json:"menuItem"`
	Quantity            int          `json:"quantity"`
	SpecialInstructions string       `json:"specialInstructions,omitempty"`
	SelectedOptions     []MenuOption `json:"selectedOptions,omitempty"`
}

// UnitPrice is the item price plus every selected option.
func (i CartItem) UnitPrice() float64 {
	price := i.MenuItem.Price
	for _, opt := range i.SelectedOptions {
		price += opt.Price
	}
	return price
}

type CartState struct {
	Items      []CartItem `json:"items"`
	TotalPrice float64    `json:"totalPrice"`
	TotalItems int        `json:"totalItems"`
}

type Order struct {
	ID             int         `json:"id"`
	UserID         string      `json:"user_id"`
	RestaurantID   int         `json:"restaurant_id"`
	TotalAmount    float64     `json:"total_amount"`
	Status         string      `json:"status"`
	PaymentStatus  string      `json:"payment_status"`
	PaymentOrderID string      `json:"payment_order_id,omitempty"`
	GroupOrderID   string      `json:"group_order_id,omitempty"`
	ScheduledFor   *time.Time  `json:"scheduled_for,omitempty"`
	QRCodeURL      string      `json:"qr_code_url,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	Items          []OrderItem `json:"items"`
}

type OrderItem struct {
	MenuItemID          int     `json:"menu_item_id"`
	Name                string  `json:"name"`
	Quantity            int     `json:"quantity"`
	UnitPrice           float64 `json:"unit_price"`
	SpecialInstructions string  `json:"special_instructions,omitempty"`
	Options             string  `json:"options,omitempty"`
}

type GroupOrder struct {
	ID     string  `json:"id"`
	Orders []Order `json:"orders"`
	Total  float64 `json:"total"`
}

type CheckoutRequest struct {
	PaymentOrderID string     `json:"payment_order_id"`
	ScheduledFor   *time.Time `json:"scheduled_for"`
	GroupOrderID   string     `json:"group_order_id"`
}

type OrderEvent struct {
	Type         string    `json:"type"`
	OrderID      int       `json:"order_id"`
	UserID       string    `json:"user_id"`
	RestaurantID int       `json:"restaurant_id"`
	TotalAmount  float64   `json:"total_amount"`
	Timestamp    time.Time `json:"timestamp"`
}

type AddCartItemRequest struct {
	MenuItemID          int    `json:"menu_item_id"`
	Quantity            int    `json:"quantity"`
	SpecialInstructions string `json:"special_instructions"`
	OptionIDs           []int  `json:"option_ids"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type UpdateInstructionsRequest struct {
	SpecialInstructions string `json:"special_instructions"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
