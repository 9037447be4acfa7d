package domain

import (
	"time"
)

// DeliveryAddress is captured on the order at creation time and never
// updated afterwards.
type DeliveryAddress struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Street string `json:"street"`
	City   string `json:"city"`
	Zip    string `json:"zip"`
	Phone  string `json:"phone"`
}

// OrderItem freezes the unit price as submitted at order time; later
// product price changes never touch it.
type OrderItem struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	DeliveryAddress DeliveryAddress `json:"deliveryAddress"`
	OrderItems      []OrderItem     `json:"orderItems"`
	IsShipped       bool            `json:"isShipped"`
	TotalPrice      float64         `json:"totalPrice"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// IncomingOrderItem is a cart line as the client submits it. The price
// is client-supplied and becomes the price of record for the line.
type IncomingOrderItem struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// CreateOrderRequest carries the checkout payload. Field shapes are
// enforced by the order validation schemas, not by binding tags, so the
// failure messages keep their fixed order: address, items, user id.
type CreateOrderRequest struct {
	Address    DeliveryAddress     `json:"address"`
	OrderItems []IncomingOrderItem `json:"orderItems"`
	UserID     string              `json:"userId"`
}
