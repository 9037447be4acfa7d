package client

import (
	"context"
	"net/http"
	"sync"

	orderdomain "github.com/webbutiken/storefront/internal/order/domain"
)

// CartContext is the ephemeral cart: product id to quantity, browser
// memory only, never persisted server-side.
type CartContext struct {
	mu    sync.RWMutex
	items map[string]int
}

func NewCartContext() *CartContext {
	return &CartContext{items: map[string]int{}}
}

func (c *CartContext) Add(productID string) {
	c.mu.Lock()
	c.items[productID]++
	c.mu.Unlock()
}

// SetQuantity sets the quantity for a product; zero or less removes it.
func (c *CartContext) SetQuantity(productID string, quantity int) {
	c.mu.Lock()
	if quantity <= 0 {
		delete(c.items, productID)
	} else {
		c.items[productID] = quantity
	}
	c.mu.Unlock()
}

func (c *CartContext) Remove(productID string) {
	c.mu.Lock()
	delete(c.items, productID)
	c.mu.Unlock()
}

func (c *CartContext) Clear() {
	c.mu.Lock()
	c.items = map[string]int{}
	c.mu.Unlock()
}

// Quantity is the total number of units across all lines.
func (c *CartContext) Quantity() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	total := 0
	for _, q := range c.items {
		total += q
	}
	return total
}

// Total prices the cart against the product mirror; lines whose product
// is missing from the mirror count as zero.
func (c *CartContext) Total(products *ProductContext) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var total float64
	for id, quantity := range c.items {
		if product, ok := products.Find(id); ok {
			total += product.Price * float64(quantity)
		}
	}
	return total
}

// Lines builds the checkout line items, pricing each from the mirror.
func (c *CartContext) Lines(products *ProductContext) []orderdomain.IncomingOrderItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	lines := make([]orderdomain.IncomingOrderItem, 0, len(c.items))
	for id, quantity := range c.items {
		var price float64
		if product, ok := products.Find(id); ok {
			price = product.Price
		}
		lines = append(lines, orderdomain.IncomingOrderItem{
			ProductID: id,
			Quantity:  quantity,
			Price:     price,
		})
	}
	return lines
}

type createOrderResponse struct {
	Message string            `json:"message"`
	Result  orderdomain.Order `json:"result"`
}

// Checkout submits the cart as an order and clears it on success.
func (c *CartContext) Checkout(ctx context.Context, client *Client, products *ProductContext, auth *AuthContext, notify *Notifications, address orderdomain.DeliveryAddress) (*orderdomain.Order, error) {
	req := orderdomain.CreateOrderRequest{
		Address:    address,
		OrderItems: c.Lines(products),
		UserID:     auth.UserID(),
	}

	var resp createOrderResponse
	if err := client.doJSON(ctx, http.MethodPost, "/api/orders", auth.Token(), req, &resp); err != nil {
		notify.Push("Could not place order.")
		return nil, err
	}

	c.Clear()
	notify.Push(resp.Message)
	return &resp.Result, nil
}
