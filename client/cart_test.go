package client

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	orderdomain "github.com/webbutiken/storefront/internal/order/domain"
	productdomain "github.com/webbutiken/storefront/internal/product/domain"
)

func mirrorWith(t *testing.T, products []productdomain.Product) *ProductContext {
	c, _ := newTestBackend(t, catalogHandler(t, products))
	notify := NewNotifications()
	mirror := NewProductContext(c, NewAuthContext(c, notify), notify)
	assert.NoError(t, mirror.Load(context.Background()))
	return mirror
}

func TestCartContext_Quantities(t *testing.T) {
	cart := NewCartContext()

	cart.Add("p1")
	cart.Add("p1")
	cart.Add("p2")
	assert.Equal(t, 3, cart.Quantity())

	cart.SetQuantity("p2", 5)
	assert.Equal(t, 7, cart.Quantity())

	cart.SetQuantity("p1", 0)
	assert.Equal(t, 5, cart.Quantity())

	cart.Remove("p2")
	assert.Equal(t, 0, cart.Quantity())

	cart.Add("p1")
	cart.Clear()
	assert.Equal(t, 0, cart.Quantity())
}

func TestCartContext_Total(t *testing.T) {
	mirror := mirrorWith(t, []productdomain.Product{
		{ID: "p1", Title: "Mug", Price: 10.0, Stock: 10},
		{ID: "p2", Title: "Poster", Price: 5.0, Stock: 3},
	})

	cart := NewCartContext()
	cart.SetQuantity("p1", 2)
	cart.SetQuantity("p2", 1)
	assert.Equal(t, 25.0, cart.Total(mirror))

	// A line whose product fell out of the mirror prices as zero.
	cart.SetQuantity("ghost", 4)
	assert.Equal(t, 25.0, cart.Total(mirror))
}

func TestCartContext_Lines(t *testing.T) {
	mirror := mirrorWith(t, []productdomain.Product{{ID: "p1", Title: "Mug", Price: 10.0}})

	cart := NewCartContext()
	cart.SetQuantity("p1", 2)

	lines := cart.Lines(mirror)
	assert.Len(t, lines, 1)
	assert.Equal(t, orderdomain.IncomingOrderItem{ProductID: "p1", Quantity: 2, Price: 10.0}, lines[0])
}

func TestCartContext_Checkout(t *testing.T) {
	address := orderdomain.DeliveryAddress{
		Name: "Anna Andersson", Email: "anna@example.com", Street: "Storgatan 1",
		City: "Göteborg", Zip: "411 01", Phone: "0701234567",
	}

	t.Run("Successful checkout clears the cart", func(t *testing.T) {
		var received orderdomain.CreateOrderRequest
		mux := http.NewServeMux()
		mux.HandleFunc("GET /api/products", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusOK, []productdomain.Product{{ID: "p1", Price: 10.0}})
		})
		mux.HandleFunc("POST /api/orders", func(w http.ResponseWriter, r *http.Request) {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			writeJSON(t, w, http.StatusOK, map[string]interface{}{
				"message": "Order created successfully.",
				"result":  orderdomain.Order{ID: "order-1", TotalPrice: 20.0},
			})
		})

		c, _ := newTestBackend(t, mux)
		notify := NewNotifications()
		auth := NewAuthContext(c, notify)
		mirror := NewProductContext(c, auth, notify)
		assert.NoError(t, mirror.Load(context.Background()))

		cart := NewCartContext()
		cart.SetQuantity("p1", 2)

		order, err := cart.Checkout(context.Background(), c, mirror, auth, notify, address)
		assert.NoError(t, err)
		assert.Equal(t, "order-1", order.ID)
		assert.Equal(t, 0, cart.Quantity())
		assert.Equal(t, []string{"Order created successfully."}, notify.Drain())
		assert.Len(t, received.OrderItems, 1)
		assert.Equal(t, "p1", received.OrderItems[0].ProductID)
	})

	t.Run("Rejected checkout keeps the cart", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("GET /api/products", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusOK, []productdomain.Product{{ID: "p1", Price: 10.0}})
		})
		mux.HandleFunc("POST /api/orders", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusConflict, map[string]string{"message": "One of the products you have in your cart is out of stock."})
		})

		c, _ := newTestBackend(t, mux)
		notify := NewNotifications()
		auth := NewAuthContext(c, notify)
		mirror := NewProductContext(c, auth, notify)
		assert.NoError(t, mirror.Load(context.Background()))

		cart := NewCartContext()
		cart.SetQuantity("p1", 2)

		order, err := cart.Checkout(context.Background(), c, mirror, auth, notify, address)
		assert.Nil(t, order)
		assert.Error(t, err)
		assert.Equal(t, 2, cart.Quantity())
		assert.Equal(t, []string{"Could not place order."}, notify.Drain())
	})
}
