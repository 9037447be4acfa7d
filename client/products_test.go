package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/webbutiken/storefront/internal/product/domain"
)

func catalogHandler(t *testing.T, products []domain.Product) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/products", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, products)
	})
	return mux
}

func TestProductContext_Load(t *testing.T) {
	catalog := []domain.Product{
		{ID: "p1", Title: "Mug", Price: 10.0, Stock: 10},
		{ID: "p2", Title: "Poster", Price: 5.0, Stock: 3},
	}
	c, _ := newTestBackend(t, catalogHandler(t, catalog))
	notify := NewNotifications()
	products := NewProductContext(c, NewAuthContext(c, notify), notify)

	assert.NoError(t, products.Load(context.Background()))
	assert.Len(t, products.Products(), 2)

	mug, ok := products.Find("p1")
	assert.True(t, ok)
	assert.Equal(t, "Mug", mug.Title)

	_, ok = products.Find("missing")
	assert.False(t, ok)
}

func TestProductContext_LoadFailureNotifies(t *testing.T) {
	c, _ := newTestBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	notify := NewNotifications()
	products := NewProductContext(c, NewAuthContext(c, notify), notify)

	assert.Error(t, products.Load(context.Background()))
	assert.Equal(t, []string{"Could not load products."}, notify.Drain())
}

func TestProductContext_MirrorSplicing(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/products", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, []domain.Product{{ID: "p1", Title: "Mug", Price: 10.0}})
	})
	mux.HandleFunc("POST /api/products", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, domain.Product{ID: "p2", Title: "Poster", Price: 5.0})
	})
	mux.HandleFunc("PUT /api/products/p1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, domain.Product{ID: "p1", Title: "Big Mug", Price: 12.0})
	})
	mux.HandleFunc("DELETE /api/products/p2", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]string{"message": "Product deleted successfully."})
	})

	c, _ := newTestBackend(t, mux)
	notify := NewNotifications()
	products := NewProductContext(c, NewAuthContext(c, notify), notify)
	ctx := context.Background()

	assert.NoError(t, products.Load(ctx))

	created, err := products.Add(ctx, domain.CreateProductRequest{Title: "Poster", Price: 5.0})
	assert.NoError(t, err)
	assert.Equal(t, "p2", created.ID)
	assert.Len(t, products.Products(), 2)

	updated, err := products.Update(ctx, "p1", domain.UpdateProductRequest{Title: "Big Mug", Price: 12.0})
	assert.NoError(t, err)
	assert.Equal(t, "Big Mug", updated.Title)
	mirrored, _ := products.Find("p1")
	assert.Equal(t, "Big Mug", mirrored.Title)
	assert.Equal(t, 12.0, mirrored.Price)

	assert.NoError(t, products.Delete(ctx, "p2"))
	assert.Len(t, products.Products(), 1)
	_, ok := products.Find("p2")
	assert.False(t, ok)
}

func TestProductContext_MutationFailureLeavesMirror(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/products", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, []domain.Product{{ID: "p1", Title: "Mug", Price: 10.0}})
	})
	mux.HandleFunc("DELETE /api/products/p1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]string{"message": "User is not authorized to perform this action."})
	})

	c, _ := newTestBackend(t, mux)
	notify := NewNotifications()
	products := NewProductContext(c, NewAuthContext(c, notify), notify)
	ctx := context.Background()

	assert.NoError(t, products.Load(ctx))
	assert.Error(t, products.Delete(ctx, "p1"))
	assert.Len(t, products.Products(), 1)
	assert.Equal(t, []string{"Could not delete product."}, notify.Drain())
}
