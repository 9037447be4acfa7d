package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/webbutiken/storefront/internal/auth"
	"github.com/webbutiken/storefront/internal/events"
	"github.com/webbutiken/storefront/internal/order/domain"
	"github.com/webbutiken/storefront/internal/order/repository"
	"github.com/webbutiken/storefront/internal/order/validation"
	"github.com/webbutiken/storefront/internal/platform/apierror"
	"github.com/webbutiken/storefront/internal/platform/cache"
	"github.com/webbutiken/storefront/internal/platform/logger"
	productRepo "github.com/webbutiken/storefront/internal/product/repository"
)

var (
	ErrArchivedProduct = apierror.New(http.StatusConflict, "One of the products you have in your cart is archived.")
	ErrOutOfStock      = apierror.New(http.StatusConflict, "One of the products you have in your cart is out of stock.")
	ErrNoOrders        = apierror.New(http.StatusNotFound, "No orders found.")
	ErrOrderNotFound   = apierror.New(http.StatusNotFound, "Order not found.")
	ErrNotLoggedIn     = apierror.New(http.StatusUnauthorized, "You are not logged in.")
	ErrNotAuthorized   = apierror.New(http.StatusUnauthorized, "User is not authorized to see this order.")
	ErrOrderForbidden  = apierror.New(http.StatusForbidden, "You are not allowed to view this order.")

	ErrOrderCreationFailed = errors.New("order creation failed")
)

type OrderService interface {
	CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
	GetOrder(ctx context.Context, session *auth.Session, orderID string) (*domain.Order, error)
	ListOrdersByUser(ctx context.Context, session *auth.Session, userID string) ([]domain.Order, error)
	ToggleShipped(ctx context.Context, orderID string) (bool, error)
}

// productState is the per-product snapshot the conflict checks run
// against; nil means the product no longer exists.
type productState struct {
	archived bool
	stock    int
}

type orderServiceImpl struct {
	orderRepo   repository.OrderRepository
	productRepo productRepo.ProductRepository
	publisher   events.Publisher
	cache       *cache.Client
}

func NewOrderService(or repository.OrderRepository, pr productRepo.ProductRepository, pub events.Publisher, cacheClient *cache.Client) OrderService {
	if pub == nil {
		pub = events.NoopPublisher{}
	}
	return &orderServiceImpl{
		orderRepo:   or,
		productRepo: pr,
		publisher:   pub,
		cache:       cacheClient,
	}
}

// CreateOrder runs the checkout workflow: conflict checks against a
// single product snapshot, total from the submitted line prices, input
// validation, then one transaction covering every stock decrement and
// the order insert. A decrement that finds too little stock rolls the
// whole transaction back, so concurrent orders cannot oversell and a
// rejected order never leaves partial decrements behind.
func (s *orderServiceImpl) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (*domain.Order, error) {
	// One fetch per product; archived wins over out-of-stock when both apply.
	snapshot := make(map[string]*productState, len(req.OrderItems))
	for _, item := range req.OrderItems {
		if _, seen := snapshot[item.ProductID]; seen {
			continue
		}
		product, err := s.productRepo.GetProductByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, productRepo.ErrProductNotFound) {
				snapshot[item.ProductID] = nil
				continue
			}
			logger.Error("CreateOrder: product lookup failed for "+item.ProductID, err)
			return nil, fmt.Errorf("%w: %v", ErrOrderCreationFailed, err)
		}
		snapshot[item.ProductID] = &productState{archived: product.IsArchived, stock: product.Stock}
	}

	for _, item := range req.OrderItems {
		if p := snapshot[item.ProductID]; p != nil && p.archived {
			return nil, ErrArchivedProduct
		}
	}
	for _, item := range req.OrderItems {
		p := snapshot[item.ProductID]
		if p == nil || item.Quantity > p.stock {
			return nil, ErrOutOfStock
		}
	}

	var totalPrice float64
	for _, item := range req.OrderItems {
		totalPrice += item.Price * float64(item.Quantity)
	}

	if err := validation.ValidateAddress(req.Address); err != nil {
		return nil, err
	}
	if err := validation.ValidateOrderItems(req.OrderItems); err != nil {
		return nil, err
	}
	if err := validation.ValidateUserID(req.UserID); err != nil {
		return nil, err
	}

	orderItems := make([]domain.OrderItem, len(req.OrderItems))
	for i, item := range req.OrderItems {
		orderItems[i] = domain.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}
	newOrder := &domain.Order{
		UserID:          req.UserID,
		DeliveryAddress: req.Address,
		OrderItems:      orderItems,
		IsShipped:       false,
		TotalPrice:      totalPrice,
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		logger.Error("CreateOrder: failed to begin tx", err)
		return nil, fmt.Errorf("%w: %v", ErrOrderCreationFailed, err)
	}
	defer tx.Rollback()

	for _, item := range orderItems {
		if err := s.productRepo.DecrementStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
			if errors.Is(err, productRepo.ErrInsufficientStock) {
				// The snapshot passed but a concurrent order got there first.
				return nil, ErrOutOfStock
			}
			logger.Error("CreateOrder: stock decrement failed for product "+item.ProductID, err)
			return nil, fmt.Errorf("%w: %v", ErrOrderCreationFailed, err)
		}
	}

	if err := s.orderRepo.InsertOrderWithItems(ctx, tx, newOrder); err != nil {
		logger.Error("CreateOrder: failed to save order", err)
		return nil, fmt.Errorf("%w: %v", ErrOrderCreationFailed, err)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("CreateOrder: commit failed", err)
		return nil, fmt.Errorf("%w: %v", ErrOrderCreationFailed, err)
	}

	s.cache.Drop(ctx, cache.ProductListKey)
	s.publishOrderCreated(ctx, newOrder)

	return newOrder, nil
}

func (s *orderServiceImpl) publishOrderCreated(ctx context.Context, order *domain.Order) {
	items := make([]events.OrderItemEvent, len(order.OrderItems))
	for i, item := range order.OrderItems {
		items[i] = events.OrderItemEvent{ProductID: item.ProductID, Quantity: item.Quantity, Price: item.Price}
	}
	event := events.OrderCreatedEvent{
		EventID:    uuid.NewString(),
		OrderID:    order.ID,
		UserID:     order.UserID,
		TotalPrice: order.TotalPrice,
		Items:      items,
		CreatedAt:  order.CreatedAt,
	}
	if err := s.publisher.PublishOrderCreated(ctx, event); err != nil {
		logger.Error("CreateOrder: failed to publish order created event for order "+order.ID, err)
	}
}

func (s *orderServiceImpl) ListOrders(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.orderRepo.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, ErrNoOrders
	}
	return orders, nil
}

func (s *orderServiceImpl) GetOrder(ctx context.Context, session *auth.Session, orderID string) (*domain.Order, error) {
	if session == nil {
		return nil, ErrNotLoggedIn
	}

	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if !session.IsAdmin && session.UserID != order.UserID {
		return nil, ErrOrderForbidden
	}
	return order, nil
}

func (s *orderServiceImpl) ListOrdersByUser(ctx context.Context, session *auth.Session, userID string) ([]domain.Order, error) {
	if session == nil {
		return nil, ErrNotLoggedIn
	}
	if !session.IsAdmin && session.UserID != userID {
		return nil, ErrNotAuthorized
	}
	return s.orderRepo.ListOrdersByUserID(ctx, userID)
}

// ToggleShipped flips the shipped flag and reports the new value.
func (s *orderServiceImpl) ToggleShipped(ctx context.Context, orderID string) (bool, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return false, ErrOrderNotFound
		}
		return false, err
	}

	shipped := !order.IsShipped
	if err := s.orderRepo.SetShipped(ctx, orderID, shipped); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return false, ErrOrderNotFound
		}
		return false, err
	}
	return shipped, nil
}
