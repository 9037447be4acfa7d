package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/webbutiken/storefront/internal/order/domain"
	"github.com/webbutiken/storefront/internal/platform/logger"
)

var ErrOrderNotFound = errors.New("order not found")

// DBTX can be a *sql.DB or a *sql.Tx. The order service drives one
// transaction spanning the stock decrements and the order insert.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	PrepareContext(context.Context, string) (*sql.Stmt, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
	Commit() error
	Rollback() error
}

type OrderRepository interface {
	BeginTx(ctx context.Context) (DBTX, error)
	InsertOrderWithItems(ctx context.Context, dbops DBTX, order *domain.Order) error
	ListOrders(ctx context.Context) ([]domain.Order, error)
	GetOrderByID(ctx context.Context, id string) (*domain.Order, error)
	ListOrdersByUserID(ctx context.Context, userID string) ([]domain.Order, error)
	SetShipped(ctx context.Context, id string, shipped bool) error
}

type postgresOrderRepository struct {
	db *sql.DB
}

func NewPostgresOrderRepository(db *sql.DB) OrderRepository {
	return &postgresOrderRepository{db: db}
}

func (r *postgresOrderRepository) BeginTx(ctx context.Context) (DBTX, error) {
	return r.db.BeginTx(ctx, nil)
}

const orderColumns = `id, user_id, name, email, street, city, zip, phone, is_shipped, total_price, created_at`

func scanOrder(row interface{ Scan(...interface{}) error }, o *domain.Order) error {
	return row.Scan(&o.ID, &o.UserID,
		&o.DeliveryAddress.Name, &o.DeliveryAddress.Email, &o.DeliveryAddress.Street,
		&o.DeliveryAddress.City, &o.DeliveryAddress.Zip, &o.DeliveryAddress.Phone,
		&o.IsShipped, &o.TotalPrice, &o.CreatedAt)
}

// InsertOrderWithItems writes the order and its line items under the
// caller's transaction.
func (r *postgresOrderRepository) InsertOrderWithItems(ctx context.Context, dbops DBTX, order *domain.Order) error {
	orderQuery := `INSERT INTO orders (user_id, name, email, street, city, zip, phone, is_shipped, total_price, created_at)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id, created_at`

	order.CreatedAt = time.Now()

	err := dbops.QueryRowContext(ctx, orderQuery,
		order.UserID,
		order.DeliveryAddress.Name, order.DeliveryAddress.Email, order.DeliveryAddress.Street,
		order.DeliveryAddress.City, order.DeliveryAddress.Zip, order.DeliveryAddress.Phone,
		order.IsShipped, order.TotalPrice, order.CreatedAt).
		Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		logger.Error("InsertOrderWithItems: failed to insert order", err)
		return err
	}

	itemStmt, err := dbops.PrepareContext(ctx, `INSERT INTO order_items (order_id, product_id, quantity, price)
                                                VALUES ($1, $2, $3, $4)`)
	if err != nil {
		logger.Error("InsertOrderWithItems: failed to prepare item statement", err)
		return err
	}
	defer itemStmt.Close()

	for _, item := range order.OrderItems {
		if _, err := itemStmt.ExecContext(ctx, order.ID, item.ProductID, item.Quantity, item.Price); err != nil {
			logger.Error("InsertOrderWithItems: failed to insert order item for product "+item.ProductID, err)
			return err
		}
	}
	return nil
}

func (r *postgresOrderRepository) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return r.listOrdersWhere(ctx, ``)
}

func (r *postgresOrderRepository) ListOrdersByUserID(ctx context.Context, userID string) ([]domain.Order, error) {
	return r.listOrdersWhere(ctx, `WHERE user_id = $1`, userID)
}

func (r *postgresOrderRepository) listOrdersWhere(ctx context.Context, where string, args ...interface{}) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ` + where + ` ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("ListOrders: query failed", err)
		return nil, err
	}
	defer rows.Close()

	orders := []domain.Order{}
	orderIDs := []string{}
	for rows.Next() {
		var o domain.Order
		if err := scanOrder(rows, &o); err != nil {
			logger.Error("ListOrders: scan failed", err)
			return nil, err
		}
		o.OrderItems = []domain.OrderItem{}
		orders = append(orders, o)
		orderIDs = append(orderIDs, o.ID)
	}
	if err := rows.Err(); err != nil {
		logger.Error("ListOrders: rows iteration error", err)
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	itemsByOrder, err := r.itemsForOrders(ctx, orderIDs)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if items, ok := itemsByOrder[orders[i].ID]; ok {
			orders[i].OrderItems = items
		}
	}
	return orders, nil
}

func (r *postgresOrderRepository) itemsForOrders(ctx context.Context, orderIDs []string) (map[string][]domain.OrderItem, error) {
	query := `SELECT order_id, product_id, quantity, price FROM order_items WHERE order_id = ANY($1)`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(orderIDs))
	if err != nil {
		logger.Error("itemsForOrders: query failed", err)
		return nil, err
	}
	defer rows.Close()

	itemsByOrder := map[string][]domain.OrderItem{}
	for rows.Next() {
		var orderID string
		var item domain.OrderItem
		if err := rows.Scan(&orderID, &item.ProductID, &item.Quantity, &item.Price); err != nil {
			logger.Error("itemsForOrders: scan failed", err)
			return nil, err
		}
		itemsByOrder[orderID] = append(itemsByOrder[orderID], item)
	}
	return itemsByOrder, rows.Err()
}

func (r *postgresOrderRepository) GetOrderByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	var o domain.Order
	err := scanOrder(r.db.QueryRowContext(ctx, query, id), &o)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		logger.Error("GetOrderByID: query failed", err)
		return nil, err
	}

	itemsByOrder, err := r.itemsForOrders(ctx, []string{o.ID})
	if err != nil {
		return nil, err
	}
	o.OrderItems = itemsByOrder[o.ID]
	if o.OrderItems == nil {
		o.OrderItems = []domain.OrderItem{}
	}
	return &o, nil
}

func (r *postgresOrderRepository) SetShipped(ctx context.Context, id string, shipped bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE orders SET is_shipped = $1 WHERE id = $2`, shipped, id)
	if err != nil {
		logger.Error("SetShipped: exec failed", err)
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}
