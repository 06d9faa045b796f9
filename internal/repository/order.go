package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/ordrlab/orderflow/internal/models"
	"github.com/ordrlab/orderflow/internal/repository/postgres"
)

const pgErrUniqueViolationCode = "23505"

const (
	insertOrderQuery = `
						INSERT INTO orders (user_id, price, status, message, idempotency_key)
						VALUES ($1, $2, $3, $4, $5)
						RETURNING id, user_id, price, status, message, created_at, idempotency_key
`
	selectOrderByKeyQuery = `
						SELECT id, user_id, price, status, message, created_at, idempotency_key FROM orders
						WHERE idempotency_key = $1
`
	selectOrdersQuery = `
						SELECT id, user_id, price, status, message, created_at, idempotency_key FROM orders
						ORDER BY created_at
`
	selectOrdersByUserIDQuery = `
						SELECT id, user_id, price, status, message, created_at, idempotency_key FROM orders
						WHERE user_id = $1
						ORDER BY created_at
`
)

// OrderRepository implements OrderRepository interface
type OrderRepository struct {
	db *postgres.DB
}

// NewOrderRepository creates new OrderRepository instance
func NewOrderRepository(db *postgres.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateOrder inserts new order to database. The unique constraint on
// idempotency_key is the authority on duplicate submissions: a violation
// is reported as models.ErrConflictData.
func (or *OrderRepository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	err := or.db.QueryRow(ctx, insertOrderQuery,
		order.UserID, order.Price, order.Status, order.Message, order.IdempotencyKey).
		Scan(&order.ID, &order.UserID, &order.Price, &order.Status, &order.Message, &order.CreatedAt, &order.IdempotencyKey)
	if err != nil {
		if errCode := or.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return nil, models.ErrConflictData
		}
		return nil, err
	}

	return order, nil
}

// GetOrderByIdempotencyKey returns order by idempotency key
func (or *OrderRepository) GetOrderByIdempotencyKey(ctx context.Context, key string) (*models.Order, error) {
	order := models.Order{}
	err := or.db.QueryRow(ctx, selectOrderByKeyQuery, key).
		Scan(&order.ID, &order.UserID, &order.Price, &order.Status, &order.Message, &order.CreatedAt, &order.IdempotencyKey)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &order, nil
}

// GetOrders returns orders ordered by creation time ascending,
// filtered by user when userID is not nil
func (or *OrderRepository) GetOrders(ctx context.Context, userID *uint64) ([]models.Order, error) {
	var (
		rows pgx.Rows
		err  error
	)

	if userID != nil {
		rows, err = or.db.Query(ctx, selectOrdersByUserIDQuery, *userID)
	} else {
		rows, err = or.db.Query(ctx, selectOrdersQuery)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}

	for rows.Next() {
		order := models.Order{}
		err = rows.Scan(&order.ID, &order.UserID, &order.Price, &order.Status, &order.Message, &order.CreatedAt, &order.IdempotencyKey)
		if err != nil {
			continue
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
