package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/ordrlab/orderflow/internal/logger"
	"github.com/ordrlab/orderflow/internal/models"
	"go.uber.org/zap"
)

const (
	notificationSubject  = "Order processing result"
	ledgerUnavailableMsg = "ledger service unavailable"
)

// OrderRepository is interface for interacting with order-related data
type OrderRepository interface {
	// CreateOrder inserts new order to database
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	// GetOrderByIdempotencyKey returns order by idempotency key
	GetOrderByIdempotencyKey(ctx context.Context, key string) (*models.Order, error)
	// GetOrders returns orders, optionally filtered by user
	GetOrders(ctx context.Context, userID *uint64) ([]models.Order, error)
}

// IdentityGateway resolves user profiles
type IdentityGateway interface {
	GetUser(ctx context.Context, userID uint64) (*models.User, error)
}

// LedgerGateway performs withdrawals
type LedgerGateway interface {
	Withdraw(ctx context.Context, userID uint64, amount float64) (*models.WithdrawResult, error)
}

// NotificationGateway delivers outcome messages, best-effort
type NotificationGateway interface {
	Send(ctx context.Context, userID uint64, email, subject, body string) error
}

// OrderService implements order creation orchestration
type OrderService struct {
	repo     OrderRepository
	identity IdentityGateway
	ledger   LedgerGateway
	notifier NotificationGateway
}

// NewOrderService creates new OrderService instance
func NewOrderService(repo OrderRepository, identity IdentityGateway, ledger LedgerGateway, notifier NotificationGateway) *OrderService {
	return &OrderService{
		repo:     repo,
		identity: identity,
		ledger:   ledger,
		notifier: notifier,
	}
}

// Create processes an order creation request. The idempotency key, when
// non-empty, guarantees at most one durable order across any number of
// submissions. The pre-insert lookup is only a fast path: the unique
// constraint in the store arbitrates concurrent duplicates, and a
// duplicate-key rejection is recovered by re-reading the winning row.
//
// A failed withdrawal does not fail the request: the order is persisted
// with status failed, recording the attempt.
func (os *OrderService) Create(ctx context.Context, order *models.Order, idempotencyKey string) (*models.Order, error) {
	if idempotencyKey != "" {
		existing, err := os.repo.GetOrderByIdempotencyKey(ctx, idempotencyKey)
		if err == nil {
			// replay of an already processed submission
			return existing, nil
		}
		if !errors.Is(err, models.ErrDataNotFound) {
			logger.Log.Debug("idempotency pre-check failed",
				zap.String("idempotency_key", idempotencyKey),
				zap.Error(err))
		}
	}

	// identity gates the whole operation: any resolution failure aborts
	// with not-found, nothing is persisted
	user, err := os.identity.GetUser(ctx, order.UserID)
	if err != nil {
		logger.Log.Debug("identity resolution failed",
			zap.Uint64("user_id", order.UserID),
			zap.Error(err))
		return nil, models.ErrUserNotFound
	}

	result, err := os.ledger.Withdraw(ctx, order.UserID, order.Price)
	if err != nil {
		// transport failure downgrades to a declined withdrawal
		logger.Log.Warn("ledger request failed",
			zap.Uint64("user_id", order.UserID),
			zap.Error(err))
		result = &models.WithdrawResult{Withdrawn: false, Message: ledgerUnavailableMsg}
	}

	if result.Withdrawn {
		balance := "n/a"
		if result.Balance != nil {
			balance = formatAmount(*result.Balance)
		}
		order.Status = models.OrderStatusConfirmed
		order.Message = fmt.Sprintf("order confirmed: withdrew %s, balance %s", formatAmount(order.Price), balance)
	} else {
		reason := result.Message
		if reason == "" {
			reason = ledgerUnavailableMsg
		}
		order.Status = models.OrderStatusFailed
		order.Message = fmt.Sprintf("failed to withdraw %s: %s", formatAmount(order.Price), reason)
	}

	if idempotencyKey != "" {
		order.IdempotencyKey = &idempotencyKey
	}

	created, err := os.repo.CreateOrder(ctx, order)
	if err != nil {
		if errors.Is(err, models.ErrConflictData) && idempotencyKey != "" {
			// a concurrent submission with the same key won the race,
			// the winning row is the canonical order
			existing, lookupErr := os.repo.GetOrderByIdempotencyKey(ctx, idempotencyKey)
			if lookupErr != nil {
				logger.Log.Error("conflicting order not found after duplicate key",
					zap.String("idempotency_key", idempotencyKey),
					zap.Error(lookupErr))
				return nil, err
			}
			return existing, nil
		}
		return nil, err
	}

	// notification goes out only for a fresh insert, delivery failures
	// do not affect the persisted order
	if err := os.notifier.Send(ctx, created.UserID, user.Email, notificationSubject, created.Message); err != nil {
		logger.Log.Warn("notification delivery failed",
			zap.Uint64("user_id", created.UserID),
			zap.Error(err))
	}

	return created, nil
}

// List returns orders ordered by creation time, filtered by user when userID is not nil
func (os *OrderService) List(ctx context.Context, userID *uint64) ([]models.Order, error) {
	return os.repo.GetOrders(ctx, userID)
}

// formatAmount renders monetary amount without trailing zeros
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
