package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/ordrlab/orderflow/internal/models"
)

const idempotencyKeyHeader = "Idempotency-Key"

type OrderService interface {
	// Create processes an order creation request
	Create(ctx context.Context, order *models.Order, idempotencyKey string) (*models.Order, error)
	// List returns orders, optionally filtered by user
	List(ctx context.Context, userID *uint64) ([]models.Order, error)
}

// OrderHandler represents HTTP handler for order-related requests
type OrderHandler struct {
	svc OrderService
}

// NewOrderHandler creates new OrderHandler instance
func NewOrderHandler(svc OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type createOrderRequest struct {
	UserID uint64  `json:"user_id"`
	Price  float64 `json:"price"`
}

type orderResponse struct {
	ID        uint64  `json:"id"`
	UserID    uint64  `json:"user_id"`
	Price     float64 `json:"price"`
	Status    string  `json:"status"`
	Message   string  `json:"message"`
	CreatedAt string  `json:"created_at"`
}

func newOrderResponse(order *models.Order) orderResponse {
	return orderResponse{
		ID:        order.ID,
		UserID:    order.UserID,
		Price:     order.Price,
		Status:    order.Status,
		Message:   order.Message,
		CreatedAt: order.CreatedAt.Format(time.RFC3339),
	}
}

// CreateOrder creates new order
// 201 — order has been created; duplicate submissions return the earlier order
// 400 — invalid request payload
// 404 — user is not known to the identity service
// 500 — internal error
func (oh *OrderHandler) CreateOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var createReq createOrderRequest

		if err := json.NewDecoder(r.Body).Decode(&createReq); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if createReq.UserID < 1 || createReq.Price <= 0 {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		order := models.Order{
			UserID: createReq.UserID,
			Price:  createReq.Price,
		}

		created, err := oh.svc.Create(r.Context(), &order, r.Header.Get(idempotencyKeyHeader))
		if err != nil {
			switch {
			case errors.Is(err, models.ErrUserNotFound):
				http.Error(w, "user not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)

		if err := json.NewEncoder(w).Encode(newOrderResponse(created)); err != nil {
			return
		}
	}
}

// ListOrders returns orders ordered by creation time ascending
// 200 — successful processing, empty list is valid
// 400 — invalid user_id filter
// 500 — internal error
func (oh *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var userID *uint64

		if val := r.URL.Query().Get("user_id"); val != "" {
			id, err := strconv.ParseUint(val, 10, 64)
			if err != nil {
				http.Error(w, "bad request", http.StatusBadRequest)
				return
			}
			userID = &id
		}

		orders, err := oh.svc.List(r.Context(), userID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := []orderResponse{}
		for _, order := range orders {
			resp = append(resp, newOrderResponse(&order))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(resp); err != nil {
			return
		}
	}
}
