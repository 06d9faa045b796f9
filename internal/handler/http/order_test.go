package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/ordrlab/orderflow/internal/handler/http/mocks"
	"github.com/ordrlab/orderflow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderHandler_CreateOrder(t *testing.T) {
	createdAt := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		body           string
		idempotencyKey string
		setup          func(t *testing.T) *mocks.MockOrderService
		wantStatusCode int
		wantBody       *orderResponse
	}{
		{
			// 201 — order has been created
			name: "valid_request_return_201",
			body: `{"user_id":1,"price":50}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().Create(gomock.Any(), gomock.Any(), "").Return(&models.Order{
					ID:        1,
					UserID:    1,
					Price:     50,
					Status:    models.OrderStatusConfirmed,
					Message:   "order confirmed: withdrew 50, balance 450",
					CreatedAt: createdAt,
				}, nil).Times(1)
				return svcMock
			},
			wantStatusCode: http.StatusCreated,
			wantBody: &orderResponse{
				ID:        1,
				UserID:    1,
				Price:     50,
				Status:    models.OrderStatusConfirmed,
				Message:   "order confirmed: withdrew 50, balance 450",
				CreatedAt: createdAt.Format(time.RFC3339),
			},
		},
		{
			// 201 — the idempotency key from the header reaches the service
			name:           "idempotency_key_passed_return_201",
			body:           `{"user_id":1,"price":1000}`,
			idempotencyKey: "abc",
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().Create(gomock.Any(), gomock.Any(), "abc").Return(&models.Order{
					ID:        7,
					UserID:    1,
					Price:     1000,
					Status:    models.OrderStatusFailed,
					Message:   "failed to withdraw 1000: insufficient funds",
					CreatedAt: createdAt,
				}, nil).Times(1)
				return svcMock
			},
			wantStatusCode: http.StatusCreated,
			wantBody: &orderResponse{
				ID:        7,
				UserID:    1,
				Price:     1000,
				Status:    models.OrderStatusFailed,
				Message:   "failed to withdraw 1000: insufficient funds",
				CreatedAt: createdAt.Format(time.RFC3339),
			},
		},
		{
			// 400 — malformed body
			name: "malformed_body_return_400",
			body: `{"user_id":`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			// 400 — user_id below one
			name: "zero_user_id_return_400",
			body: `{"user_id":0,"price":50}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			// 400 — price must be strictly positive
			name: "non_positive_price_return_400",
			body: `{"user_id":1,"price":0}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			// 404 — identity resolution failed
			name: "user_not_found_return_404",
			body: `{"user_id":999,"price":50}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, models.ErrUserNotFound).Times(1)
				return svcMock
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			// 500 — unrecoverable storage conflict
			name: "storage_fault_return_500",
			body: `{"user_id":1,"price":50}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, models.ErrConflictData).Times(1)
				return svcMock
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost, "/orders", strings.NewReader(tt.body))
			require.NoError(t, err)
			if tt.idempotencyKey != "" {
				req.Header.Set(idempotencyKeyHeader, tt.idempotencyKey)
			}

			w := httptest.NewRecorder()

			handler := NewOrderHandler(tt.setup(t))
			h := handler.CreateOrder()
			h(w, req)

			res := w.Result()
			defer res.Body.Close()

			assert.Equal(t, tt.wantStatusCode, res.StatusCode)

			if tt.wantBody != nil {
				var got orderResponse
				require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
				if diff := cmp.Diff(*tt.wantBody, got); diff != "" {
					t.Errorf("response mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestOrderHandler_ListOrders(t *testing.T) {
	createdAt := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

	orders := []models.Order{
		{
			ID:        1,
			UserID:    1,
			Price:     50,
			Status:    models.OrderStatusConfirmed,
			Message:   "order confirmed: withdrew 50, balance 450",
			CreatedAt: createdAt,
		},
		{
			ID:        2,
			UserID:    1,
			Price:     1000,
			Status:    models.OrderStatusFailed,
			Message:   "failed to withdraw 1000: insufficient funds",
			CreatedAt: createdAt.Add(time.Minute),
		},
	}

	tests := []struct {
		name           string
		target         string
		setup          func(t *testing.T) *mocks.MockOrderService
		wantStatusCode int
		wantLen        int
	}{
		{
			// 200 — unfiltered listing
			name:   "list_all_return_200",
			target: "/orders",
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().List(gomock.Any(), nil).Return(orders, nil).Times(1)
				return svcMock
			},
			wantStatusCode: http.StatusOK,
			wantLen:        2,
		},
		{
			// 200 — filtered by user
			name:   "list_filtered_return_200",
			target: "/orders?user_id=1",
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)

				userID := uint64(1)
				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().List(gomock.Any(), gomock.Eq(&userID)).Return(orders, nil).Times(1)
				return svcMock
			},
			wantStatusCode: http.StatusOK,
			wantLen:        2,
		},
		{
			// 200 — empty listing is a valid response
			name:   "list_empty_return_200",
			target: "/orders?user_id=5",
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().List(gomock.Any(), gomock.Any()).Return([]models.Order{}, nil).Times(1)
				return svcMock
			},
			wantStatusCode: http.StatusOK,
			wantLen:        0,
		},
		{
			// 400 — non-numeric filter
			name:   "bad_filter_return_400",
			target: "/orders?user_id=abc",
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().List(gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			// 500 — storage failure
			name:   "storage_error_return_500",
			target: "/orders",
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().List(gomock.Any(), gomock.Any()).
					Return(nil, errors.New("connection reset")).Times(1)
				return svcMock
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, tt.target, nil)
			require.NoError(t, err)

			w := httptest.NewRecorder()

			handler := NewOrderHandler(tt.setup(t))
			h := handler.ListOrders()
			h(w, req)

			res := w.Result()
			defer res.Body.Close()

			assert.Equal(t, tt.wantStatusCode, res.StatusCode)

			if tt.wantStatusCode == http.StatusOK {
				var got []orderResponse
				require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
				assert.Len(t, got, tt.wantLen)
			}
		})
	}
}
