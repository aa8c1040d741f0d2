package validation

import (
	"net/http"
	"testing"

	"orders-ms/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func statusPtr(s model.OrderStatus) *model.OrderStatus { return &s }

func TestValidator_CreateOrderRequest(t *testing.T) {
	v := New()

	tests := []struct {
		name        string
		req         *model.CreateOrderRequest
		expectError bool
		errorMsg    string
	}{
		{
			name: "Valid request",
			req: &model.CreateOrderRequest{
				Items: []model.OrderItemRequest{
					{ProductID: "A", Quantity: 2},
					{ProductID: "B", Quantity: 1},
				},
			},
		},
		{
			name:        "Missing items",
			req:         &model.CreateOrderRequest{},
			expectError: true,
			errorMsg:    "items is required",
		},
		{
			name:        "Empty items",
			req:         &model.CreateOrderRequest{Items: []model.OrderItemRequest{}},
			expectError: true,
			errorMsg:    "items must contain at least 1 item(s)",
		},
		{
			name: "Zero quantity",
			req: &model.CreateOrderRequest{
				Items: []model.OrderItemRequest{{ProductID: "A", Quantity: 0}},
			},
			expectError: true,
			errorMsg:    "items[0].quantity must be a positive number",
		},
		{
			name: "Missing product ID",
			req: &model.CreateOrderRequest{
				Items: []model.OrderItemRequest{
					{ProductID: "A", Quantity: 1},
					{ProductID: "", Quantity: 1},
				},
			},
			expectError: true,
			errorMsg:    "items[1].productId is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.req)

			if !tt.expectError {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			domainErr := model.AsDomainError(err)
			assert.Equal(t, http.StatusBadRequest, domainErr.Status)
			assert.Equal(t, model.ErrCodeValidationFailed, domainErr.Code)
			assert.Equal(t, tt.errorMsg, domainErr.Message)
		})
	}
}

func TestValidator_OrderQuery(t *testing.T) {
	v := New()

	tests := []struct {
		name        string
		query       *model.OrderQuery
		expectError bool
		errorMsg    string
	}{
		{
			name:  "Defaults",
			query: &model.OrderQuery{},
		},
		{
			name: "Explicit pagination and status",
			query: &model.OrderQuery{
				Pagination: model.Pagination{Take: intPtr(10), Skip: intPtr(0)},
				Status:     statusPtr(model.StatusDelivered),
			},
		},
		{
			name:        "Zero take",
			query:       &model.OrderQuery{Pagination: model.Pagination{Take: intPtr(0)}},
			expectError: true,
			errorMsg:    "take must be a positive number",
		},
		{
			name:        "Negative skip",
			query:       &model.OrderQuery{Pagination: model.Pagination{Skip: intPtr(-1)}},
			expectError: true,
			errorMsg:    "skip must not be less than 0",
		},
		{
			name:        "Unknown status",
			query:       &model.OrderQuery{Status: statusPtr("SHIPPED")},
			expectError: true,
			errorMsg:    "status must be one of the following: PENDING, PAID, DELIVERED, CANCELLED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.query)

			if !tt.expectError {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Equal(t, tt.errorMsg, err.Error())
		})
	}
}

func TestValidator_ChangeOrderStatusRequest(t *testing.T) {
	v := New()

	tests := []struct {
		name        string
		req         *model.ChangeOrderStatusRequest
		expectError bool
		errorMsg    string
	}{
		{
			name: "Valid request",
			req:  &model.ChangeOrderStatusRequest{ID: uuid.NewString(), Status: model.StatusPaid},
		},
		{
			name:        "Malformed ID",
			req:         &model.ChangeOrderStatusRequest{ID: "123", Status: model.StatusPaid},
			expectError: true,
			errorMsg:    "id must be a UUID",
		},
		{
			name:        "Missing status",
			req:         &model.ChangeOrderStatusRequest{ID: uuid.NewString()},
			expectError: true,
			errorMsg:    "status is required",
		},
		{
			name:        "Unknown status",
			req:         &model.ChangeOrderStatusRequest{ID: uuid.NewString(), Status: "LOST"},
			expectError: true,
			errorMsg:    "status must be one of the following",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.req)

			if !tt.expectError {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}
