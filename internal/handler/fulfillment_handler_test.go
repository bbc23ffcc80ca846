package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"dukkan/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockFulfillmentService is a mock implementation of service.FulfillmentService.
type MockFulfillmentService struct {
	mock.Mock
}

func (m *MockFulfillmentService) AssignDriver(ctx context.Context, orderID, driverID uuid.UUID) error {
	args := m.Called(ctx, orderID, driverID)
	return args.Error(0)
}

func (m *MockFulfillmentService) StartTrip(ctx context.Context, orderID, driverID uuid.UUID, lat, lng float64) error {
	args := m.Called(ctx, orderID, driverID, lat, lng)
	return args.Error(0)
}

func (m *MockFulfillmentService) UpdateCoordinates(ctx context.Context, orderID, driverID uuid.UUID, lat, lng float64) error {
	args := m.Called(ctx, orderID, driverID, lat, lng)
	return args.Error(0)
}

func (m *MockFulfillmentService) CancelOrder(ctx context.Context, orderID uuid.UUID, reason string) error {
	args := m.Called(ctx, orderID, reason)
	return args.Error(0)
}

func (m *MockFulfillmentService) DeliverOrder(ctx context.Context, orderID uuid.UUID) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func TestFulfillmentHandler_Assign(t *testing.T) {
	orderID := uuid.New()
	driverID := uuid.New()

	tests := []struct {
		name           string
		role           string
		path           string
		body           string
		serviceError   error
		expectedStatus int
		expectService  bool
	}{
		{
			name:           "Success",
			role:           "ADMIN",
			path:           "/api/orders/" + orderID.String() + "/assign",
			body:           `{"driverId":"` + driverID.String() + `"}`,
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "Non-admin forbidden",
			role:           "DRIVER",
			path:           "/api/orders/" + orderID.String() + "/assign",
			body:           `{"driverId":"` + driverID.String() + `"}`,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "Malformed order ID",
			role:           "ADMIN",
			path:           "/api/orders/not-a-uuid/assign",
			body:           `{"driverId":"` + driverID.String() + `"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Order already canceled",
			role:           "ADMIN",
			path:           "/api/orders/" + orderID.String() + "/assign",
			body:           `{"driverId":"` + driverID.String() + `"}`,
			serviceError:   model.ErrInvalidTransition,
			expectedStatus: http.StatusConflict,
			expectService:  true,
		},
		{
			name:           "Order not found",
			role:           "ADMIN",
			path:           "/api/orders/" + orderID.String() + "/assign",
			body:           `{"driverId":"` + driverID.String() + `"}`,
			serviceError:   model.ErrOrderNotFound,
			expectedStatus: http.StatusNotFound,
			expectService:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockFulfillmentService)
			if tt.expectService {
				mockService.On("AssignDriver", mock.Anything, orderID, driverID).Return(tt.serviceError)
			}

			h := NewFulfillmentHandler(mockService, zerolog.Nop())

			req := httptest.NewRequest(http.MethodPost, tt.path, bytes.NewBufferString(tt.body))
			req.Header.Set(HeaderUserRole, tt.role)
			rec := httptest.NewRecorder()

			h.Assign(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestFulfillmentHandler_StartTrip(t *testing.T) {
	orderID := uuid.New()
	driverID := uuid.New()

	tests := []struct {
		name           string
		userHeader     string
		role           string
		serviceError   error
		expectedStatus int
		expectService  bool
	}{
		{
			name:           "Success",
			userHeader:     driverID.String(),
			role:           "DRIVER",
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "Missing identity",
			userHeader:     "",
			role:           "DRIVER",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Customer forbidden",
			userHeader:     driverID.String(),
			role:           "CUSTOMER",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "Second active trip rejected",
			userHeader:     driverID.String(),
			role:           "DRIVER",
			serviceError:   model.ErrActiveTripExists,
			expectedStatus: http.StatusConflict,
			expectService:  true,
		},
		{
			name:           "Another driver's order",
			userHeader:     driverID.String(),
			role:           "DRIVER",
			serviceError:   model.ErrNotOrderDriver,
			expectedStatus: http.StatusForbidden,
			expectService:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockFulfillmentService)
			if tt.expectService {
				mockService.On("StartTrip", mock.Anything, orderID, driverID, 24.7136, 46.6753).Return(tt.serviceError)
			}

			h := NewFulfillmentHandler(mockService, zerolog.Nop())

			body := `{"orderId":"` + orderID.String() + `","latitude":24.7136,"longitude":46.6753}`
			req := httptest.NewRequest(http.MethodPost, "/api/trips/start", bytes.NewBufferString(body))
			if tt.userHeader != "" {
				req.Header.Set(HeaderUserID, tt.userHeader)
			}
			req.Header.Set(HeaderUserRole, tt.role)
			rec := httptest.NewRecorder()

			h.StartTrip(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestFulfillmentHandler_UpdateCoordinates(t *testing.T) {
	orderID := uuid.New()
	driverID := uuid.New()

	mockService := new(MockFulfillmentService)
	mockService.On("UpdateCoordinates", mock.Anything, orderID, driverID, 24.8, 46.7).Return(model.ErrTripNotFound)

	h := NewFulfillmentHandler(mockService, zerolog.Nop())

	body := `{"orderId":"` + orderID.String() + `","latitude":24.8,"longitude":46.7}`
	req := httptest.NewRequest(http.MethodPut, "/api/trips/coordinates", bytes.NewBufferString(body))
	req.Header.Set(HeaderUserID, driverID.String())
	req.Header.Set(HeaderUserRole, "DRIVER")
	rec := httptest.NewRecorder()

	h.UpdateCoordinates(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFulfillmentHandler_Cancel(t *testing.T) {
	orderID := uuid.New()

	mockService := new(MockFulfillmentService)
	mockService.On("CancelOrder", mock.Anything, orderID, "العميل لا يرد").Return(nil)

	h := NewFulfillmentHandler(mockService, zerolog.Nop())

	body := `{"reason":"العميل لا يرد"}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders/"+orderID.String()+"/cancel", bytes.NewBufferString(body))
	req.Header.Set(HeaderUserRole, "ADMIN")
	rec := httptest.NewRecorder()

	h.Cancel(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockService.AssertExpectations(t)
}

func TestFulfillmentHandler_Deliver(t *testing.T) {
	orderID := uuid.New()

	tests := []struct {
		name           string
		role           string
		serviceError   error
		expectedStatus int
		expectService  bool
	}{
		{
			name:           "Driver delivers",
			role:           "DRIVER",
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "Admin delivers",
			role:           "ADMIN",
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "Not in transit",
			role:           "DRIVER",
			serviceError:   model.ErrInvalidTransition,
			expectedStatus: http.StatusConflict,
			expectService:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockFulfillmentService)
			if tt.expectService {
				mockService.On("DeliverOrder", mock.Anything, orderID).Return(tt.serviceError)
			}

			h := NewFulfillmentHandler(mockService, zerolog.Nop())

			req := httptest.NewRequest(http.MethodPost, "/api/orders/"+orderID.String()+"/deliver", nil)
			req.Header.Set(HeaderUserRole, tt.role)
			rec := httptest.NewRecorder()

			h.Deliver(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}
