package update_booking_status

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/shelter-booking/internal/api/handlers"
	"github.com/m04kA/shelter-booking/internal/api/middleware"
	"github.com/m04kA/shelter-booking/internal/domain"
	"github.com/m04kA/shelter-booking/internal/orchestrator"
	"github.com/m04kA/shelter-booking/pkg/logger"
)

type mockUpdater struct {
	mock.Mock
}

func (m *mockUpdater) GetBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID)
	b, _ := args.Get(0).(*domain.Booking)
	return b, args.Error(1)
}

func (m *mockUpdater) UpdateBookingStatus(ctx context.Context, bookingID int64, status domain.BookingStatus) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID, status)
	b, _ := args.Get(0).(*domain.Booking)
	return b, args.Error(1)
}

const (
	ownerID   = int64(5)
	shelterID = int64(10)
)

func stored() *domain.Booking {
	return &domain.Booking{ID: 7, ParticipantID: ownerID, ShelterID: shelterID, Status: domain.StatusConfirmed}
}

func serve(svc StatusUpdater, id, body string, participantID, shelter int64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/"+id+"/status", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"bookingId": id})
	if participantID > 0 {
		req = req.WithContext(middleware.WithIdentity(req.Context(), participantID, shelter))
	}
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandle_OwnerCancels(t *testing.T) {
	svc := &mockUpdater{}
	svc.On("GetBooking", mock.Anything, int64(7)).Return(stored(), nil)
	svc.On("UpdateBookingStatus", mock.Anything, int64(7), domain.StatusCancelled).
		Return(&domain.Booking{ID: 7, Status: domain.StatusCancelled}, nil)

	rec := serve(svc, "7", `{"status":"cancelled"}`, ownerID, 0)

	require.Equal(t, http.StatusOK, rec.Code)
	var body handlers.BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(7), body.ID)
	assert.Equal(t, "cancelled", body.Status)
	svc.AssertExpectations(t)
}

func TestHandle_ShelterStaffCompletes(t *testing.T) {
	svc := &mockUpdater{}
	svc.On("GetBooking", mock.Anything, int64(7)).Return(stored(), nil)
	svc.On("UpdateBookingStatus", mock.Anything, int64(7), domain.StatusCompleted).
		Return(&domain.Booking{ID: 7, Status: domain.StatusCompleted}, nil)

	rec := serve(svc, "7", `{"status":"completed"}`, 99, shelterID)

	require.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestHandle_Forbidden(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		participantID int64
		shelterID     int64
	}{
		{name: "stranger cancels", body: `{"status":"cancelled"}`, participantID: 6},
		{name: "owner completes", body: `{"status":"completed"}`, participantID: ownerID},
		{name: "owner confirms", body: `{"status":"confirmed"}`, participantID: ownerID},
		{name: "other shelter staff", body: `{"status":"no_show"}`, participantID: 99, shelterID: 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockUpdater{}
			svc.On("GetBooking", mock.Anything, int64(7)).Return(stored(), nil)

			rec := serve(svc, "7", tt.body, tt.participantID, tt.shelterID)

			assert.Equal(t, http.StatusForbidden, rec.Code)
			svc.AssertNotCalled(t, "UpdateBookingStatus", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestHandle_MissingIdentity(t *testing.T) {
	svc := &mockUpdater{}

	rec := serve(svc, "7", `{"status":"cancelled"}`, 0, 0)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	svc.AssertNotCalled(t, "GetBooking", mock.Anything, mock.Anything)
}

func TestHandle_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		id   string
		body string
	}{
		{name: "non-numeric id", id: "abc", body: `{"status":"cancelled"}`},
		{name: "malformed body", id: "7", body: `{"status":`},
		{name: "unknown field", id: "7", body: `{"status":"cancelled","extra":1}`},
		{name: "unknown status", id: "7", body: `{"status":"archived"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockUpdater{}

			rec := serve(svc, tt.id, tt.body, ownerID, 0)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			svc.AssertNotCalled(t, "UpdateBookingStatus", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{name: "invalid id", err: orchestrator.ErrInvalidInput, code: http.StatusBadRequest},
		{name: "not found", err: orchestrator.ErrBookingNotFound, code: http.StatusNotFound},
		{name: "invalid transition", err: fmt.Errorf("%w: completed -> pending", orchestrator.ErrInvalidTransition), code: http.StatusConflict},
		{name: "ledger down", err: orchestrator.ErrLedgerUnavailable, code: http.StatusServiceUnavailable},
		{name: "unexpected", err: fmt.Errorf("boom"), code: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockUpdater{}
			svc.On("GetBooking", mock.Anything, int64(7)).Return(stored(), nil)
			svc.On("UpdateBookingStatus", mock.Anything, int64(7), domain.StatusCancelled).Return(nil, tt.err)

			rec := serve(svc, "7", `{"status":"cancelled"}`, ownerID, 0)

			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestHandle_LookupFailure(t *testing.T) {
	svc := &mockUpdater{}
	svc.On("GetBooking", mock.Anything, int64(7)).Return(nil, orchestrator.ErrBookingNotFound)

	rec := serve(svc, "7", `{"status":"cancelled"}`, ownerID, 0)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	svc.AssertNotCalled(t, "UpdateBookingStatus", mock.Anything, mock.Anything, mock.Anything)
}
