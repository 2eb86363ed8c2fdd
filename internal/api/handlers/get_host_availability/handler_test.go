package get_host_availability

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/middleware"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	getHostAvailability "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_host_availability"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

type mockUseCase struct{ mock.Mock }

func (m *mockUseCase) Execute(ctx context.Context, req *getHostAvailability.Request) (*getHostAvailability.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*getHostAvailability.Response), args.Error(1)
}

func serve(uc *mockUseCase, path string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/availability/{hostSlug}", NewHandler(uc, logger.NewNop()).Handle).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHandler_Handle_Success(t *testing.T) {
	color := "#3366ff"
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, &getHostAvailability.Request{HostSlug: "jane-doe"}).Return(&getHostAvailability.Response{
		HostID: 1,
		Availability: []*domain.WeeklyAvailabilityRule{{
			ID:              10,
			HostID:          1,
			DayOfWeek:       1,
			StartTime:       types.MustTimeString("09:00"),
			EndTime:         types.MustTimeString("12:00"),
			DurationMinutes: 30,
			BufferMinutes:   5,
			IsActive:        true,
		}},
		BookedSlots: []domain.BlockedSlotEntry{
			{Date: "2025-06-02", StartTime: "09:30", Source: domain.SourceExternal},
			{Date: "2025-06-02", StartTime: "14:00", Source: domain.SourceBooking},
		},
		HostTimezone: "America/New_York",
		PrimaryColor: &color,
	}, nil)

	rec := serve(uc, "/availability/jane-doe")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"availability": [{
			"id": 10, "dayOfWeek": 1, "startTime": "09:00", "endTime": "12:00",
			"durationMinutes": 30, "bufferMinutes": 5, "active": true
		}],
		"bookedSlots": [
			{"date": "2025-06-02", "startTime": "09:30", "source": "external"},
			{"date": "2025-06-02", "startTime": "14:00", "source": "booking"}
		],
		"hostTimezone": "America/New_York",
		"primaryColor": "#3366ff"
	}`, rec.Body.String())
	uc.AssertExpectations(t)
}

func TestHandler_Handle_EmptyResult(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.Anything).Return(&getHostAvailability.Response{
		HostID:       2,
		Availability: []*domain.WeeklyAvailabilityRule{},
		BookedSlots:  []domain.BlockedSlotEntry{},
		HostTimezone: "America/New_York",
	}, nil)

	rec := serve(uc, "/availability/2")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"availability": [], "bookedSlots": [], "hostTimezone": "America/New_York", "primaryColor": null}`,
		rec.Body.String())
}

func TestHandler_Handle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "invalid input",
			err:        fmt.Errorf("%w: host slug is required", getHostAvailability.ErrInvalidInput),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"code": 400, "message": "идентификатор хоста обязателен"}`,
		},
		{
			name:       "host not found",
			err:        fmt.Errorf("%w: slug=\"nobody\"", getHostAvailability.ErrHostNotFound),
			wantStatus: http.StatusNotFound,
			wantBody:   `{"code": 404, "message": "хост не найден"}`,
		},
		{
			name:       "invalid rule",
			err:        fmt.Errorf("%w: %w", getHostAvailability.ErrInternal, getHostAvailability.ErrInvalidRule),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"code": 500, "message": "внутренняя ошибка сервера"}`,
		},
		{
			name:       "unexpected",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"code": 500, "message": "внутренняя ошибка сервера"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := serve(uc, "/availability/nobody")

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestHandler_Handle_PassesRequestID(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, &getHostAvailability.Request{HostSlug: "jane-doe", RequestID: "req-42"}).
		Return(&getHostAvailability.Response{HostID: 1, HostTimezone: "America/New_York"}, nil)

	router := mux.NewRouter()
	router.Use(middleware.RequestID)
	router.HandleFunc("/availability/{hostSlug}", NewHandler(uc, logger.NewNop()).Handle).Methods(http.MethodGet)

	req := httptest.NewRequest(http.MethodGet, "/availability/jane-doe", nil)
	req.Header.Set(middleware.HeaderRequestID, "req-42")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-42", rec.Header().Get(middleware.HeaderRequestID))
	uc.AssertExpectations(t)
}
