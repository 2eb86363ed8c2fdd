package get_host_availability

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/api/middleware"
	getHostAvailability "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_host_availability"
)

const (
	msgMissingHostSlug = "идентификатор хоста обязателен"
	msgHostNotFound    = "хост не найден"
)

type Handler struct {
	useCase GetHostAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetHostAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /availability/{hostSlug}
// hostSlug: ID, email или имя хоста
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	hostSlug := mux.Vars(r)["hostSlug"]
	requestID := middleware.RequestIDFromContext(r.Context())

	result, err := h.useCase.Execute(r.Context(), &getHostAvailability.Request{
		HostSlug:  hostSlug,
		RequestID: requestID,
	})
	if err != nil {
		switch {
		case errors.Is(err, getHostAvailability.ErrInvalidInput):
			h.logger.Warn("GET /availability/{hostSlug} - Invalid host slug: %q, request_id=%s", hostSlug, requestID)
			handlers.RespondBadRequest(w, msgMissingHostSlug)

		case errors.Is(err, getHostAvailability.ErrHostNotFound):
			h.logger.Warn("GET /availability/{hostSlug} - Host not found: slug=%q, request_id=%s", hostSlug, requestID)
			handlers.RespondNotFound(w, msgHostNotFound)

		default:
			h.logger.Error("GET /availability/{hostSlug} - Failed to get availability: slug=%q, request_id=%s, error=%v", hostSlug, requestID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /availability/{hostSlug} - Availability retrieved successfully: host_id=%d, rules=%d, booked_slots=%d, request_id=%s",
		result.HostID, len(result.Availability), len(result.BookedSlots), requestID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
