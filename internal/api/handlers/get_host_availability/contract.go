package get_host_availability

import (
	"context"

	getHostAvailability "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_host_availability"
)

type GetHostAvailabilityUseCase interface {
	Execute(ctx context.Context, req *getHostAvailability.Request) (*getHostAvailability.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
