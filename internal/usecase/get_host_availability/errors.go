package get_host_availability

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrHostNotFound возвращается, когда ни одна стратегия поиска не нашла хоста
	ErrHostNotFound = errors.New("host not found")

	// ErrInvalidRule возвращается, когда хранимое правило доступности некорректно
	ErrInvalidRule = errors.New("invalid availability rule")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
