package googlecalendar

import "errors"

var (
	// ErrMissingCredentials возвращается, если у подключения нет OAuth2 токенов
	ErrMissingCredentials = errors.New("googlecalendar client: connection has no oauth2 tokens")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("googlecalendar client: internal error")

	// ErrRequestFailed возвращается при ошибке запроса к Calendar API
	ErrRequestFailed = errors.New("googlecalendar client: request failed")

	// ErrInvalidResponse возвращается при некорректном ответе Calendar API
	ErrInvalidResponse = errors.New("googlecalendar client: invalid response")
)
