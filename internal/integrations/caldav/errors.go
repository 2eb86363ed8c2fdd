package caldav

import "errors"

var (
	// ErrMissingCredentials возвращается, если у подключения нет endpoint
	ErrMissingCredentials = errors.New("caldav client: connection has no endpoint")

	// ErrRequestFailed возвращается при ошибке запроса к CalDAV серверу
	ErrRequestFailed = errors.New("caldav client: request failed")

	// ErrInvalidResponse возвращается при некорректных данных календаря
	ErrInvalidResponse = errors.New("caldav client: invalid response")
)
