package externalcalendar

import "errors"

var (
	// ErrUpstreamDegraded возвращается, когда занятость из внешних календарей получить не удалось
	// Вызывающий код должен продолжить работу без внешней занятости
	ErrUpstreamDegraded = errors.New("external calendars unavailable: graceful degradation applied")
)
