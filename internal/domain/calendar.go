package domain

import "time"

// CalendarProvider тип внешнего календаря
type CalendarProvider string

const (
	ProviderGoogle CalendarProvider = "google"
	ProviderCalDAV CalendarProvider = "caldav"
)

// BusyInterval интервал занятости из внешнего календаря (не хранится)
type BusyInterval struct {
	Start time.Time
	End   time.Time
}

// CalendarConnection подключенный внешний календарь хоста
type CalendarConnection struct {
	ID         int64
	HostID     int64
	Provider   CalendarProvider
	CalendarID string // google: ID календаря ("primary"); caldav: путь коллекции

	// OAuth2 (google)
	AccessToken  *string
	RefreshToken *string
	TokenExpiry  *time.Time

	// CalDAV
	Endpoint *string
	Username *string
	Password *string
}
