package domain

import "time"

// BookingStatus статус бронирования
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// Booking бронирование у хоста
// Создается внешним потоком запроса бронирования, здесь только читается
type Booking struct {
	ID          int64
	HostID      int64
	StartTime   time.Time
	EndTime     time.Time
	ClientEmail string
	ClientName  string
	Status      BookingStatus
	CreatedAt   time.Time
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// Duration длительность бронирования
func (b *Booking) Duration() time.Duration {
	return b.EndTime.Sub(b.StartTime)
}
