package domain

import "strings"

// Host пользователь, чье расписание запрашивается (таблица users)
type Host struct {
	ID           int64
	Name         string
	Email        string
	Timezone     *string // IANA, например "America/New_York"; NULL = часовой пояс по умолчанию
	PrimaryColor *string // цвет бренда для виджета бронирования
}

// NormalizeNameSlug приводит имя или слаг к виду для сравнения:
// без пробелов по краям, нижний регистр, пробелы и подчеркивания заменены на "-"
//
// "John Doe" -> "john-doe", "john_doe" -> "john-doe"
func NormalizeNameSlug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "-", "_", "-").Replace(s)
}
