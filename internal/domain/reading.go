package domain

import "time"

// ReadingCollection коллекция хранилища документов для сохранённых чтений
const ReadingCollection = "reading"

// DateLayout формат дат в API и в документах (ISO, UTC)
const DateLayout = "2006-01-02"

const (
	ScopeDaily   = "daily"
	ScopeWeekly  = "weekly"
	ScopeMonthly = "monthly"

	DefaultScope = ScopeDaily
)

// BirthInfo входные данные для определения знака, не сохраняются
type BirthInfo struct {
	Name      *string
	Birthdate time.Time
}

// HoroscopeRequest запрос на генерацию гороскопа
type HoroscopeRequest struct {
	Sign  string `json:"sign"`
	Scope string `json:"scope"`
}

// Reading сгенерированный гороскоп; ID назначает хранилище
type Reading struct {
	ID      string `json:"id,omitempty"`
	Sign    Sign   `json:"sign"`
	Date    string `json:"date"`
	Content string `json:"content"`
}

// Horoscope результат генерации; ID == nil, если сохранить не удалось
type Horoscope struct {
	Date    string  `json:"date"`
	Sign    Sign    `json:"sign"`
	Scope   string  `json:"scope"`
	Content string  `json:"content"`
	ID      *string `json:"id"`
}

// ReadingFilter фильтр выборки чтений, пустые поля не применяются
type ReadingFilter struct {
	Sign string
	Date string
}

// ReadingCreatedEvent событие о сохранённом чтении для внешних потребителей
type ReadingCreatedEvent struct {
	ID        string    `json:"id"`
	Sign      Sign      `json:"sign"`
	Scope     string    `json:"scope"`
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}
