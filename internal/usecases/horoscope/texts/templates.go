package texts

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// HoroscopeTemplate знак, горизонт, дата, текст; порядок полей разбирают клиенты
	HoroscopeTemplate = "%s %s Horoscope for %s: %s"

	HoroscopeBody = "Energy favors thoughtful planning. Stay open to small surprises; " +
		"a conversation could point you toward a useful opportunity."
)

// FormatHoroscope форматирует текст гороскопа
func FormatHoroscope(sign, scope, date string) string {
	return fmt.Sprintf(HoroscopeTemplate, TitleCase(sign), TitleCase(scope), date, HoroscopeBody)
}

// TitleCase первая буква каждого слова заглавная, остальные строчные.
// cases.Caser хранит состояние, поэтому создаётся на каждый вызов.
func TitleCase(s string) string {
	return cases.Title(language.Und).String(s)
}
