package horoscope

import (
	"strings"
	"time"

	"github.com/admin/astro-api/internal/domain"
	"github.com/admin/astro-api/internal/usecases/horoscope/texts"
)

// Generate строит текст гороскопа; чистая функция, сохранение решает вызывающий
func Generate(sign string, scope string, asOf time.Time) (string, error) {
	s, err := domain.ParseSign(sign)
	if err != nil {
		return "", err
	}

	return texts.FormatHoroscope(s.String(), normalizeScope(scope), asOf.UTC().Format(domain.DateLayout)), nil
}

func normalizeScope(scope string) string {
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return domain.DefaultScope
	}
	return scope
}
