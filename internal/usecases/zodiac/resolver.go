package zodiac

import (
	"fmt"
	"strings"
	"time"

	"github.com/admin/astro-api/internal/domain"
)

// referenceYear високосный, чтобы 29 февраля нормализовалось без сдвига
const referenceYear = 2000

// MonthDay день в году без привязки к году
type MonthDay struct {
	Month time.Month `json:"month"`
	Day   int        `json:"day"`
}

func (md MonthDay) String() string {
	return fmt.Sprintf("%02d-%02d", int(md.Month), md.Day)
}

func (md MonthDay) onReferenceYear() time.Time {
	return time.Date(referenceYear, md.Month, md.Day, 0, 0, 0, 0, time.UTC)
}

// SignRange закрытый интервал знака; у козерога Start > End, он переходит через год
type SignRange struct {
	Sign  domain.Sign `json:"sign"`
	Start MonthDay    `json:"start"`
	End   MonthDay    `json:"end"`
}

type interval struct {
	sign       domain.Sign
	start, end MonthDay
}

func (i interval) contains(ref time.Time) bool {
	return !ref.Before(i.start.onReferenceYear()) && !ref.After(i.end.onReferenceYear())
}

// intervals покрывают все 366 дней опорного года ровно один раз.
// Козерог разбит на два подынтервала: 1-19 января и 22-31 декабря.
var intervals = []interval{
	{domain.SignCapricorn, MonthDay{time.January, 1}, MonthDay{time.January, 19}},
	{domain.SignAquarius, MonthDay{time.January, 20}, MonthDay{time.February, 18}},
	{domain.SignPisces, MonthDay{time.February, 19}, MonthDay{time.March, 20}},
	{domain.SignAries, MonthDay{time.March, 21}, MonthDay{time.April, 19}},
	{domain.SignTaurus, MonthDay{time.April, 20}, MonthDay{time.May, 20}},
	{domain.SignGemini, MonthDay{time.May, 21}, MonthDay{time.June, 20}},
	{domain.SignCancer, MonthDay{time.June, 21}, MonthDay{time.July, 22}},
	{domain.SignLeo, MonthDay{time.July, 23}, MonthDay{time.August, 22}},
	{domain.SignVirgo, MonthDay{time.August, 23}, MonthDay{time.September, 22}},
	{domain.SignLibra, MonthDay{time.September, 23}, MonthDay{time.October, 22}},
	{domain.SignScorpio, MonthDay{time.October, 23}, MonthDay{time.November, 21}},
	{domain.SignSagittarius, MonthDay{time.November, 22}, MonthDay{time.December, 21}},
	{domain.SignCapricorn, MonthDay{time.December, 22}, MonthDay{time.December, 31}},
}

// Resolve определяет солнечный знак по дате рождения, год не учитывается
func Resolve(birthdate time.Time) (domain.Sign, error) {
	ref := time.Date(referenceYear, birthdate.Month(), birthdate.Day(), 0, 0, 0, 0, time.UTC)

	// time.Date нормализует 30 февраля в 1 марта, такой сдвиг считаем ошибкой
	if ref.Month() != birthdate.Month() || ref.Day() != birthdate.Day() {
		return "", fmt.Errorf("%s: %w", birthdate.Format(domain.DateLayout), domain.ErrInvalidDate)
	}

	for _, i := range intervals {
		if i.contains(ref) {
			return i.sign, nil
		}
	}

	return "", fmt.Errorf("no sign covers %s: %w", ref.Format("01-02"), domain.ErrInvalidDate)
}

// ParseBirthdate разбирает дату в формате YYYY-MM-DD
func ParseBirthdate(raw string) (time.Time, error) {
	birthdate, err := time.Parse(domain.DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("%q: %w", raw, domain.ErrInvalidDate)
	}
	return birthdate, nil
}

// Range возвращает интервал знака
func Range(sign domain.Sign) (SignRange, error) {
	if !sign.IsValid() {
		return SignRange{}, fmt.Errorf("%q: %w", sign, domain.ErrUnknownSign)
	}

	if sign == domain.SignCapricorn {
		// первый подынтервал январский, второй декабрьский
		return SignRange{
			Sign:  sign,
			Start: intervals[len(intervals)-1].start,
			End:   intervals[0].end,
		}, nil
	}

	for _, i := range intervals {
		if i.sign == sign {
			return SignRange{Sign: sign, Start: i.start, End: i.end}, nil
		}
	}

	return SignRange{}, fmt.Errorf("%q: %w", sign, domain.ErrUnknownSign)
}

// Ranges интервалы всех знаков в порядке domain.Signs
func Ranges() []SignRange {
	ranges := make([]SignRange, 0, len(domain.Signs))
	for _, sign := range domain.Signs {
		r, err := Range(sign)
		if err != nil {
			continue
		}
		ranges = append(ranges, r)
	}
	return ranges
}
