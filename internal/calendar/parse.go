package calendar

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"
)

var ErrInvalidDate = errors.New("invalid date")

// Dotted numeric dates are always read month first by the parser, slashes honour the
// day-first preference.
var dottedDate = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{2,4})\b`)

var russianMonths = map[string]string{
	"январь": "Jan", "января": "Jan", "янв": "Jan",
	"февраль": "Feb", "февраля": "Feb", "фев": "Feb",
	"март": "Mar", "марта": "Mar", "мар": "Mar",
	"апрель": "Apr", "апреля": "Apr", "апр": "Apr",
	"май": "May", "мая": "May",
	"июнь": "Jun", "июня": "Jun", "июн": "Jun",
	"июль": "Jul", "июля": "Jul", "июл": "Jul",
	"август": "Aug", "августа": "Aug", "авг": "Aug",
	"сентябрь": "Sep", "сентября": "Sep", "сен": "Sep",
	"октябрь": "Oct", "октября": "Oct", "окт": "Oct",
	"ноябрь": "Nov", "ноября": "Nov", "ноя": "Nov",
	"декабрь": "Dec", "декабря": "Dec", "дек": "Dec",
}

// Weekday names carry no information once the date itself is present.
var russianWeekdays = map[string]struct{}{
	"понедельник": {}, "пн": {},
	"вторник": {}, "вт": {},
	"среда": {}, "ср": {},
	"четверг": {}, "чт": {},
	"пятница": {}, "пт": {},
	"суббота": {}, "сб": {},
	"воскресенье": {}, "вс": {},
	"г": {}, "года": {},
}

// ParseDate parses free-form date text: ISO forms, numeric day-month-year forms and
// Russian month or weekday names. The result keeps the wall clock of the input in UTC.
func ParseDate(raw string) (time.Time, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrInvalidDate)
	}

	parsed, err := dateparse.ParseIn(normalize(text), time.UTC, dateparse.PreferMonthFirst(false))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: '%s' is not a recognised date", ErrInvalidDate, raw)
	}

	return time.Date(parsed.Year(), parsed.Month(), parsed.Day(),
		parsed.Hour(), parsed.Minute(), parsed.Second(), parsed.Nanosecond(), time.UTC), nil
}

func normalize(text string) string {
	return dottedDate.ReplaceAllString(translate(text), "$1/$2/$3")
}

// translate rewrites Cyrillic month names to English abbreviations and drops weekday
// names, leaving everything else untouched.
func translate(text string) string {
	if !hasCyrillic(text) {
		return text
	}

	words := strings.Fields(text)
	out := make([]string, 0, len(words))
	for _, word := range words {
		key := strings.ToLower(strings.Trim(word, ".,"))
		if month, ok := russianMonths[key]; ok {
			out = append(out, month)
			continue
		}
		if _, ok := russianWeekdays[key]; ok {
			continue
		}
		out = append(out, strings.TrimSuffix(word, ","))
	}
	return strings.Join(out, " ")
}

func hasCyrillic(text string) bool {
	for _, r := range text {
		if unicode.Is(unicode.Cyrillic, r) {
			return true
		}
	}
	return false
}
