// Package expiry содержит чистые функции расчёта срока действия инцидента
// и человекочитаемого оставшегося времени. Текущее время всегда передаётся
// аргументом, функции не выполняют ввод-вывод.
package expiry

import (
	"fmt"
	"strings"
	"time"
)

// Unit - единица длительности, в которой оператор задаёт срок действия.
type Unit string

const (
	UnitHours Unit = "HOURS"
	UnitDays  Unit = "DAYS"
)

// Expired - метка полностью истёкшего инцидента.
const Expired = "Expired"

// Normalize переводит пару (значение, единица) в time.Duration.
func Normalize(value int, unit Unit) (time.Duration, error) {
	if value <= 0 {
		return 0, fmt.Errorf("duration value must be positive, got %d", value)
	}
	switch Unit(strings.ToUpper(string(unit))) {
	case UnitHours:
		return time.Duration(value) * time.Hour, nil
	case UnitDays:
		return time.Duration(value) * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("unknown duration unit %q", unit)
	}
}

// Resolve вычисляет абсолютный момент истечения для нового инцидента.
// Приоритет: явный expiryTime, затем пара длительность+единица от now,
// иначе fallback (по умолчанию 24 часа) от now.
func Resolve(now time.Time, explicit *time.Time, value *int, unit *string, fallback time.Duration) time.Time {
	if explicit != nil && !explicit.IsZero() {
		return *explicit
	}
	if value != nil && unit != nil {
		if d, err := Normalize(*value, Unit(*unit)); err == nil {
			return now.Add(d)
		}
	}
	return now.Add(fallback)
}

// Remaining возвращает оставшееся до истечения время. Отрицательное
// значение означает, что инцидент уже истёк.
func Remaining(now, expiry time.Time) time.Duration {
	return expiry.Sub(now)
}

// FormatRemaining форматирует оставшееся время так же, как это делал
// клиентский интерфейс: дни при сроке больше суток, иначе часы и минуты.
func FormatRemaining(now, expiry time.Time) string {
	diff := Remaining(now, expiry)
	if diff <= 0 {
		return Expired
	}
	return formatDelta(diff) + " remaining"
}

// FormatUntilStart форматирует время до будущего начала инцидента.
func FormatUntilStart(now, start time.Time) string {
	return "Starts in " + formatDelta(start.Sub(now))
}

// Describe выбирает подпись для инцидента: "Starts in ..." для ещё не
// начавшегося, иначе оставшееся время по обычному правилу.
func Describe(now, start, expiry time.Time) string {
	if start.After(now) {
		return FormatUntilStart(now, start)
	}
	return FormatRemaining(now, expiry)
}

func formatDelta(diff time.Duration) string {
	hours := int(diff / time.Hour)
	minutes := int(diff%time.Hour) / int(time.Minute)

	if hours > 24 {
		days := hours / 24
		if days > 1 {
			return fmt.Sprintf("%d days", days)
		}
		return "1 day"
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
