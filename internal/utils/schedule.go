package utils

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrDayOutOfRange возвращается для дня недели вне диапазона 1..7.
	ErrDayOutOfRange = errors.New("work day out of range")
	// ErrStartAfterEnd возвращается, когда начало рабочего дня не раньше конца.
	ErrStartAfterEnd = errors.New("work hours start must be before end")
)

// ParseWorkDays разбирает строку рабочих дней вида "1,2,3,4,5,6",
// где 1 — понедельник, 7 — воскресенье.
func ParseWorkDays(workDays string) ([]int, error) {
	if strings.TrimSpace(workDays) == "" {
		return nil, nil
	}

	parts := strings.Split(workDays, ",")
	days := make([]int, 0, len(parts))
	seen := make(map[int]bool, len(parts))

	for _, part := range parts {
		day, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		if day < 1 || day > 7 {
			return nil, ErrDayOutOfRange
		}
		if seen[day] {
			continue
		}
		seen[day] = true
		days = append(days, day)
	}

	return days, nil
}

// ValidateWorkHours проверяет, что часы заданы в формате "15:04"
// и начало рабочего дня раньше его конца.
func ValidateWorkHours(start, end string) error {
	startTime, err := time.Parse("15:04", start)
	if err != nil {
		return err
	}
	endTime, err := time.Parse("15:04", end)
	if err != nil {
		return err
	}
	if !startTime.Before(endTime) {
		return ErrStartAfterEnd
	}
	return nil
}
