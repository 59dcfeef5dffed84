package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xaenox/commute-alert-bot/internal/models"
)

var ErrInvalidTime = errors.New("invalid time of day")

// ParseDayTime parses a 24-hour "HH:MM" string entered during onboarding.
func ParseDayTime(s string) (models.DayTime, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return models.DayTime{}, fmt.Errorf("%w: expected HH:MM, got %q", ErrInvalidTime, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return models.DayTime{}, fmt.Errorf("%w: bad hour in %q", ErrInvalidTime, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return models.DayTime{}, fmt.Errorf("%w: bad minute in %q", ErrInvalidTime, s)
	}
	return models.DayTime{Hour: h, Minute: m}, nil
}
