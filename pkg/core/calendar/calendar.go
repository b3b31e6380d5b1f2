package calendar

import (
	"errors"
	"fmt"

	"github.com/teambition/rrule-go"

	"github.com/jakechorley/shift-rota/pkg/core/model"
)

var (
	// ErrInvalidRange is returned when the end date falls before the start date
	ErrInvalidRange = errors.New("end date is before start date")

	// ErrInvalidBoundary is returned for a boundary type other than morning or evening
	ErrInvalidBoundary = errors.New("invalid boundary shift type")
)

// GenerateShifts produces the ordered slot sequence for the inclusive range [start, end].
//
// Slots are ordered by date, and day before night within a date.
//
//   - First day: "morning" emits day and night, "evening" emits night only
//   - Last day: "morning" emits day only, "evening" emits day and night
//   - Days in between emit day and night
//
// When start == end only the first-day rule runs.
func GenerateShifts(start, end model.Date, startBoundary, endBoundary model.BoundaryType) ([]model.ShiftSlot, error) {
	if !startBoundary.IsValid() {
		return nil, fmt.Errorf("%w: start boundary %q", ErrInvalidBoundary, startBoundary)
	}
	if !endBoundary.IsValid() {
		return nil, fmt.Errorf("%w: end boundary %q", ErrInvalidBoundary, endBoundary)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidRange, start, end)
	}

	days, err := daysBetween(start, end)
	if err != nil {
		return nil, err
	}

	slots := make([]model.ShiftSlot, 0, 2*len(days))
	for i, date := range days {
		isFirstDay := i == 0
		isLastDay := i == len(days)-1

		var types []model.ShiftType
		switch {
		case isFirstDay:
			if startBoundary == model.BoundaryMorning {
				types = []model.ShiftType{model.ShiftDay, model.ShiftNight}
			} else {
				types = []model.ShiftType{model.ShiftNight}
			}
		case isLastDay:
			if endBoundary == model.BoundaryMorning {
				types = []model.ShiftType{model.ShiftDay}
			} else {
				types = []model.ShiftType{model.ShiftDay, model.ShiftNight}
			}
		default:
			types = []model.ShiftType{model.ShiftDay, model.ShiftNight}
		}

		for _, t := range types {
			slots = append(slots, model.ShiftSlot{Date: date, Type: t})
		}
	}

	return slots, nil
}

// daysBetween lists every calendar day from start to end inclusive
func daysBetween(start, end model.Date) ([]model.Date, error) {
	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:    rrule.DAILY,
		Dtstart: start.Time(),
		Until:   end.Time(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build daily recurrence: %w", err)
	}

	occurrences := rule.All()
	days := make([]model.Date, 0, len(occurrences))
	for _, occurrence := range occurrences {
		days = append(days, model.DateOf(occurrence))
	}
	return days, nil
}

// Index maps each slot id to its position in the sequence
func Index(slots []model.ShiftSlot) map[model.ShiftID]int {
	index := make(map[model.ShiftID]int, len(slots))
	for i, slot := range slots {
		index[slot.ID()] = i
	}
	return index
}
