package allocator

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/jakechorley/shift-rota/pkg/core/model"
)

// SabbathPairing selects how Sabbath-observant employees are placed on Sabbath days
type SabbathPairing string

const (
	// SabbathPairingLegacy requires the slots immediately before and after the current one
	// to share its date. With at most two slots per date this never holds, so observant
	// employees are never placed on Sabbath days.
	SabbathPairingLegacy SabbathPairing = "legacy"

	// SabbathPairingAcrossBoundary pairs a night slot on a Sabbath day with the day slot of
	// the following (also Sabbath) date. The employee takes both or neither.
	SabbathPairingAcrossBoundary SabbathPairing = "across-boundary"
)

func (p SabbathPairing) IsValid() bool {
	return p == SabbathPairingLegacy || p == SabbathPairingAcrossBoundary
}

// DefaultSabbathRRule marks Friday and Saturday
const DefaultSabbathRRule = "FREQ=WEEKLY;BYDAY=FR,SA"

// SabbathDaysFromRRule expands a weekly RRULE into the set of weekdays it covers
func SabbathDaysFromRRule(rule string) ([]time.Weekday, error) {
	parsed, err := rrule.StrToRRule(rule)
	if err != nil {
		return nil, fmt.Errorf("invalid sabbath rrule %q: %w", rule, err)
	}

	// Any full week will do; 2024-01-01 is a Monday
	weekStart := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	weekEnd := weekStart.AddDate(0, 0, 6)
	parsed.DTStart(weekStart)

	seen := make(map[time.Weekday]bool)
	var days []time.Weekday
	for _, occurrence := range parsed.Between(weekStart, weekEnd, true) {
		if !seen[occurrence.Weekday()] {
			seen[occurrence.Weekday()] = true
			days = append(days, occurrence.Weekday())
		}
	}

	return days, nil
}

type pairingResult int

const (
	// pairingNotApplicable means the ordinary assignment path applies
	pairingNotApplicable pairingResult = iota
	pairingAssigned
	pairingSkipped
)

// trySabbathPairing handles a Sabbath-observant employee taken from the pool for slot i
func (a *Allocator) trySabbathPairing(i int, emp *model.Employee, list listKind) pairingResult {
	state := a.state
	slot := state.Slots[i]

	if !emp.IsSabbathObservant || !state.IsSabbath(slot.Date) {
		return pairingNotApplicable
	}

	switch state.SabbathPairing {
	case SabbathPairingAcrossBoundary:
		return a.pairAcrossBoundary(i, emp, list)
	default:
		return a.pairLegacy(i, emp, list)
	}
}

// pairLegacy requires both neighbours to exist and to share the current slot's date
func (a *Allocator) pairLegacy(i int, emp *model.Employee, list listKind) pairingResult {
	state := a.state
	slot := state.Slots[i]

	if i == 0 || i+1 >= len(state.Slots) {
		return pairingSkipped
	}
	prev := state.Slots[i-1]
	next := state.Slots[i+1]

	if prev.Date != slot.Date || next.Date != slot.Date {
		return pairingSkipped
	}
	if !a.isAvailable(emp, slot) || emp.IsConstrained(prev.ID()) || emp.IsConstrained(next.ID()) {
		return pairingSkipped
	}

	restUntil := state.Clock.Stamp(next)
	a.assign(i, emp, list, 2, restUntil)
	state.Paired[pairKey{EmployeeID: emp.ID, SlotIndex: i}] = restUntil

	return pairingAssigned
}

// pairAcrossBoundary pairs the night slot of one Sabbath day with the next date's day slot
func (a *Allocator) pairAcrossBoundary(i int, emp *model.Employee, list listKind) pairingResult {
	state := a.state
	slot := state.Slots[i]

	if a.startsSabbathPair(i) {
		next := state.Slots[i+1]

		if emp.IsConstrained(next.ID()) {
			return pairingSkipped
		}
		if state.Clock.Stamp(next).Sub(state.Clock.Stamp(slot)) < state.RestPeriod {
			return pairingSkipped
		}
		if !a.hasReservationRoom(i+1, list) {
			return pairingSkipped
		}

		restUntil := state.Clock.Stamp(next)
		a.assign(i, emp, list, 2, restUntil)
		state.reservations[i+1] = append(state.reservations[i+1], reservation{EmployeeID: emp.ID, List: list})
		state.Paired[pairKey{EmployeeID: emp.ID, SlotIndex: i}] = restUntil
		state.Paired[pairKey{EmployeeID: emp.ID, SlotIndex: i + 1}] = restUntil

		a.logger.Debug("Sabbath pair reserved",
			zapEmployee(emp),
			zapSlot(slot),
			zapSlot(next))
		return pairingAssigned
	}

	// A Sabbath night whose partner day is outside the sequence cannot be paired
	if slot.Type == model.ShiftNight && state.IsSabbath(slot.Date.AddDays(1)) {
		return pairingSkipped
	}

	// The day half of a pair is only filled through a reservation, even when the
	// night before is outside the sequence
	if slot.Type == model.ShiftDay && state.IsSabbath(slot.Date.AddDays(-1)) {
		return pairingSkipped
	}

	return pairingNotApplicable
}

// startsSabbathPair reports whether slot i is a Sabbath night followed by the next
// Sabbath date's day slot
func (a *Allocator) startsSabbathPair(i int) bool {
	state := a.state
	if i+1 >= len(state.Slots) {
		return false
	}
	slot := state.Slots[i]
	next := state.Slots[i+1]

	return slot.Type == model.ShiftNight &&
		next.Type == model.ShiftDay &&
		next.Date == slot.Date.AddDays(1) &&
		state.IsSabbath(slot.Date) &&
		state.IsSabbath(next.Date)
}

func (a *Allocator) hasReservationRoom(i int, list listKind) bool {
	quota := a.state.Quota(i)
	limit := quota.Juniors
	if list == seniorList {
		limit = quota.Seniors
	}

	reserved := 0
	for _, r := range a.state.reservations[i] {
		if r.List == list {
			reserved++
		}
	}
	return reserved < limit
}

// applyReservations places employees reserved by an earlier Sabbath pairing
func (a *Allocator) applyReservations(i int) {
	assignment := a.state.Assignments[i]
	for _, r := range a.state.reservations[i] {
		if r.List == seniorList {
			assignment.Seniors = append(assignment.Seniors, r.EmployeeID)
		} else {
			assignment.Juniors = append(assignment.Juniors, r.EmployeeID)
		}
	}
}
