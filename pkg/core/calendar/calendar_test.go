package calendar

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/shift-rota/pkg/core/model"
)

var dateComparer = cmp.Comparer(func(a, b model.Date) bool { return a == b })

func slot(date string, t model.ShiftType) model.ShiftSlot {
	return model.ShiftSlot{Date: model.MustParseDate(date), Type: t}
}

func TestGenerateShifts_SingleDayMorning(t *testing.T) {
	d := model.MustParseDate("2024-01-07")

	slots, err := GenerateShifts(d, d, model.BoundaryMorning, model.BoundaryMorning)
	require.NoError(t, err)

	assert.Equal(t, []model.ShiftSlot{
		slot("2024-01-07", model.ShiftDay),
		slot("2024-01-07", model.ShiftNight),
	}, slots)
}

func TestGenerateShifts_SingleDayEvening(t *testing.T) {
	d := model.MustParseDate("2024-01-07")

	// The end boundary is ignored for a single day; only the start rule runs
	for _, endBoundary := range []model.BoundaryType{model.BoundaryMorning, model.BoundaryEvening} {
		slots, err := GenerateShifts(d, d, model.BoundaryEvening, endBoundary)
		require.NoError(t, err)

		assert.Equal(t, []model.ShiftSlot{slot("2024-01-07", model.ShiftNight)}, slots)
	}
}

func TestGenerateShifts_Boundaries(t *testing.T) {
	tests := []struct {
		name          string
		startBoundary model.BoundaryType
		endBoundary   model.BoundaryType
		expected      []model.ShiftSlot
	}{
		{
			name:          "morning to evening",
			startBoundary: model.BoundaryMorning,
			endBoundary:   model.BoundaryEvening,
			expected: []model.ShiftSlot{
				slot("2024-01-01", model.ShiftDay),
				slot("2024-01-01", model.ShiftNight),
				slot("2024-01-02", model.ShiftDay),
				slot("2024-01-02", model.ShiftNight),
			},
		},
		{
			name:          "evening to morning",
			startBoundary: model.BoundaryEvening,
			endBoundary:   model.BoundaryMorning,
			expected: []model.ShiftSlot{
				slot("2024-01-01", model.ShiftNight),
				slot("2024-01-02", model.ShiftDay),
			},
		},
		{
			name:          "morning to morning",
			startBoundary: model.BoundaryMorning,
			endBoundary:   model.BoundaryMorning,
			expected: []model.ShiftSlot{
				slot("2024-01-01", model.ShiftDay),
				slot("2024-01-01", model.ShiftNight),
				slot("2024-01-02", model.ShiftDay),
			},
		},
		{
			name:          "evening to evening",
			startBoundary: model.BoundaryEvening,
			endBoundary:   model.BoundaryEvening,
			expected: []model.ShiftSlot{
				slot("2024-01-01", model.ShiftNight),
				slot("2024-01-02", model.ShiftDay),
				slot("2024-01-02", model.ShiftNight),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots, err := GenerateShifts(
				model.MustParseDate("2024-01-01"),
				model.MustParseDate("2024-01-02"),
				tt.startBoundary,
				tt.endBoundary,
			)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.expected, slots, dateComparer); diff != "" {
				t.Errorf("GenerateShifts() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGenerateShifts_MiddleDaysComplete(t *testing.T) {
	start := model.MustParseDate("2024-02-26")
	end := model.MustParseDate("2024-03-03") // crosses a leap day and a month end

	slots, err := GenerateShifts(start, end, model.BoundaryEvening, model.BoundaryMorning)
	require.NoError(t, err)

	// 1 (first) + 5*2 (middle) + 1 (last)
	require.Len(t, slots, 12)

	byDate := make(map[model.Date][]model.ShiftType)
	for _, s := range slots {
		byDate[s.Date] = append(byDate[s.Date], s.Type)
	}

	for d := start.AddDays(1); d.Before(end); d = d.AddDays(1) {
		assert.Equal(t, []model.ShiftType{model.ShiftDay, model.ShiftNight}, byDate[d], "date %s", d)
	}
	assert.Contains(t, byDate, model.MustParseDate("2024-02-29"))
}

func TestGenerateShifts_OrderedAndUnique(t *testing.T) {
	slots, err := GenerateShifts(
		model.MustParseDate("2024-01-01"),
		model.MustParseDate("2024-01-10"),
		model.BoundaryMorning,
		model.BoundaryEvening,
	)
	require.NoError(t, err)

	seen := make(map[model.ShiftID]bool)
	for i, s := range slots {
		assert.False(t, seen[s.ID()], "duplicate slot %s", s)
		seen[s.ID()] = true

		if i == 0 {
			continue
		}
		prev := slots[i-1]
		if prev.Date == s.Date {
			assert.Equal(t, model.ShiftDay, prev.Type)
			assert.Equal(t, model.ShiftNight, s.Type)
		} else {
			assert.Equal(t, prev.Date.AddDays(1), s.Date)
		}
	}
}

func TestGenerateShifts_Deterministic(t *testing.T) {
	start := model.MustParseDate("2024-01-01")
	end := model.MustParseDate("2024-01-05")

	first, err := GenerateShifts(start, end, model.BoundaryEvening, model.BoundaryMorning)
	require.NoError(t, err)
	second, err := GenerateShifts(start, end, model.BoundaryEvening, model.BoundaryMorning)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGenerateShifts_EndBeforeStart(t *testing.T) {
	_, err := GenerateShifts(
		model.MustParseDate("2024-01-07"),
		model.MustParseDate("2024-01-06"),
		model.BoundaryMorning,
		model.BoundaryEvening,
	)

	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestGenerateShifts_InvalidBoundary(t *testing.T) {
	d := model.MustParseDate("2024-01-07")

	_, err := GenerateShifts(d, d, "noon", model.BoundaryEvening)
	assert.ErrorIs(t, err, ErrInvalidBoundary)

	_, err = GenerateShifts(d, d, model.BoundaryMorning, "")
	assert.ErrorIs(t, err, ErrInvalidBoundary)
}

func TestIndex(t *testing.T) {
	slots := []model.ShiftSlot{
		slot("2024-01-01", model.ShiftNight),
		slot("2024-01-02", model.ShiftDay),
	}

	index := Index(slots)

	assert.Equal(t, 0, index[slots[0].ID()])
	assert.Equal(t, 1, index[slots[1].ID()])
	_, ok := index[slot("2024-01-02", model.ShiftNight).ID()]
	assert.False(t, ok)
}
