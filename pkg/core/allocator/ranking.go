package allocator

import (
	"sort"

	"github.com/jakechorley/shift-rota/pkg/core/model"
)

// RankCandidates returns a sorted copy of the pool for the given slot.
//
// Employees who prefer the slot come first; within equal preference the employee with
// the fewest shifts so far comes first. The sort is stable, so remaining ties keep
// roster order.
func RankCandidates(pool []*model.Employee, slotID model.ShiftID) []*model.Employee {
	ranked := make([]*model.Employee, len(pool))
	copy(ranked, pool)

	sort.SliceStable(ranked, func(i, j int) bool {
		prefersI := ranked[i].Prefers(slotID)
		prefersJ := ranked[j].Prefers(slotID)
		if prefersI != prefersJ {
			return prefersI
		}
		return ranked[i].ShiftCount < ranked[j].ShiftCount
	})

	return ranked
}
