package services

import (
	"testing"
	"time"

	model "github.com/dvornik/dealdesk/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKnownValues() KnownValues {
	return KnownValues{
		Phases:     builtinValues[NamespacePhase],
		Categories: builtinValues[NamespaceCategory],
		Owners:     []string{"alice", "bob"},
	}
}

func groupTotal(groups []TaskGroup) int {
	total := 0
	for _, g := range groups {
		total += len(g.Tasks)
	}
	return total
}

func TestGroupTasks_ByPhase(t *testing.T) {
	tasks := []model.Task{
		{ID: "t1", Title: "A", Phase: "due_diligence"},
		{ID: "t2", Title: "B", Phase: "due_diligence"},
		{ID: "t3", Title: "C", Phase: "closing"},
	}

	groups, err := GroupTasks(tasks, ViewByPhase, TaskFilters{}, testKnownValues(), false)
	require.NoError(t, err)

	// Empty groups are pruned; seeded order is kept.
	require.Len(t, groups, 2)
	assert.Equal(t, "due_diligence", groups[0].Key)
	assert.Len(t, groups[0].Tasks, 2)
	assert.Equal(t, "closing", groups[1].Key)
	assert.Equal(t, len(tasks), groupTotal(groups))
}

func TestGroupTasks_UnknownValueGetsAdHocGroup(t *testing.T) {
	// "integration_planning" was removed from the taxonomy, the task keeps it.
	tasks := []model.Task{
		{ID: "t1", Title: "A", Phase: "integration_planning"},
		{ID: "t2", Title: "B", Phase: "closing"},
	}

	groups, err := GroupTasks(tasks, ViewByPhase, TaskFilters{}, testKnownValues(), false)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	// Seeded groups come first, ad hoc groups follow.
	assert.Equal(t, "closing", groups[0].Key)
	assert.Equal(t, "integration_planning", groups[1].Key)
	assert.Equal(t, "t1", groups[1].Tasks[0].ID, "task with an unknown value must never be dropped")
}

func TestGroupTasks_ByOwnerWithUnassignedSentinel(t *testing.T) {
	tasks := []model.Task{
		{ID: "t1", AssignedTo: "alice"},
		{ID: "t2", AssignedTo: ""},
		{ID: "t3", AssignedTo: "carol"}, // not in the known owner set
	}

	groups, err := GroupTasks(tasks, ViewByOwner, TaskFilters{}, testKnownValues(), false)
	require.NoError(t, err)
	require.Len(t, groups, 3)
	assert.Equal(t, "alice", groups[0].Key)
	assert.Equal(t, OwnerUnassigned, groups[1].Key)
	assert.Equal(t, "carol", groups[2].Key)
}

func TestGroupTasks_OwnerLiterallyNamedUnassigned(t *testing.T) {
	// An owner whose name equals the sentinel puts "unassigned" into the
	// known owner set, so the seed list carries it twice. The group must
	// still be emitted once, with every task in exactly one group.
	tasks := []model.Task{
		{ID: "t1", AssignedTo: "unassigned"},
		{ID: "t2", AssignedTo: ""},
	}
	known := KnownValues{Owners: []string{"unassigned"}}

	groups, err := GroupTasks(tasks, ViewByOwner, TaskFilters{}, known, false)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, OwnerUnassigned, groups[0].Key)
	assert.Equal(t, len(tasks), groupTotal(groups))

	seen := make(map[string]int)
	for _, group := range groups {
		for _, task := range group.Tasks {
			seen[task.ID]++
		}
	}
	for id, count := range seen {
		assert.Equal(t, 1, count, "task %s must appear in exactly one group", id)
	}
}

func TestGroupTasks_FilterByUnassigned(t *testing.T) {
	tasks := []model.Task{
		{ID: "t1", AssignedTo: "alice", Phase: "closing"},
		{ID: "t2", AssignedTo: "", Phase: "closing"},
	}

	groups, err := GroupTasks(tasks, ViewByPhase, TaskFilters{Owner: OwnerUnassigned}, testKnownValues(), false)
	require.NoError(t, err)
	require.Equal(t, 1, groupTotal(groups))
	assert.Equal(t, "t2", groups[0].Tasks[0].ID)
}

func TestGroupTasks_FiltersAreConjunctive(t *testing.T) {
	tasks := []model.Task{
		{ID: "t1", Phase: "closing", Category: "legal", Status: "in_progress"},
		{ID: "t2", Phase: "closing", Category: "financial", Status: "in_progress"},
		{ID: "t3", Phase: "closing", Category: "legal", Status: StatusNotStarted},
	}

	groups, err := GroupTasks(tasks, ViewByCategory, TaskFilters{Phase: "closing", Category: "legal", Status: "in_progress"}, testKnownValues(), false)
	require.NoError(t, err)
	require.Equal(t, 1, groupTotal(groups))
	assert.Equal(t, "t1", groups[0].Tasks[0].ID)
}

func TestGroupTasks_FilterByRemovedCustomValueStillMatches(t *testing.T) {
	// Filtering is literal field equality, never taxonomy-set membership:
	// tasks carrying a removed custom value still match a filter on it.
	tasks := []model.Task{
		{ID: "t1", Phase: "integration_planning"},
		{ID: "t2", Phase: "closing"},
	}

	groups, err := GroupTasks(tasks, ViewByPhase, TaskFilters{Phase: "integration_planning"}, testKnownValues(), false)
	require.NoError(t, err)
	require.Equal(t, 1, groupTotal(groups))
	assert.Equal(t, "t1", groups[0].Tasks[0].ID)
}

func TestGroupTasks_Completeness(t *testing.T) {
	tasks := []model.Task{
		{ID: "t1", Phase: "preliminary", Category: "tax", AssignedTo: "alice"},
		{ID: "t2", Phase: "mystery_phase", Category: "hr"},
		{ID: "t3", Phase: "closing", Category: "other_category", AssignedTo: "dave"},
		{ID: "t4"},
	}

	for _, mode := range []ViewMode{ViewByPhase, ViewByCategory, ViewByOwner, ViewByDate} {
		groups, err := GroupTasks(tasks, mode, TaskFilters{}, testKnownValues(), false)
		require.NoError(t, err)

		seen := make(map[string]int)
		for _, group := range groups {
			for _, task := range group.Tasks {
				seen[task.ID]++
			}
		}
		assert.Len(t, seen, len(tasks), "mode %s must keep every task", mode)
		for id, count := range seen {
			assert.Equal(t, 1, count, "mode %s must place task %s in exactly one group", mode, id)
		}
	}
}

func TestGroupTasks_DateViewSortsWithUndatedLast(t *testing.T) {
	jan5 := date(2024, time.January, 5)
	jan2 := date(2024, time.January, 2)
	jan9 := date(2024, time.January, 9)
	tasks := []model.Task{
		{ID: "t1", DueDate: &jan5},
		{ID: "t2"},
		{ID: "t3", DueDate: &jan2},
		{ID: "t4", DueDate: &jan9},
	}

	asc, err := GroupTasks(tasks, ViewByDate, TaskFilters{}, testKnownValues(), false)
	require.NoError(t, err)
	require.Len(t, asc, 1)
	assert.Equal(t, "all", asc[0].Key)
	ids := func(groups []TaskGroup) []string {
		var out []string
		for _, task := range groups[0].Tasks {
			out = append(out, task.ID)
		}
		return out
	}
	assert.Equal(t, []string{"t3", "t1", "t4", "t2"}, ids(asc), "ascending with undated last")

	desc, err := GroupTasks(tasks, ViewByDate, TaskFilters{}, testKnownValues(), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"t4", "t1", "t3", "t2"}, ids(desc), "descending with undated still last")
}

func TestGroupTasks_DateViewPrunedWhenFiltersExcludeEverything(t *testing.T) {
	tasks := []model.Task{
		{ID: "t1", Phase: "closing"},
		{ID: "t2", Phase: "closing"},
	}

	groups, err := GroupTasks(tasks, ViewByDate, TaskFilters{Phase: "preliminary"}, testKnownValues(), false)
	require.NoError(t, err)
	assert.Empty(t, groups, "date view must prune its group like the other modes")
}

func TestGroupTasks_DateViewDoesNotReorderInput(t *testing.T) {
	jan5 := date(2024, time.January, 5)
	jan2 := date(2024, time.January, 2)
	tasks := []model.Task{
		{ID: "t1", DueDate: &jan5},
		{ID: "t2", DueDate: &jan2},
	}

	_, err := GroupTasks(tasks, ViewByDate, TaskFilters{}, testKnownValues(), false)
	require.NoError(t, err)
	assert.Equal(t, "t1", tasks[0].ID, "input slice must not be reordered")
}

func TestGroupTasks_UnknownViewMode(t *testing.T) {
	_, err := GroupTasks(nil, ViewMode("timeline"), TaskFilters{}, testKnownValues(), false)
	var validation *ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestGroupTasks_PureOfFilters(t *testing.T) {
	// The same task list with different filters must yield different results:
	// no caching keyed on tasks alone.
	tasks := []model.Task{
		{ID: "t1", Phase: "closing"},
		{ID: "t2", Phase: "preliminary"},
	}

	all, err := GroupTasks(tasks, ViewByPhase, TaskFilters{}, testKnownValues(), false)
	require.NoError(t, err)
	filtered, err := GroupTasks(tasks, ViewByPhase, TaskFilters{Phase: "closing"}, testKnownValues(), false)
	require.NoError(t, err)

	assert.Equal(t, 2, groupTotal(all))
	assert.Equal(t, 1, groupTotal(filtered))
}
