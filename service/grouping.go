package services

import (
	"fmt"
	"sort"

	model "github.com/dvornik/dealdesk/models"
)

// ViewMode is the dimension a task collection is partitioned by for display.
type ViewMode string

const (
	ViewByPhase    ViewMode = "phase"
	ViewByCategory ViewMode = "category"
	ViewByOwner    ViewMode = "owner"
	ViewByDate     ViewMode = "date"
)

// OwnerUnassigned is the sentinel group and filter value for tasks without
// an assignee.
const OwnerUnassigned = "unassigned"

// TaskFilters is a conjunctive set of optional equality constraints. Empty
// fields are unset. Matching is literal field equality: a filter value that
// was removed from the taxonomy still matches tasks carrying it.
type TaskFilters struct {
	Phase    string `form:"phase" json:"phase"`
	Category string `form:"category" json:"category"`
	Owner    string `form:"owner" json:"owner"`
	Status   string `form:"status" json:"status"`
}

// KnownValues seeds the groups of a partition: the current taxonomy values
// per namespace plus the known owners. Tasks with values outside these sets
// still get their own ad hoc group.
type KnownValues struct {
	Phases     []string
	Categories []string
	Owners     []string
}

// TaskGroup is one partition of the result, keyed by the grouping value.
type TaskGroup struct {
	Key   string       `json:"key"`
	Tasks []model.Task `json:"tasks"`
}

func matchesFilters(task model.Task, filters TaskFilters) bool {
	if filters.Phase != "" && task.Phase != filters.Phase {
		return false
	}
	if filters.Category != "" && task.Category != filters.Category {
		return false
	}
	if filters.Status != "" && task.Status != filters.Status {
		return false
	}
	if filters.Owner != "" {
		if filters.Owner == OwnerUnassigned {
			if task.AssignedTo != "" {
				return false
			}
		} else if task.AssignedTo != filters.Owner {
			return false
		}
	}
	return true
}

// GroupTasks partitions a task collection per the view mode, filtering
// first. It is a pure function of its inputs: every surviving task lands in
// exactly one group, unknown values get ad hoc groups keyed by the raw
// value, empty groups are pruned. For the date view the result is at most
// one group ordered by due date (dateDesc toggles direction) with undated
// tasks always last.
func GroupTasks(tasks []model.Task, mode ViewMode, filters TaskFilters, known KnownValues, dateDesc bool) ([]TaskGroup, error) {
	filtered := make([]model.Task, 0, len(tasks))
	for _, task := range tasks {
		if matchesFilters(task, filters) {
			filtered = append(filtered, task)
		}
	}

	switch mode {
	case ViewByDate:
		if len(filtered) == 0 {
			return []TaskGroup{}, nil
		}
		return []TaskGroup{{Key: "all", Tasks: sortByDueDate(filtered, dateDesc)}}, nil
	case ViewByPhase:
		return groupByKey(filtered, known.Phases, func(t model.Task) string { return t.Phase }), nil
	case ViewByCategory:
		return groupByKey(filtered, known.Categories, func(t model.Task) string { return t.Category }), nil
	case ViewByOwner:
		seeds := append(append([]string(nil), known.Owners...), OwnerUnassigned)
		return groupByKey(filtered, seeds, func(t model.Task) string {
			if t.AssignedTo == "" {
				return OwnerUnassigned
			}
			return t.AssignedTo
		}), nil
	default:
		return nil, &ValidationError{Field: "view_mode", Message: fmt.Sprintf("unknown view mode %q", mode)}
	}
}

// groupByKey seeds one group per known value in order, assigns every task by
// its key, appends sorted ad hoc groups for unknown keys and prunes groups
// left empty.
func groupByKey(tasks []model.Task, seeds []string, keyOf func(model.Task) string) []TaskGroup {
	byKey := make(map[string][]model.Task)
	seeded := make(map[string]bool, len(seeds))
	for _, seed := range seeds {
		seeded[seed] = true
	}

	var adhoc []string
	for _, task := range tasks {
		key := keyOf(task)
		if !seeded[key] && byKey[key] == nil {
			adhoc = append(adhoc, key)
		}
		byKey[key] = append(byKey[key], task)
	}
	sort.Strings(adhoc)

	// A key may appear twice in the seed list, e.g. an owner literally named
	// "unassigned" alongside the sentinel; emit each group once.
	groups := make([]TaskGroup, 0, len(seeds)+len(adhoc))
	emitted := make(map[string]bool, len(seeds)+len(adhoc))
	for _, key := range append(append([]string(nil), seeds...), adhoc...) {
		if emitted[key] {
			continue
		}
		emitted[key] = true
		if members := byKey[key]; len(members) > 0 {
			groups = append(groups, TaskGroup{Key: key, Tasks: members})
		}
	}
	return groups
}

// sortByDueDate orders tasks by due date; undated tasks sort last in either
// direction. The input slice is not reordered.
func sortByDueDate(tasks []model.Task, desc bool) []model.Task {
	sorted := append([]model.Task(nil), tasks...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].DueDate, sorted[j].DueDate
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		if desc {
			return a.After(*b)
		}
		return a.Before(*b)
	})
	return sorted
}
