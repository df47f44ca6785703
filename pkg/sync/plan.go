package sync

import (
	"sort"
)

// Plan contains the actions needed to make a replica match its source.
// ToCopy and ToDelete are disjoint and sorted.
type Plan struct {
	// ToCopy are the source files that are missing from the replica, or
	// whose replica contents differ.
	ToCopy []string

	// ToDelete are the replica files that don't exist in the source.
	ToDelete []string
}

// Empty returns whether the plan has no actions.
func (p Plan) Empty() bool {
	return len(p.ToCopy) == 0 && len(p.ToDelete) == 0
}

// NewPlan computes the plan for syncing `source` to `replica`. `identical` is
// called for each name that exists on both sides, and should return whether
// the two files have the same contents.
func NewPlan(source, replica EntrySet, identical func(name string) bool) Plan {
	var plan Plan
	for name := range source {
		if !replica.Has(name) || !identical(name) {
			plan.ToCopy = append(plan.ToCopy, name)
		}
	}
	sort.Strings(plan.ToCopy)

	plan.ToDelete = replica.Difference(source)
	return plan
}
