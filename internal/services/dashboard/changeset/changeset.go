// Package changeset computes the minimal partial update between an edited
// record and the cached original.
package changeset

import (
	"maps"
	"slices"

	"github.com/google/go-cmp/cmp"

	"github.com/chistayaaa/afs-dashboard/internal/services/dashboard/organization"
)

// ChangeSet maps field names to their new values. It only ever holds fields
// that differ from the original.
type ChangeSet map[string]any

// Empty reports whether there is nothing to send.
func (c ChangeSet) Empty() bool {
	return len(c) == 0
}

// Keys returns the changed top-level field names in sorted order.
func (c ChangeSet) Keys() []string {
	return slices.Sorted(maps.Keys(c))
}

// Record returns the change-set as a record for merging.
func (c ChangeSet) Record() organization.Record {
	return organization.Record(c)
}

// WholeGroups names nested groups that the remote replaces as a unit, with the
// sub-fields that must always be present when the group is sent.
type WholeGroups map[string][]string

// DefaultWholeGroups holds the contract group, which the company endpoint
// overwrites whole.
var DefaultWholeGroups = WholeGroups{
	"contract": {"no", "issue_date"},
}

// Compute diffs edited against original using DefaultWholeGroups.
func Compute(edited, original organization.Record) ChangeSet {
	return ComputeWith(edited, original, DefaultWholeGroups)
}

// ComputeWith diffs edited against original. A nil original means nothing is
// known yet, so every edited field is changed. Nested groups are diffed
// recursively unless they are listed in groups, in which case any difference
// sends the whole edited group with its listed sub-fields defaulted to "".
// Lists and scalars are compared by deep equality. Keys missing from edited
// are left alone.
func ComputeWith(edited, original organization.Record, groups WholeGroups) ChangeSet {
	changed := ChangeSet{}
	if original == nil {
		for key, value := range edited {
			changed[key] = value
		}
		return changed
	}

	for key, next := range edited {
		prev, existed := original[key]
		if !existed {
			changed[key] = next
			continue
		}

		if subFields, whole := groups[key]; whole {
			if !cmp.Equal(prev, next) {
				changed[key] = wholeGroup(next, subFields)
			}
			continue
		}

		nextGroup, nextIsGroup := asGroup(next)
		prevGroup, prevIsGroup := asGroup(prev)
		if nextIsGroup && prevIsGroup {
			if nested := ComputeWith(nextGroup, prevGroup, groups); !nested.Empty() {
				changed[key] = map[string]any(nested)
			}
			continue
		}

		if !cmp.Equal(prev, next) {
			changed[key] = next
		}
	}
	return changed
}

func wholeGroup(value any, subFields []string) map[string]any {
	group := map[string]any{}
	if source, ok := asGroup(value); ok {
		for key, sub := range source {
			group[key] = sub
		}
	}
	// Only absent or null sub-fields are defaulted; other values, including
	// empty strings and zero numbers, are sent as edited.
	for _, field := range subFields {
		if sub, ok := group[field]; !ok || sub == nil {
			group[field] = ""
		}
	}
	return group
}

func asGroup(value any) (organization.Record, bool) {
	switch group := value.(type) {
	case map[string]any:
		return group, true
	case organization.Record:
		return group, true
	default:
		return nil, false
	}
}
