package layout

import (
	"cmp"
	"slices"

	"github.com/matzehuels/jiapu/pkg/family"
)

// Defaults used when a sort key is unknown. They push members of unknown
// provenance or order behind everyone with a known value.
const (
	UnknownParentRank = 999
	DefaultBirthOrder = 999
	DefaultBirthYear  = 9999
)

type sortKey struct {
	parent int
	order  int
	year   int
}

func compareKeys(a, b sortKey) int {
	return cmp.Or(
		cmp.Compare(a.parent, b.parent),
		cmp.Compare(a.order, b.order),
		cmp.Compare(a.year, b.year),
	)
}

// SortMembers returns members ordered by parent rank, then birth order, then
// birth year. The sort is stable and the input is not modified.
//
// Parent rank is the position of a member's parent within parents after
// parents are ordered by birth order and birth year alone. Pass nil parents
// for the oldest generation; every member then gets [UnknownParentRank].
func SortMembers(members, parents []family.Member) []family.Member {
	ranked := sortByBirth(parents)

	keys := make([]sortKey, len(members))
	perm := make([]int, len(members))
	for i, m := range members {
		keys[i] = sortKey{
			parent: parentRank(m.ParentID, ranked),
			order:  valueOr(m.BirthOrder, DefaultBirthOrder),
			year:   valueOr(m.BirthYear, DefaultBirthYear),
		}
		perm[i] = i
	}
	slices.SortStableFunc(perm, func(a, b int) int {
		return compareKeys(keys[a], keys[b])
	})

	out := make([]family.Member, len(members))
	for i, j := range perm {
		out[i] = members[j]
	}
	return out
}

// sortByBirth returns a copy of ms ordered by birth order then birth year.
func sortByBirth(ms []family.Member) []family.Member {
	out := slices.Clone(ms)
	slices.SortStableFunc(out, func(a, b family.Member) int {
		return cmp.Or(
			cmp.Compare(valueOr(a.BirthOrder, DefaultBirthOrder), valueOr(b.BirthOrder, DefaultBirthOrder)),
			cmp.Compare(valueOr(a.BirthYear, DefaultBirthYear), valueOr(b.BirthYear, DefaultBirthYear)),
		)
	})
	return out
}

func parentRank(ref family.Ref, ranked []family.Member) int {
	if i := indexOf(ref, ranked); i >= 0 {
		return i
	}
	return UnknownParentRank
}

func valueOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
