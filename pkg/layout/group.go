package layout

import (
	"slices"

	"github.com/matzehuels/jiapu/pkg/family"
)

// GroupType distinguishes single members from couples.
type GroupType string

const (
	Single GroupType = "single"
	Couple GroupType = "couple"
)

// Group is one display unit: a member and, for couples, their spouses in
// marriage order.
type Group struct {
	Type        GroupType       `json:"type"`
	Main        family.Member   `json:"main"`
	Spouses     []family.Member `json:"spouses,omitempty"`
	HasChildren bool            `json:"hasChildren"`
}

// Members returns the main member followed by the spouses.
func (g Group) Members() []family.Member {
	out := make([]family.Member, 0, 1+len(g.Spouses))
	out = append(out, g.Main)
	return append(out, g.Spouses...)
}

// MotherOf returns the spouse recorded as child's mother, if she is in g.
func (g Group) MotherOf(child family.Member) (family.Member, bool) {
	if i := indexOf(child.MotherID, g.Spouses); i >= 0 {
		return g.Spouses[i], true
	}
	return family.Member{}, false
}

// GroupCouples folds an ordered generation into display groups.
//
// Members are visited in order. Each member not yet placed starts a group
// and pulls in its spouses, which are then skipped when reached later. A
// spouse reference that does not resolve within sorted, or resolves to a
// member already placed, is dropped. Group order follows the position of
// each group's main member in sorted.
func GroupCouples(sorted []family.Member) []Group {
	placed := make([]bool, len(sorted))
	groups := make([]Group, 0, len(sorted))

	for i, m := range sorted {
		if placed[i] {
			continue
		}
		placed[i] = true

		g := Group{Type: Single, Main: m}
		for _, ref := range SpouseRefs(m) {
			j := indexOf(ref, sorted)
			if j < 0 || placed[j] {
				continue
			}
			placed[j] = true
			g.Spouses = append(g.Spouses, sorted[j])
		}
		if len(g.Spouses) > 0 {
			g.Type = Couple
		}
		groups = append(groups, g)
	}
	return groups
}

// HasChildren reports whether any member of next names main as parent.
func HasChildren(main family.Member, next []family.Member) bool {
	return slices.ContainsFunc(next, func(c family.Member) bool {
		return Matches(c.ParentID, main)
	})
}

// ChildrenOf returns the members of next that name main as parent, in the
// order they appear in next.
func ChildrenOf(main family.Member, next []family.Member) []family.Member {
	var out []family.Member
	for _, c := range next {
		if Matches(c.ParentID, main) {
			out = append(out, c)
		}
	}
	return out
}
