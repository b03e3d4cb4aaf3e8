package layout

import "github.com/matzehuels/jiapu/pkg/family"

// Generation is one laid-out tier.
type Generation struct {
	ID     int     `json:"id"`
	APIID  string  `json:"apiId,omitempty"`
	Name   string  `json:"name"`
	Groups []Group `json:"groups"`
}

// Members returns the generation's members in display order.
func (g Generation) Members() []family.Member {
	var out []family.Member
	for _, grp := range g.Groups {
		out = append(out, grp.Members()...)
	}
	return out
}

// Layout is the render-ready form of a family document.
type Layout struct {
	Settings    family.Settings `json:"settings"`
	Generations []Generation    `json:"generations"`
}

// Stats summarizes a layout.
type Stats struct {
	Generations int `json:"generations"`
	Members     int `json:"members"`
	Groups      int `json:"groups"`
	Couples     int `json:"couples"`
	Links       int `json:"links"` // groups with children below
}

// Stats counts generations, members, groups, couples and parent links.
func (l Layout) Stats() Stats {
	s := Stats{Generations: len(l.Generations)}
	for _, gen := range l.Generations {
		s.Groups += len(gen.Groups)
		for _, g := range gen.Groups {
			s.Members += 1 + len(g.Spouses)
			if g.Type == Couple {
				s.Couples++
			}
			if g.HasChildren {
				s.Links++
			}
		}
	}
	return s
}

// Build lays out every generation of d. Each generation is sorted against
// the raw member list of the generation above it, grouped into couples, and
// its groups are flagged when the generation below names their main member
// as parent. d is not modified; generation and group slices are freshly
// allocated on every call.
func Build(d family.FamilyData) Layout {
	out := Layout{
		Settings:    d.Settings,
		Generations: make([]Generation, len(d.Generations)),
	}
	for i, gen := range d.Generations {
		var parents, next []family.Member
		if i > 0 {
			parents = d.Generations[i-1].Members
		}
		if i+1 < len(d.Generations) {
			next = d.Generations[i+1].Members
		}
		out.Generations[i] = Generation{
			ID:     gen.ID,
			APIID:  gen.APIID,
			Name:   gen.Name,
			Groups: LayoutGeneration(gen.Members, parents, next),
		}
	}
	return out
}

// LayoutGeneration sorts and groups one generation. parents is the
// generation above (nil for the oldest) and next the generation below (nil
// for the youngest).
func LayoutGeneration(members, parents, next []family.Member) []Group {
	groups := GroupCouples(SortMembers(members, parents))
	for i := range groups {
		groups[i].HasChildren = HasChildren(groups[i].Main, next)
	}
	return groups
}
