package layout

import (
	"slices"
	"testing"

	"github.com/matzehuels/jiapu/pkg/family"
)

func names(ms []family.Member) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Name
	}
	return out
}

func groupNames(gs []Group) [][]string {
	out := make([][]string, len(gs))
	for i, g := range gs {
		out[i] = names(g.Members())
	}
	return out
}

func assertNames(t *testing.T, got []family.Member, want ...string) {
	t.Helper()
	if g := names(got); !slices.Equal(g, want) {
		t.Errorf("order = %v, want %v", g, want)
	}
}
