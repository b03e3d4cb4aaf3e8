package render

import (
	"strings"
	"testing"

	"github.com/matzehuels/jiapu/pkg/family"
	"github.com/matzehuels/jiapu/pkg/layout"
)

func TestDOT(t *testing.T) {
	dot := DOT(wangLayout())

	for _, want := range []string{
		"digraph family {",
		`label="王氏家谱";`,
		"subgraph cluster_0 {",
		`label="第一世";`,
		`"g0_0" [label="王大\n1900 鼠", fillcolor="#dbeafe"];`,
		`"g0_1" [label="李氏\n1902 虎", fillcolor="#fce7f3"];`,
		`{ rank=same; "g0_0"; "g0_1"; "g0_2"; }`,
		`"g0_0" -> "g0_1" [dir=none, style=bold, color="#b45309", label="元配"];`,
		`"g0_0" -> "g0_2" [dir=none, style=bold, color="#b45309", label="继室"];`,
		`"g1_0" -> "g1_1" [dir=none, style=bold, color="#b45309"];`,
		// children hang off their mothers
		`"g0_1" -> "g1_0";`,
		`"g0_2" -> "g1_2";`,
		`"g2_empty" [label="暂无成员"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %s\n%s", want, dot)
		}
	}
	if strings.Contains(dot, `-> "g1_1";`) {
		t.Error("married-in spouse should have no parent edge")
	}
}

func TestDOTChildWithoutKnownMother(t *testing.T) {
	l := layout.Build(family.FamilyData{Generations: []family.Generation{
		{Name: "一世", Members: []family.Member{{ID: 1, APIID: "a1", Name: "父"}}},
		{Name: "二世", Members: []family.Member{{ID: 2, Name: "子", ParentID: family.StringRef("a1"), MotherID: family.IntRef(99)}}},
	}})
	dot := DOT(l)
	if !strings.Contains(dot, `"g0_0" -> "g1_0";`) {
		t.Errorf("expected edge from father:\n%s", dot)
	}
}
