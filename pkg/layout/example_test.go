package layout_test

import (
	"fmt"

	"github.com/matzehuels/jiapu/pkg/family"
	"github.com/matzehuels/jiapu/pkg/layout"
)

func ExampleSortMembers() {
	members := []family.Member{
		{ID: 1, Name: "A", BirthOrder: family.Int(2)},
		{ID: 2, Name: "B", BirthOrder: family.Int(1)},
	}
	for _, m := range layout.SortMembers(members, nil) {
		fmt.Println(m.Name)
	}
	// Output:
	// B
	// A
}

func ExampleGroupCouples() {
	sorted := []family.Member{
		{ID: 1, Name: "王公", SpouseIDs: []family.Ref{family.IntRef(2), family.IntRef(3)}},
		{ID: 2, Name: "李氏"},
		{ID: 3, Name: "赵氏"},
		{ID: 4, Name: "王弟"},
	}
	for _, g := range layout.GroupCouples(sorted) {
		fmt.Printf("%s: %s", g.Type, g.Main.Name)
		for i, s := range g.Spouses {
			fmt.Printf(" %s(%s)", s.Name, layout.SpouseLabel(i, len(g.Spouses)))
		}
		fmt.Println()
	}
	// Output:
	// couple: 王公 李氏(元配) 赵氏(继室)
	// single: 王弟
}

func ExampleBuild() {
	doc := family.FamilyData{
		Generations: []family.Generation{
			{Name: "一世", Members: []family.Member{
				{ID: 1, APIID: "p1", Name: "父", SpouseID: family.IntRef(2)},
				{ID: 2, Name: "母"},
			}},
			{Name: "二世", Members: []family.Member{
				{ID: 3, Name: "次子", ParentID: family.StringRef("p1"), BirthOrder: family.Int(2)},
				{ID: 4, Name: "长子", ParentID: family.StringRef("p1"), BirthOrder: family.Int(1)},
			}},
		},
	}
	for _, gen := range layout.Build(doc).Generations {
		fmt.Print(gen.Name, ":")
		for _, g := range gen.Groups {
			fmt.Print(" [")
			for i, m := range g.Members() {
				if i > 0 {
					fmt.Print(" ")
				}
				fmt.Print(m.Name)
			}
			fmt.Print("]")
			if g.HasChildren {
				fmt.Print("↓")
			}
		}
		fmt.Println()
	}
	// Output:
	// 一世: [父 母]↓
	// 二世: [长子] [次子]
}
