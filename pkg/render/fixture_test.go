package render

import (
	"github.com/matzehuels/jiapu/pkg/family"
	"github.com/matzehuels/jiapu/pkg/layout"
)

// wangFamily has a man with two wives, children by each, one married son,
// and an empty youngest generation.
func wangFamily() family.FamilyData {
	return family.FamilyData{
		Settings: family.Settings{FamilyName: "王氏家谱", Subtitle: "太原堂", Hometown: "山西"},
		Generations: []family.Generation{
			{ID: 1, Name: "第一世", Members: []family.Member{
				{ID: 1, Name: "王大", Gender: family.Male, BirthYear: family.Int(1900),
					SpouseIDs: []family.Ref{family.IntRef(2), family.IntRef(3)}},
				{ID: 2, Name: "李氏", Gender: family.Female, BirthYear: family.Int(1902)},
				{ID: 3, Name: "张氏", Gender: family.Female},
			}},
			{ID: 2, Name: "第二世", Members: []family.Member{
				{ID: 4, Name: "王二", Gender: family.Male, BirthOrder: family.Int(2), BirthYear: family.Int(1925),
					ParentID: family.IntRef(1), MotherID: family.IntRef(3)},
				{ID: 5, Name: "王一", Gender: family.Male, BirthOrder: family.Int(1), BirthYear: family.Int(1922),
					ParentID: family.IntRef(1), MotherID: family.IntRef(2), SpouseID: family.IntRef(6)},
				{ID: 6, Name: "赵氏", Gender: family.Female},
			}},
			{ID: 3, Name: "第三世"},
		},
	}
}

func wangLayout() layout.Layout {
	return layout.Build(wangFamily())
}
