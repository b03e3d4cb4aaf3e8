package layout

import "github.com/matzehuels/jiapu/pkg/family"

// SpouseRefs returns m's spouse references in marriage order. A non-empty
// SpouseIDs list wins over the legacy SpouseID field.
func SpouseRefs(m family.Member) []family.Ref {
	if len(m.SpouseIDs) > 0 {
		return m.SpouseIDs
	}
	if !m.SpouseID.IsZero() {
		return []family.Ref{m.SpouseID}
	}
	return nil
}

// SpouseRole is a spouse's rank among a member's marriages.
type SpouseRole int

const (
	RolePrimary   SpouseRole = iota // 元配, first wife
	RoleSecondary                   // 继室, second wife
	RoleConcubine                   // 侧室, third and later
)

// RoleOf returns the role of the spouse at index in a spouse list.
func RoleOf(index int) SpouseRole {
	switch {
	case index <= 0:
		return RolePrimary
	case index == 1:
		return RoleSecondary
	default:
		return RoleConcubine
	}
}

// Label returns the Chinese label for r.
func (r SpouseRole) Label() string {
	switch r {
	case RolePrimary:
		return "元配"
	case RoleSecondary:
		return "继室"
	default:
		return "侧室"
	}
}

// String returns the English name for r.
func (r SpouseRole) String() string {
	switch r {
	case RolePrimary:
		return "primary"
	case RoleSecondary:
		return "secondary"
	default:
		return "concubine"
	}
}

// SpouseLabel returns the label shown next to the spouse at index in a group
// with total spouses. A lone spouse gets no label.
func SpouseLabel(index, total int) string {
	if total <= 1 {
		return ""
	}
	return RoleOf(index).Label()
}
