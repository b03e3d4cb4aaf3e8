package layout

import "github.com/matzehuels/jiapu/pkg/family"

// Matches reports whether ref points at m. The server id is tried first;
// the local id is the fallback. Numeric and string forms of the same id
// match each other.
func Matches(ref family.Ref, m family.Member) bool {
	if ref.IsZero() {
		return false
	}
	if m.APIID != "" && ref.EqualString(m.APIID) {
		return true
	}
	return ref.EqualInt(m.ID)
}

// indexOf returns the position of the first member in ms that ref points
// at, or -1.
func indexOf(ref family.Ref, ms []family.Member) int {
	for i, m := range ms {
		if Matches(ref, m) {
			return i
		}
	}
	return -1
}
