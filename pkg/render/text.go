package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/jiapu/pkg/family"
	"github.com/matzehuels/jiapu/pkg/layout"
)

// Text markers.
const (
	coupleLink   = "──"
	childMarker  = "│"
	emptyMessage = "暂无成员"
)

// TextOptions configures Text.
type TextOptions struct {
	// Emoji shows the zodiac emoji instead of the animal character.
	Emoji bool
	// Indent prefixes every group line; two spaces when empty.
	Indent string
}

type textStyles struct {
	title, dim, gen, male, female, label lipgloss.Style
}

func newTextStyles(r *lipgloss.Renderer) textStyles {
	return textStyles{
		title:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("36")),
		dim:    r.NewStyle().Foreground(lipgloss.Color("240")),
		gen:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("220")),
		male:   r.NewStyle().Foreground(lipgloss.Color("75")),
		female: r.NewStyle().Foreground(lipgloss.Color("175")),
		label:  r.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// Text writes l as an indented tree. Colors are used only when w is a
// terminal.
//
// Each group is one line: the main member followed by each spouse, joined
// by ──. Spouse role labels (元配, 继室, 侧室) appear only when a member has
// more than one spouse. A │ line follows groups whose main member has
// children in the next generation.
func Text(w io.Writer, l layout.Layout, opts TextOptions) error {
	indent := opts.Indent
	if indent == "" {
		indent = "  "
	}
	st := newTextStyles(lipgloss.NewRenderer(w))
	var b strings.Builder

	s := l.Settings
	if s.FamilyName != "" {
		b.WriteString(st.title.Render(s.FamilyName) + "\n")
	}
	if sub := s.DisplaySubtitle(); sub != "" {
		b.WriteString(indent + st.dim.Render(sub) + "\n")
	}
	if s.Hometown != "" {
		b.WriteString(indent + st.dim.Render("籍贯 "+s.Hometown) + "\n")
	}

	for i, gen := range l.Generations {
		if i > 0 || b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(st.gen.Render(gen.Name) + "\n")
		if len(gen.Groups) == 0 {
			b.WriteString(indent + st.dim.Render(emptyMessage) + "\n")
			continue
		}
		for _, g := range gen.Groups {
			b.WriteString(indent + groupLine(g, st, opts) + "\n")
			if g.HasChildren {
				b.WriteString(indent + st.dim.Render(childMarker) + "\n")
			}
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func groupLine(g layout.Group, st textStyles, opts TextOptions) string {
	parts := []string{memberText(g.Main, st, opts)}
	for i, sp := range g.Spouses {
		link := st.dim.Render(coupleLink)
		if label := layout.SpouseLabel(i, len(g.Spouses)); label != "" {
			link += " " + st.label.Render(label) + " " + st.dim.Render(coupleLink)
		}
		parts = append(parts, link, memberText(sp, st, opts))
	}
	return strings.Join(parts, " ")
}

func memberText(m family.Member, st textStyles, opts TextOptions) string {
	style := st.male
	if m.Gender == family.Female {
		style = st.female
	}
	out := style.Render(m.Name)
	if meta := MemberMeta(m, opts.Emoji); meta != "" {
		out += " " + st.dim.Render("("+meta+")")
	}
	return out
}

// MemberMeta returns "1900 鼠", "1900-1970 鼠" or "?-1970" for m, or "" when
// no years are known.
func MemberMeta(m family.Member, emoji bool) string {
	if m.BirthYear == nil && m.DeathYear == nil {
		return ""
	}
	years := "?"
	if m.BirthYear != nil {
		years = strconv.Itoa(*m.BirthYear)
	}
	if m.DeathYear != nil {
		years += "-" + strconv.Itoa(*m.DeathYear)
	}
	z := family.ZodiacOf(m.BirthYear)
	sign := z.Animal
	if emoji {
		sign = z.Emoji
	}
	if sign == "" {
		return years
	}
	return fmt.Sprintf("%s %s", years, sign)
}
