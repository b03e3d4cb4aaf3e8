package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/jiapu/pkg/family"
	"github.com/matzehuels/jiapu/pkg/layout"
)

// DOT converts l to Graphviz source. Each generation becomes a cluster
// whose members share a rank; couples are joined by undirected bold edges
// and every child gets an arrow from its mother when she is a listed
// spouse, otherwise from its father.
//
// Node names are positional ("g<gen>_<index>") because member ids are not
// guaranteed unique.
func DOT(l layout.Layout) string {
	var buf bytes.Buffer
	buf.WriteString("digraph family {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  newrank=true;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	if name := l.Settings.FamilyName; name != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n  fontsize=20;\n", name)
	}

	for gi, gen := range l.Generations {
		fmt.Fprintf(&buf, "\n  subgraph cluster_%d {\n", gi)
		fmt.Fprintf(&buf, "    label=%q;\n", gen.Name)
		buf.WriteString("    style=dashed;\n    color=grey;\n")
		var names []string
		idx := 0
		for _, g := range gen.Groups {
			for _, m := range g.Members() {
				id := nodeID(gi, idx)
				names = append(names, fmt.Sprintf("%q", id))
				fmt.Fprintf(&buf, "    %q [%s];\n", id, strings.Join(nodeAttrs(m), ", "))
				idx++
			}
		}
		if len(names) == 0 {
			fmt.Fprintf(&buf, "    %q [label=%q, shape=plaintext, style=\"\"];\n", nodeID(gi, -1), emptyMessage)
			names = append(names, fmt.Sprintf("%q", nodeID(gi, -1)))
		}
		fmt.Fprintf(&buf, "    { rank=same; %s; }\n", strings.Join(names, "; "))
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for gi, gen := range l.Generations {
		idx := 0
		for _, g := range gen.Groups {
			main := nodeID(gi, idx)
			for si := range g.Spouses {
				attrs := []string{"dir=none", "style=bold", "color=\"#b45309\""}
				if label := layout.SpouseLabel(si, len(g.Spouses)); label != "" {
					attrs = append(attrs, fmt.Sprintf("label=%q", label))
				}
				fmt.Fprintf(&buf, "  %q -> %q [%s];\n", main, nodeID(gi, idx+1+si), strings.Join(attrs, ", "))
			}
			idx += 1 + len(g.Spouses)
		}
	}

	for gi := 0; gi+1 < len(l.Generations); gi++ {
		for _, e := range childEdges(l.Generations[gi], l.Generations[gi+1]) {
			fmt.Fprintf(&buf, "  %q -> %q;\n", nodeID(gi, e.from), nodeID(gi+1, e.to))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(gen, idx int) string {
	if idx < 0 {
		return fmt.Sprintf("g%d_empty", gen)
	}
	return fmt.Sprintf("g%d_%d", gen, idx)
}

func nodeAttrs(m family.Member) []string {
	label := m.Name
	if meta := MemberMeta(m, false); meta != "" {
		label += "\n" + meta
	}
	fill := "#dbeafe"
	if m.Gender == family.Female {
		fill = "#fce7f3"
	}
	return []string{fmt.Sprintf("label=%q", label), fmt.Sprintf("fillcolor=%q", fill)}
}

type edge struct{ from, to int }

// childEdges links each member of child to the first group in parent whose
// main member its parentId resolves to. Indices are display positions.
func childEdges(parent, child layout.Generation) []edge {
	var out []edge
	to := 0
	for _, cg := range child.Groups {
		for _, c := range cg.Members() {
			if c.ParentID.IsZero() {
				to++
				continue
			}
			from := 0
			for _, pg := range parent.Groups {
				if layout.Matches(c.ParentID, pg.Main) {
					src := from
					for si, sp := range pg.Spouses {
						if layout.Matches(c.MotherID, sp) {
							src = from + 1 + si
							break
						}
					}
					out = append(out, edge{from: src, to: to})
					break
				}
				from += 1 + len(pg.Spouses)
			}
			to++
		}
	}
	return out
}
