// Package layout turns a family document into render-ready generations.
//
// # Overview
//
// A family tree is drawn top to bottom, one row per generation. Within a
// row, members are shown in a conventional order: children clustered under
// their parent in the parent's birth-order position, siblings by their own
// birth order, and every spouse placed immediately after their partner.
// This package computes that order. It performs no I/O and never fails.
//
// The work happens in two passes per generation:
//
//  1. [SortMembers] produces a stable total order over the generation using
//     the key (parent rank, birth order, birth year).
//  2. [GroupCouples] folds that order into display groups. A group is either
//     a single member or a member followed by their spouses in marriage
//     order.
//
// [Build] runs both passes over every generation of a document and marks
// each group that has children in the next generation, which the renderers
// use to decide where to draw parent-child connectors.
//
// # Identity
//
// Members carry a local integer id and, once persisted, a server id.
// Relational fields may point at either. [Matches] is the single place that
// decides whether a reference points at a member; every pass uses it.
//
// # Example
//
//	doc, _ := family.ReadFile("family.json")
//	l := layout.Build(doc)
//	for _, gen := range l.Generations {
//	    for _, g := range gen.Groups {
//	        fmt.Println(g.Main.Name, len(g.Spouses), g.HasChildren)
//	    }
//	}
package layout
