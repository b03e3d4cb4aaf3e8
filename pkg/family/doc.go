// Package family defines the genealogy document model shared by the API
// client, the layout engine, and the renderers.
//
// # Documents
//
// A [FamilyData] document holds display [Settings] and an ordered list of
// [Generation] values. Generation order is authoritative: index 0 is the
// oldest generation and each following entry is one tier further down the
// tree. Each generation holds a flat list of [Member] records.
//
// # References
//
// Relational fields (parent and spouse pointers) are stored as [Ref] values.
// A Ref is type-erased: the remote service and older exported files use both
// local integer ids and server-assigned string ids, and the same field may
// hold either. A Ref remembers which JSON shape it was decoded from so that
// documents round-trip unchanged.
//
// # Reading and Writing
//
//	doc, err := family.ReadFile("family.json")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(doc.Settings.FamilyName, doc.MemberCount())
package family
