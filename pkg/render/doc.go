// Package render turns a computed family layout into output formats.
//
//   - [Text]: a terminal tree styled with lipgloss
//   - [DOT]: Graphviz source, one cluster per generation
//   - [SVG]: DOT rendered in-process with go-graphviz
//   - [ToPDF], [ToPNG]: SVG converted by rsvg-convert
//   - [JSON]: the layout plus its statistics
//
// [Render] dispatches on a [Format]:
//
//	l := layout.Build(doc)
//	out, err := render.Render(ctx, l, render.FormatSVG)
package render
