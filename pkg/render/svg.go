package render

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/jiapu/pkg/errors"
	"github.com/matzehuels/jiapu/pkg/family"
	"github.com/matzehuels/jiapu/pkg/layout"
)

// SVG draws l with the embedded Graphviz. The root element is sized in
// pixels and titled with the family name so viewers and screen readers
// show which tree it is.
func SVG(ctx context.Context, l layout.Layout) ([]byte, error) {
	raw, err := graphvizSVG(ctx, DOT(l))
	if err != nil {
		return nil, err
	}
	return retitleSVG(raw, svgTitle(l.Settings)), nil
}

func graphvizSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render svg")
	}
	return buf.Bytes(), nil
}

// svgTitle is "name · subtitle", or whichever of the two is set.
func svgTitle(s family.Settings) string {
	parts := make([]string, 0, 2)
	for _, p := range []string{s.FamilyName, s.DisplaySubtitle()} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " · ")
}

var svgAttrRe = regexp.MustCompile(`([\w:-]+)="([^"]*)"`)

// retitleSVG replaces the root <svg> element. Graphviz sizes the root in
// points; the new one keeps the viewBox extent and uses whole pixels.
func retitleSVG(svg []byte, title string) []byte {
	start := bytes.Index(svg, []byte("<svg"))
	if start < 0 {
		return svg
	}
	end := bytes.IndexByte(svg[start:], '>')
	if end < 0 {
		return svg
	}
	end += start + 1

	attrs := make(map[string]string)
	for _, m := range svgAttrRe.FindAllSubmatch(svg[start:end], -1) {
		attrs[string(m[1])] = string(m[2])
	}

	var root strings.Builder
	root.WriteString(`<svg xmlns="http://www.w3.org/2000/svg"`)
	if xlink, ok := attrs["xmlns:xlink"]; ok {
		fmt.Fprintf(&root, ` xmlns:xlink="%s"`, xlink)
	}
	box := strings.Fields(attrs["viewBox"])
	var w, h float64
	if len(box) == 4 {
		w, _ = strconv.ParseFloat(box[2], 64)
		h, _ = strconv.ParseFloat(box[3], 64)
	}
	switch {
	case w > 0 && h > 0:
		fmt.Fprintf(&root, ` viewBox="0 0 %g %g" width="%d" height="%d"`, w, h, int(math.Ceil(w)), int(math.Ceil(h)))
	case attrs["viewBox"] != "":
		fmt.Fprintf(&root, ` viewBox="%s"`, attrs["viewBox"])
	}
	if title != "" {
		fmt.Fprintf(&root, ` role="img" aria-label="%s">`, html.EscapeString(title))
		fmt.Fprintf(&root, "<title>%s</title>", html.EscapeString(title))
	} else {
		root.WriteString(">")
	}

	out := make([]byte, 0, len(svg)+root.Len())
	out = append(out, svg[:start]...)
	out = append(out, root.String()...)
	return append(out, svg[end:]...)
}
