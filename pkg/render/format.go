package render

import (
	"bytes"
	"context"
	"slices"
	"strings"

	"github.com/matzehuels/jiapu/pkg/errors"
	"github.com/matzehuels/jiapu/pkg/layout"
)

// Format names an output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatDOT  Format = "dot"
	FormatSVG  Format = "svg"
	FormatPDF  Format = "pdf"
	FormatPNG  Format = "png"
)

// Formats lists every supported format.
var Formats = []Format{FormatText, FormatJSON, FormatDOT, FormatSVG, FormatPDF, FormatPNG}

// ParseFormat accepts a format name in any case; "" means text.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatText, nil
	}
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Formats, f) {
		return "", errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want text, json, dot, svg, pdf or png)", s)
	}
	return f, nil
}

// Ext returns the file extension for f, including the dot.
func (f Format) Ext() string {
	if f == FormatText {
		return ".txt"
	}
	return "." + string(f)
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	case FormatSVG:
		return "image/svg+xml"
	case FormatPDF:
		return "application/pdf"
	case FormatPNG:
		return "image/png"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Binary reports whether f should not be written to a terminal.
func (f Format) Binary() bool {
	return f == FormatPDF || f == FormatPNG
}

// Render produces l in format f.
func Render(ctx context.Context, l layout.Layout, f Format) ([]byte, error) {
	switch f {
	case FormatText, "":
		var buf bytes.Buffer
		if err := Text(&buf, l, TextOptions{}); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatJSON:
		return JSON(l)
	case FormatDOT:
		return []byte(DOT(l)), nil
	case FormatSVG:
		return SVG(ctx, l)
	case FormatPDF:
		svg, err := SVG(ctx, l)
		if err != nil {
			return nil, err
		}
		return ToPDF(ctx, svg)
	case FormatPNG:
		svg, err := SVG(ctx, l)
		if err != nil {
			return nil, err
		}
		return ToPNG(ctx, svg, 2)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", f)
}
