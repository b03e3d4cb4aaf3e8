package render

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/matzehuels/jiapu/pkg/errors"
	"github.com/matzehuels/jiapu/pkg/family"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"SVG", FormatSVG, false},
		{" dot ", FormatDOT, false},
		{"png", FormatPNG, false},
		{"html", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v", tt.in, err)
			}
			if tt.wantErr && !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("error code = %s", errors.GetCode(err))
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatMetadata(t *testing.T) {
	if FormatText.Ext() != ".txt" || FormatSVG.Ext() != ".svg" {
		t.Error("unexpected extensions")
	}
	if FormatJSON.ContentType() != "application/json" || FormatSVG.ContentType() != "image/svg+xml" {
		t.Error("unexpected content types")
	}
	if !FormatPNG.Binary() || FormatDOT.Binary() {
		t.Error("unexpected Binary()")
	}
}

func TestRenderJSON(t *testing.T) {
	out, err := Render(context.Background(), wangLayout(), FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Settings    struct{ FamilyName string }
		Generations []struct {
			Name   string
			Groups []struct {
				Type        string
				HasChildren bool
			}
		}
		Stats struct{ Members, Couples, Links int }
	}
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Settings.FamilyName != "王氏家谱" || len(doc.Generations) != 3 {
		t.Fatalf("doc = %+v", doc)
	}
	if g := doc.Generations[0].Groups[0]; g.Type != "couple" || !g.HasChildren {
		t.Errorf("first group = %+v", g)
	}
	if doc.Generations[2].Groups == nil {
		t.Error("empty generation should encode groups as []")
	}
	if doc.Stats.Members != 6 || doc.Stats.Couples != 2 || doc.Stats.Links != 1 {
		t.Errorf("stats = %+v", doc.Stats)
	}
	if bytes.Contains(out, []byte(`\u`)) {
		t.Error("JSON should not escape non-ASCII")
	}
}

func TestRenderTextAndDOT(t *testing.T) {
	ctx := context.Background()
	text, err := Render(ctx, wangLayout(), FormatText)
	if err != nil || !strings.HasPrefix(string(text), "王氏家谱\n") {
		t.Errorf("text = %q, %v", text, err)
	}
	dot, err := Render(ctx, wangLayout(), FormatDOT)
	if err != nil || !strings.HasPrefix(string(dot), "digraph family {") {
		t.Errorf("dot = %q, %v", dot, err)
	}
	if _, err := Render(ctx, wangLayout(), Format("gif")); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("unknown format error = %v", err)
	}
}

func TestSVG(t *testing.T) {
	svg, err := Render(context.Background(), wangLayout(), FormatSVG)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(svg, []byte(`<svg xmlns="http://www.w3.org/2000/svg"`)) {
		t.Errorf("unexpected svg header: %.200s", svg)
	}
	if !bytes.Contains(svg, []byte(`aria-label="王氏家谱 · 太原堂"><title>王氏家谱 · 太原堂</title>`)) {
		t.Errorf("svg should be titled with the family name: %.300s", svg)
	}
	if !bytes.Contains(svg, []byte("</svg>")) {
		t.Error("svg not terminated")
	}
}

func TestSVGBadDOT(t *testing.T) {
	if _, err := graphvizSVG(context.Background(), "digraph {"); err == nil {
		t.Error("expected parse error")
	}
}

func TestRetitleSVG(t *testing.T) {
	in := []byte("<?xml version=\"1.0\"?>\n<svg width=\"100pt\" height=\"50pt\"\n viewBox=\"0.00 0.00 100.50 50.00\" xmlns=\"http://www.w3.org/2000/svg\" xmlns:xlink=\"http://www.w3.org/1999/xlink\"><g/></svg>")
	tests := []struct {
		name  string
		in    []byte
		title string
		want  string
	}{
		{
			name:  "titled",
			in:    in,
			title: `孙氏 "江南"`,
			want:  "<?xml version=\"1.0\"?>\n" + `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 100.5 50" width="101" height="50" role="img" aria-label="孙氏 &#34;江南&#34;"><title>孙氏 &#34;江南&#34;</title><g/></svg>`,
		},
		{
			name: "untitled",
			in:   in,
			want: "<?xml version=\"1.0\"?>\n" + `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 100.5 50" width="101" height="50"><g/></svg>`,
		},
		{
			name: "no svg element",
			in:   []byte("<g/>"),
			want: "<g/>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(retitleSVG(tt.in, tt.title)); got != tt.want {
				t.Errorf("retitleSVG() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestSVGTitle(t *testing.T) {
	tests := []struct {
		s    family.Settings
		want string
	}{
		{family.Settings{FamilyName: "王氏"}, "王氏"},
		{family.Settings{FamilyName: "王氏", FamilySubtitle: "太原"}, "王氏 · 太原"},
		{family.Settings{Subtitle: "太原"}, "太原"},
		{family.Settings{}, ""},
	}
	for _, tt := range tests {
		if got := svgTitle(tt.s); got != tt.want {
			t.Errorf("svgTitle(%+v) = %q, want %q", tt.s, got, tt.want)
		}
	}
}
