package family

import (
	"encoding/json"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestRefUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantValue   string
		wantNumeric bool
		wantZero    bool
	}{
		{"number", `7`, "7", true, false},
		{"float number", `7.0`, "7", true, false},
		{"string", `"abc123"`, "abc123", false, false},
		{"numeric string", `"7"`, "7", false, false},
		{"null", `null`, "", false, true},
		{"empty string", `""`, "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Ref
			if err := json.Unmarshal([]byte(tt.input), &r); err != nil {
				t.Fatalf("Unmarshal(%s) error: %v", tt.input, err)
			}
			if r.String() != tt.wantValue {
				t.Errorf("String() = %q, want %q", r.String(), tt.wantValue)
			}
			if r.IsNumeric() != tt.wantNumeric {
				t.Errorf("IsNumeric() = %v, want %v", r.IsNumeric(), tt.wantNumeric)
			}
			if r.IsZero() != tt.wantZero {
				t.Errorf("IsZero() = %v, want %v", r.IsZero(), tt.wantZero)
			}
		})
	}
}

func TestRefUnmarshalJSONInvalid(t *testing.T) {
	var r Ref
	if err := json.Unmarshal([]byte(`true`), &r); err == nil {
		t.Error("Unmarshal(true) should fail")
	}
}

func TestRefMarshalJSONKeepsShape(t *testing.T) {
	m := Member{
		ID:        1,
		Name:      "A",
		ParentID:  StringRef("p-1"),
		SpouseIDs: []Ref{IntRef(2), StringRef("s-3")},
	}
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if raw["parentId"] != "p-1" {
		t.Errorf("parentId = %v, want p-1", raw["parentId"])
	}
	if _, ok := raw["spouseId"]; ok {
		t.Error("zero spouseId should be omitted")
	}
	ids := raw["spouseIds"].([]any)
	if ids[0] != float64(2) || ids[1] != "s-3" {
		t.Errorf("spouseIds = %v, want [2 s-3]", ids)
	}
}

func TestRefEquality(t *testing.T) {
	if !IntRef(7).EqualInt(7) {
		t.Error("IntRef(7) should equal 7")
	}
	if !StringRef("7").EqualInt(7) {
		t.Error("StringRef(\"7\") should equal 7 by canonical text")
	}
	if !IntRef(7).EqualString("7") {
		t.Error("IntRef(7) should equal \"7\" by canonical text")
	}
	if (Ref{}).EqualString("") {
		t.Error("zero Ref should not equal empty string")
	}
	if (Ref{}).EqualInt(0) {
		t.Error("zero Ref should not equal 0")
	}
	if !IntRef(0).EqualInt(0) {
		t.Error("IntRef(0) is a real reference and should equal 0")
	}
}

func TestRefBSONRoundTrip(t *testing.T) {
	type doc struct {
		A Ref `bson:"a"`
		B Ref `bson:"b"`
		C Ref `bson:"c,omitempty"`
	}
	in := doc{A: IntRef(42), B: StringRef("x-1")}
	data, err := bson.Marshal(in)
	if err != nil {
		t.Fatalf("bson.Marshal error: %v", err)
	}
	var out doc
	if err := bson.Unmarshal(data, &out); err != nil {
		t.Fatalf("bson.Unmarshal error: %v", err)
	}
	if out.A != in.A {
		t.Errorf("A = %#v, want %#v", out.A, in.A)
	}
	if out.B != in.B {
		t.Errorf("B = %#v, want %#v", out.B, in.B)
	}
	if !out.C.IsZero() {
		t.Errorf("C = %#v, want zero", out.C)
	}
}
