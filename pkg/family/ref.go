package family

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Ref is a reference to a member by local id or by server id.
// The zero value means "no reference".
type Ref struct {
	value   string
	numeric bool
}

// IntRef returns a reference to a local integer id.
func IntRef(id int) Ref {
	return Ref{value: strconv.Itoa(id), numeric: true}
}

// StringRef returns a reference to a server-assigned id.
// An empty string yields the zero Ref.
func StringRef(id string) Ref {
	return Ref{value: id}
}

// IsZero reports whether r references nothing.
func (r Ref) IsZero() bool { return r.value == "" }

// IsNumeric reports whether r was built from a number.
func (r Ref) IsNumeric() bool { return r.numeric }

// String returns the canonical text of the reference.
func (r Ref) String() string { return r.value }

// Int returns the integer form of r if it has one.
func (r Ref) Int() (int, bool) {
	n, err := strconv.Atoi(r.value)
	if err != nil {
		return 0, false
	}
	return n, true
}

// EqualString reports whether r refers to the string id s.
// Comparison is on canonical text, so IntRef(7) equals "7".
func (r Ref) EqualString(s string) bool {
	return !r.IsZero() && s != "" && r.value == s
}

// EqualInt reports whether r refers to the integer id n.
// Comparison is on canonical text, so StringRef("7") equals 7.
func (r Ref) EqualInt(n int) bool {
	return !r.IsZero() && r.value == strconv.Itoa(n)
}

// MarshalJSON writes numbers as JSON numbers, strings as JSON strings, and
// the zero Ref as null.
func (r Ref) MarshalJSON() ([]byte, error) {
	switch {
	case r.IsZero():
		return []byte("null"), nil
	case r.numeric:
		return []byte(r.value), nil
	default:
		return json.Marshal(r.value)
	}
}

// UnmarshalJSON accepts a number, a string, or null.
func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = Ref{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = StringRef(s)
		return nil
	}
	v, err := canonicalNumber(string(data))
	if err != nil {
		return fmt.Errorf("ref: %w", err)
	}
	*r = Ref{value: v, numeric: true}
	return nil
}

// MarshalBSONValue stores numeric refs as int64 and string refs as strings.
func (r Ref) MarshalBSONValue() (bsontype.Type, []byte, error) {
	switch {
	case r.IsZero():
		return bsontype.Null, nil, nil
	case r.numeric:
		n, err := strconv.ParseInt(r.value, 10, 64)
		if err != nil {
			return bson.MarshalValue(r.value)
		}
		return bson.MarshalValue(n)
	default:
		return bson.MarshalValue(r.value)
	}
}

// UnmarshalBSONValue is the inverse of MarshalBSONValue.
func (r *Ref) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*r = Ref{}
	case bsontype.String:
		*r = StringRef(raw.StringValue())
	case bsontype.Int32:
		*r = IntRef(int(raw.Int32()))
	case bsontype.Int64:
		*r = Ref{value: strconv.FormatInt(raw.Int64(), 10), numeric: true}
	case bsontype.Double:
		*r = Ref{value: strconv.FormatFloat(raw.Double(), 'f', -1, 64), numeric: true}
	default:
		return fmt.Errorf("ref: unsupported bson type %s", t)
	}
	return nil
}

// canonicalNumber normalizes a JSON number so that 1, 1.0 and 1e0 share
// the same text.
func canonicalNumber(s string) (string, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return strconv.FormatInt(n, 10), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return "", fmt.Errorf("invalid number %q", s)
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}
