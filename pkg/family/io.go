package family

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Marshal encodes a document as indented JSON.
func Marshal(d FamilyData) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(d, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write encodes a document as indented JSON to w.
func Write(d FamilyData, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteFile writes a document to path with 0644 permissions.
func WriteFile(d FamilyData, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(d, f)
}

// Read decodes a JSON document from r.
func Read(r io.Reader) (FamilyData, error) {
	var d FamilyData
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return FamilyData{}, fmt.Errorf("decode: %w", err)
	}
	return d, nil
}

// ReadFile decodes a JSON document from path.
func ReadFile(path string) (FamilyData, error) {
	f, err := os.Open(path)
	if err != nil {
		return FamilyData{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}
