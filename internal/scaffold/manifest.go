package scaffold

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/stackgen-labs/stackgen/internal/catalog"
)

type manifestField struct {
	key   string
	value json.RawMessage
}

// RewriteScripts replaces the "scripts" object of the package.json at path
// with scripts, in their given order. Every other key keeps its value and
// position; scripts is appended when the manifest had none.
func RewriteScripts(path string, scripts catalog.Pairs) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading package manifest: %w", err)
	}

	fields, err := decodeObject(data)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	raw, err := encodePairs(scripts)
	if err != nil {
		return fmt.Errorf("encoding scripts: %w", err)
	}

	replaced := false
	for i := range fields {
		if fields[i].key == "scripts" {
			fields[i].value = raw
			replaced = true
		}
	}
	if !replaced {
		fields = append(fields, manifestField{key: "scripts", value: raw})
	}

	out, err := encodeObject(fields)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("writing package manifest: %w", err)
	}
	return nil
}

// decodeObject reads a top-level JSON object keeping key order.
func decodeObject(data []byte) ([]manifestField, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected a JSON object")
	}

	var fields []manifestField
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("decoding %q: %w", key, err)
		}
		fields = append(fields, manifestField{key: key, value: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return fields, nil
}

// encodeObject writes fields as a 2-space indented JSON object.
func encodeObject(fields []manifestField) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{")
	for i, f := range fields {
		if i > 0 {
			buf.WriteString(",")
		}
		key, err := marshalNoEscape(f.key)
		if err != nil {
			return nil, err
		}
		buf.WriteString("\n  ")
		buf.Write(key)
		buf.WriteString(": ")
		if err := json.Indent(&buf, f.value, "  ", "  "); err != nil {
			return nil, fmt.Errorf("indenting %q: %w", f.key, err)
		}
	}
	if len(fields) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

// encodePairs writes scripts as a compact JSON object in order.
func encodePairs(pairs catalog.Pairs) (json.RawMessage, error) {
	var buf bytes.Buffer
	buf.WriteString("{")
	for i, kv := range pairs {
		if i > 0 {
			buf.WriteString(",")
		}
		key, err := marshalNoEscape(kv.Key)
		if err != nil {
			return nil, err
		}
		value, err := marshalNoEscape(kv.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteString(":")
		buf.Write(value)
	}
	buf.WriteString("}")
	return buf.Bytes(), nil
}

// marshalNoEscape is json.Marshal without HTML escaping, so shell operators
// such as && survive unchanged.
func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
