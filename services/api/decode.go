package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeList decodes a list endpoint body into out (a pointer to a slice).
// The API is inconsistent: it answers with a bare array, with {"data": [...]},
// with a named key, or with some other object holding one array. Lookup order
// is: bare array, "data", each of keys, then the first array-valued key in
// document order. A body with no array leaves out untouched.
func DecodeList(body []byte, out any, keys ...string) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	if trimmed[0] == '[' {
		return json.Unmarshal(trimmed, out)
	}
	if trimmed[0] != '{' {
		return fmt.Errorf("unexpected list payload starting with %q", trimmed[0])
	}

	fields, order, err := orderedFields(trimmed)
	if err != nil {
		return err
	}

	for _, key := range append([]string{"data"}, keys...) {
		if raw, ok := fields[key]; ok && isArray(raw) {
			return json.Unmarshal(raw, out)
		}
	}
	for _, key := range order {
		if raw := fields[key]; isArray(raw) {
			return json.Unmarshal(raw, out)
		}
	}
	return nil
}

// DecodeItem decodes a single-object body that may be wrapped in one of keys
// (for example {"data": {...}} or {"recurso": {...}}).
func DecodeItem(body []byte, out any, keys ...string) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil
	}
	if trimmed[0] != '{' {
		return json.Unmarshal(trimmed, out)
	}
	fields, _, err := orderedFields(trimmed)
	if err != nil {
		return err
	}
	for _, key := range keys {
		if raw, ok := fields[key]; ok && isObject(raw) {
			return json.Unmarshal(raw, out)
		}
	}
	return json.Unmarshal(trimmed, out)
}

func orderedFields(object []byte) (map[string]json.RawMessage, []string, error) {
	dec := json.NewDecoder(bytes.NewReader(object))
	if _, err := dec.Token(); err != nil {
		return nil, nil, fmt.Errorf("decode object: %w", err)
	}

	fields := make(map[string]json.RawMessage)
	var order []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, fmt.Errorf("decode object key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("unexpected object key %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, fmt.Errorf("decode field %q: %w", key, err)
		}
		if _, seen := fields[key]; !seen {
			order = append(order, key)
		}
		fields[key] = raw
	}
	return fields, order, nil
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
