package pwinty

import (
	"encoding/json"
	"reflect"
	"strings"
)

// MarshalJSON encodes p with Extra merged in. A named field wins over an
// Extra key that spells the same name.
func (p OrderParams) MarshalJSON() ([]byte, error) {
	type plain OrderParams
	return marshalWithExtra(plain(p), p.Extra)
}

// UnmarshalJSON decodes the named fields and keeps the rest in Extra.
func (p *OrderParams) UnmarshalJSON(data []byte) error {
	type plain OrderParams
	var v plain
	extra, err := unmarshalWithExtra(data, &v)
	if err != nil {
		return err
	}
	*p = OrderParams(v)
	p.Extra = extra
	return nil
}

// MarshalJSON encodes p with Extra merged in.
func (p PhotoParams) MarshalJSON() ([]byte, error) {
	type plain PhotoParams
	return marshalWithExtra(plain(p), p.Extra)
}

// UnmarshalJSON decodes the named fields and keeps the rest in Extra.
func (p *PhotoParams) UnmarshalJSON(data []byte) error {
	type plain PhotoParams
	var v plain
	extra, err := unmarshalWithExtra(data, &v)
	if err != nil {
		return err
	}
	*p = PhotoParams(v)
	p.Extra = extra
	return nil
}

func marshalWithExtra(v any, extra map[string]json.RawMessage) ([]byte, error) {
	encoded, err := json.Marshal(v)
	if err != nil || len(extra) == 0 {
		return encoded, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(encoded, &fields); err != nil {
		return nil, err
	}
	known := jsonNames(reflect.TypeOf(v))
	for name, raw := range extra {
		if !isKnown(known, name) {
			fields[name] = raw
		}
	}
	return json.Marshal(fields)
}

func unmarshalWithExtra(data []byte, v any) (map[string]json.RawMessage, error) {
	if err := json.Unmarshal(data, v); err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	known := jsonNames(reflect.TypeOf(v).Elem())
	for name := range fields {
		if isKnown(known, name) {
			delete(fields, name)
		}
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return fields, nil
}

// jsonNames lists the object keys encoding/json uses for t's fields.
func jsonNames(t reflect.Type) []string {
	names := make([]string, 0, t.NumField())
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		names = append(names, name)
	}
	return names
}

// isKnown matches case-insensitively, as encoding/json does when decoding.
func isKnown(known []string, name string) bool {
	for _, k := range known {
		if strings.EqualFold(k, name) {
			return true
		}
	}
	return false
}
