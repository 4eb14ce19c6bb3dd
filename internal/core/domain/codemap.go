package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CodeMap maps city (시/도) names to their ordered district (시/군/구) names.
// It is loaded once per session and never modified afterwards.
type CodeMap struct {
	cities    []string
	districts map[string][]string
}

// NewCodeMap builds a CodeMap from an ordered city list and district lists.
// Cities missing from districts get an empty list.
func NewCodeMap(cities []string, districts map[string][]string) CodeMap {
	m := CodeMap{
		cities:    make([]string, 0, len(cities)),
		districts: make(map[string][]string, len(cities)),
	}
	for _, city := range cities {
		if _, dup := m.districts[city]; dup {
			continue
		}
		m.cities = append(m.cities, city)
		m.districts[city] = append([]string(nil), districts[city]...)
	}
	return m
}

// Cities returns the city names in load order.
func (m CodeMap) Cities() []string {
	return append([]string(nil), m.cities...)
}

// Districts returns the district names for city, or nil if unknown.
func (m CodeMap) Districts(city string) []string {
	d, ok := m.districts[city]
	if !ok {
		return nil
	}
	return append([]string(nil), d...)
}

// HasCity reports whether city is present.
func (m CodeMap) HasCity(city string) bool {
	_, ok := m.districts[city]
	return ok
}

// Contains reports whether district belongs to city.
func (m CodeMap) Contains(city, district string) bool {
	for _, d := range m.districts[city] {
		if d == district {
			return true
		}
	}
	return false
}

// Len returns the number of cities.
func (m CodeMap) Len() int {
	return len(m.cities)
}

// IsEmpty reports whether nothing has been loaded.
func (m CodeMap) IsEmpty() bool {
	return len(m.cities) == 0
}

// UnmarshalJSON decodes {"city": [...]} or {"city": {"district": "code"}},
// keeping the document order of both cities and districts.
func (m *CodeMap) UnmarshalJSON(data []byte) error {
	var cities []string
	districts := make(map[string][]string)

	err := walkObject(data, func(city string, raw json.RawMessage) error {
		names, err := districtNames(raw)
		if err != nil {
			return fmt.Errorf("city %q: %w", city, err)
		}
		cities = append(cities, city)
		districts[city] = names
		return nil
	})
	if err != nil {
		return err
	}

	*m = NewCodeMap(cities, districts)
	return nil
}

// MarshalJSON encodes the map as {"city": ["district", ...]} in load order.
func (m CodeMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, city := range m.cities {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(city)
		if err != nil {
			return nil, err
		}
		list := m.districts[city]
		if list == nil {
			list = []string{}
		}
		val, err := json.Marshal(list)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// districtNames accepts a JSON array of names or an object keyed by name.
func districtNames(raw json.RawMessage) ([]string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []string{}, nil
	}

	if trimmed[0] == '[' {
		var names []string
		if err := json.Unmarshal(trimmed, &names); err != nil {
			return nil, err
		}
		return names, nil
	}

	var names []string
	err := walkObject(trimmed, func(name string, _ json.RawMessage) error {
		names = append(names, name)
		return nil
	})
	return names, err
}

// walkObject visits the members of a JSON object in document order.
func walkObject(data []byte, fn func(key string, raw json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("key %q: %w", key, err)
		}
		if err := fn(key, raw); err != nil {
			return err
		}
	}

	_, err = dec.Token()
	return err
}
