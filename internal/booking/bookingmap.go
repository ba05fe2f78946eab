package booking

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Map holds appointments by composite key and remembers insertion order,
// which is also the order of the persisted snapshot.
type Map struct {
	keys    []string
	entries map[string]Appointment
}

// NewMap returns an empty map.
func NewMap() *Map {
	return &Map{entries: make(map[string]Appointment)}
}

func (m *Map) Len() int {
	return len(m.keys)
}

func (m *Map) Get(key string) (Appointment, bool) {
	a, ok := m.entries[key]
	return a, ok
}

// IsBooked satisfies slots.Lookup.
func (m *Map) IsBooked(doctor, date, slot string) bool {
	_, ok := m.entries[Key(doctor, date, slot)]
	return ok
}

// Put stores a under its composite key.
func (m *Map) Put(a Appointment) {
	m.set(a.Key(), a)
}

func (m *Map) set(key string, a Appointment) {
	if _, exists := m.entries[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.entries[key] = a
}

// Delete removes key and reports whether it was present.
func (m *Map) Delete(key string) bool {
	if _, ok := m.entries[key]; !ok {
		return false
	}
	delete(m.entries, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	return true
}

// FindByID scans entries in order and returns the first whose id matches.
func (m *Map) FindByID(id string) (string, Appointment, bool) {
	for _, k := range m.keys {
		if a := m.entries[k]; a.AppointmentID == id {
			return k, a, true
		}
	}
	return "", Appointment{}, false
}

// Appointments returns the entries in insertion order.
func (m *Map) Appointments() []Appointment {
	out := make([]Appointment, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, m.entries[k])
	}
	return out
}

// Keys returns the composite keys in insertion order.
func (m *Map) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Clone returns an independent copy.
func (m *Map) Clone() *Map {
	c := NewMap()
	for _, k := range m.keys {
		c.set(k, m.entries[k])
	}
	return c
}

// MarshalJSON writes a JSON object whose member order follows insertion order.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(m.entries[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object keeping member order. A repeated member
// keeps its first position and its last value. null yields an empty map.
func (m *Map) UnmarshalJSON(data []byte) error {
	fresh := NewMap()
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*m = *fresh
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("booking: snapshot is not a JSON object")
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("booking: unexpected snapshot token %v", tok)
		}
		var a Appointment
		if err := dec.Decode(&a); err != nil {
			return fmt.Errorf("booking: decode %q: %w", key, err)
		}
		fresh.set(key, a)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*m = *fresh
	return nil
}
