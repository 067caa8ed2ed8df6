package fix

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Field is one tag=value pair as it appears on the wire.
type Field struct {
	Tag   Tag
	Value string
}

// FieldNotFoundError is returned when a requested tag is absent.
type FieldNotFoundError struct {
	Tag Tag
}

func (e FieldNotFoundError) Error() string {
	return fmt.Sprintf("fix: field %d not found", e.Tag)
}

// IncorrectDataFormatError is returned when a value cannot be converted.
type IncorrectDataFormatError struct {
	Tag   Tag
	Value string
}

func (e IncorrectDataFormatError) Error() string {
	return fmt.Sprintf("fix: incorrect data format for field %d: %q", e.Tag, e.Value)
}

// FieldMap is an ordered collection of fields. Insertion order is wire order.
type FieldMap struct {
	fields []Field
}

// Set replaces the first occurrence of t, or appends it.
func (m *FieldMap) Set(t Tag, value string) *FieldMap {
	for i := range m.fields {
		if m.fields[i].Tag == t {
			m.fields[i].Value = value
			return m
		}
	}
	m.fields = append(m.fields, Field{Tag: t, Value: value})
	return m
}

// Add appends a field even when the tag is already present. Used for groups.
func (m *FieldMap) Add(t Tag, value string) *FieldMap {
	m.fields = append(m.fields, Field{Tag: t, Value: value})
	return m
}

// AddGroup appends a repeating group: the count tag followed by each repetition.
func (m *FieldMap) AddGroup(countTag Tag, reps ...[]Field) *FieldMap {
	m.Add(countTag, strconv.Itoa(len(reps)))
	for _, rep := range reps {
		m.fields = append(m.fields, rep...)
	}
	return m
}

func (m *FieldMap) SetInt(t Tag, v int) *FieldMap {
	return m.Set(t, strconv.Itoa(v))
}

func (m *FieldMap) SetBool(t Tag, v bool) *FieldMap {
	if v {
		return m.Set(t, "Y")
	}
	return m.Set(t, "N")
}

func (m *FieldMap) SetTime(t Tag, v time.Time) *FieldMap {
	return m.Set(t, FormatUTCTimestamp(v))
}

func (m *FieldMap) SetDecimal(t Tag, v decimal.Decimal, scale int32) *FieldMap {
	return m.Set(t, v.StringFixed(scale))
}

// Get returns the first value for t.
func (m *FieldMap) Get(t Tag) (string, bool) {
	for _, f := range m.fields {
		if f.Tag == t {
			return f.Value, true
		}
	}
	return "", false
}

func (m *FieldMap) GetString(t Tag) (string, error) {
	v, ok := m.Get(t)
	if !ok {
		return "", FieldNotFoundError{Tag: t}
	}
	return v, nil
}

func (m *FieldMap) GetInt(t Tag) (int, error) {
	v, ok := m.Get(t)
	if !ok {
		return 0, FieldNotFoundError{Tag: t}
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, IncorrectDataFormatError{Tag: t, Value: v}
	}
	return n, nil
}

func (m *FieldMap) GetBool(t Tag) (bool, error) {
	v, ok := m.Get(t)
	if !ok {
		return false, FieldNotFoundError{Tag: t}
	}
	switch v {
	case "Y":
		return true, nil
	case "N":
		return false, nil
	}
	return false, IncorrectDataFormatError{Tag: t, Value: v}
}

func (m *FieldMap) GetTime(t Tag) (time.Time, error) {
	v, ok := m.Get(t)
	if !ok {
		return time.Time{}, FieldNotFoundError{Tag: t}
	}
	ts, err := ParseUTCTimestamp(v)
	if err != nil {
		return time.Time{}, IncorrectDataFormatError{Tag: t, Value: v}
	}
	return ts, nil
}

func (m *FieldMap) GetDecimal(t Tag) (decimal.Decimal, error) {
	v, ok := m.Get(t)
	if !ok {
		return decimal.Zero, FieldNotFoundError{Tag: t}
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, IncorrectDataFormatError{Tag: t, Value: v}
	}
	return d, nil
}

// Has reports whether t is present at least once.
func (m *FieldMap) Has(t Tag) bool {
	_, ok := m.Get(t)
	return ok
}

// Remove drops every occurrence of t.
func (m *FieldMap) Remove(t Tag) {
	out := m.fields[:0]
	for _, f := range m.fields {
		if f.Tag != t {
			out = append(out, f)
		}
	}
	m.fields = out
}

func (m *FieldMap) Len() int {
	return len(m.fields)
}

// Fields returns a copy of the fields in wire order.
func (m *FieldMap) Fields() []Field {
	out := make([]Field, len(m.fields))
	copy(out, m.fields)
	return out
}

func (m *FieldMap) Clear() {
	m.fields = nil
}

func (m *FieldMap) copyFrom(src *FieldMap) {
	m.fields = src.Fields()
}
