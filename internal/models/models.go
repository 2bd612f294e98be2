package models

import (
	"iter"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindSequence
	KindMapping
)

var kindNames = [...]string{"null", "boolean", "number", "string", "sequence", "mapping"}

// String returns the lowercase variant name.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// Value is a node of the canonical tree that every parser produces and every
// serializer consumes. The concrete types are Null, Bool, Number, String,
// Sequence and *Mapping; nothing else implements it.
type Value interface {
	Kind() Kind
}

// Null is the absent value.
type Null struct{}

// Bool is a boolean value.
type Bool bool

// String is a UTF-8 string value.
type String string

// Number holds a valid JSON number literal. Keeping the literal text instead
// of a float64 lets integers of any size and floats survive a round trip
// without precision loss.
type Number string

// Sequence is an ordered list of values.
type Sequence []Value

func (Null) Kind() Kind     { return KindNull }
func (Bool) Kind() Kind     { return KindBool }
func (String) Kind() Kind   { return KindString }
func (Number) Kind() Kind   { return KindNumber }
func (Sequence) Kind() Kind { return KindSequence }

var jsonNumberRegex = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][-+]?[0-9]+)?$`)

// ParseNumber returns s as a Number when it is a valid JSON number literal.
func ParseNumber(s string) (Number, bool) {
	if !jsonNumberRegex.MatchString(s) {
		return "", false
	}
	return Number(s), true
}

// IntNumber returns the Number for an integer.
func IntNumber(i int64) Number {
	return Number(strconv.FormatInt(i, 10))
}

// FloatNumber returns the Number for a float. It reports false for NaN and
// infinities, which have no JSON literal. The literal always carries a
// fraction or exponent so the value stays a float after a round trip.
func FloatNumber(f float64) (Number, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", false
	}
	format := byte('f')
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	s := strconv.FormatFloat(f, format, -1, 64)
	if format == 'e' {
		// 1e-07 -> 1e-7
		if n := len(s); n >= 4 && s[n-4] == 'e' && s[n-3] == '-' && s[n-2] == '0' {
			s = s[:n-2] + s[n-1:]
		}
	}
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return Number(s), true
}

// IsInteger reports whether the literal has neither fraction nor exponent.
func (n Number) IsInteger() bool {
	return !strings.ContainsAny(string(n), ".eE")
}

// Int64 parses the literal as an int64.
func (n Number) Int64() (int64, error) {
	return strconv.ParseInt(string(n), 10, 64)
}

// Float64 parses the literal as a float64.
func (n Number) Float64() (float64, error) {
	return strconv.ParseFloat(string(n), 64)
}

// String returns the literal text.
func (n Number) String() string { return string(n) }

// Mapping is an ordered collection of unique string keys. Keys keep the
// position of their first insertion.
type Mapping struct {
	keys   []string
	values map[string]Value
}

// NewMapping returns an empty Mapping.
func NewMapping() *Mapping {
	return &Mapping{values: make(map[string]Value)}
}

func (m *Mapping) Kind() Kind { return KindMapping }

// Set stores v under key. Replacing an existing key keeps its position.
func (m *Mapping) Set(key string, v Value) {
	if v == nil {
		v = Null{}
	}
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// Get returns the value stored under key.
func (m *Mapping) Get(key string) (Value, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (m *Mapping) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of entries.
func (m *Mapping) Len() int { return len(m.keys) }

// All iterates over the entries in insertion order.
func (m *Mapping) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, k := range m.keys {
			if !yield(k, m.values[k]) {
				return
			}
		}
	}
}

// Equal reports whether a and b hold the same tree. Mapping order is part of
// the comparison.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case Null:
		return true
	case Bool:
		return av == b.(Bool)
	case String:
		return av == b.(String)
	case Number:
		return av == b.(Number)
	case Sequence:
		bv := b.(Sequence)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case *Mapping:
		bv := b.(*Mapping)
		if av.Len() != bv.Len() {
			return false
		}
		for i, k := range av.keys {
			if bv.keys[i] != k || !Equal(av.values[k], bv.values[k]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
