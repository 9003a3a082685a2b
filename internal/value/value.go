// File: internal/value/value.go
// Package value implements the tuple-space data model: typed values,
// comparison operators, requests, and tuples.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package value

import "fmt"

// Kind identifies the primitive type carried by a Value.
type Kind uint8

const (
	KindInt Kind = iota
	KindFloat
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Value is a tagged sum over Int(i32), Float(f64), and String(UTF-8).
// A Value may be empty (type-only, no payload) — empty values only ever
// appear inside Requests, as type placeholders.
type Value struct {
	kind  Kind
	empty bool
	i     int32
	f     float64
	s     string
}

// Int constructs a concrete Int value.
func Int(i int32) Value { return Value{kind: KindInt, i: i} }

// Float constructs a concrete Float value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Str constructs a concrete String value.
func Str(s string) Value { return Value{kind: KindString, s: s} }

// EmptyInt constructs a type-only Int placeholder.
func EmptyInt() Value { return Value{kind: KindInt, empty: true} }

// EmptyFloat constructs a type-only Float placeholder.
func EmptyFloat() Value { return Value{kind: KindFloat, empty: true} }

// EmptyString constructs a type-only String placeholder.
func EmptyString() Value { return Value{kind: KindString, empty: true} }

// Kind reports the declared/carried type.
func (v Value) Kind() Kind { return v.kind }

// IsEmpty reports whether v carries no payload (type-only placeholder).
func (v Value) IsEmpty() bool { return v.empty }

// IsInt reports whether v's kind is Int.
func (v Value) IsInt() bool { return v.kind == KindInt }

// IsFloat reports whether v's kind is Float.
func (v Value) IsFloat() bool { return v.kind == KindFloat }

// IsString reports whether v's kind is String.
func (v Value) IsString() bool { return v.kind == KindString }

// IntVal returns the carried int32 payload. Only meaningful when
// Kind()==KindInt && !IsEmpty().
func (v Value) IntVal() int32 { return v.i }

// FloatVal returns the carried float64 payload. Only meaningful when
// Kind()==KindFloat && !IsEmpty().
func (v Value) FloatVal() float64 { return v.f }

// StrVal returns the carried string payload. Only meaningful when
// Kind()==KindString && !IsEmpty().
func (v Value) StrVal() string { return v.s }

// SameType reports whether a and b carry the same declared Kind,
// regardless of emptiness or payload.
func SameType(a, b Value) bool { return a.kind == b.kind }

// String implements fmt.Stringer for debugging and REPL echo output.
func (v Value) String() string {
	if v.empty {
		return fmt.Sprintf("%s:*", v.kind)
	}
	switch v.kind {
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindFloat:
		return fmt.Sprintf("%g", v.f)
	case KindString:
		return fmt.Sprintf("%q", v.s)
	default:
		return "<invalid>"
	}
}
