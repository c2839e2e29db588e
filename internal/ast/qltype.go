package ast

import (
	"fmt"
	"slices"
	"strings"
)

// Type is the value type of a question or expression. It is a closed set:
// the four declarable types plus Undefined, which the type checker returns
// for any expression whose type could not be determined because an error was
// already reported for it.
type Type int

const (
	Undefined Type = iota
	Boolean
	Integer
	Decimal
	String
)

// Types that operators accept.
var (
	NumericTypes      = []Type{Integer, Decimal}
	AlphaNumericTypes = []Type{Integer, Decimal, String}
	AllTypes          = []Type{Boolean, Integer, Decimal, String}
)

// Promote widens Integer to Decimal. Every other type maps to itself.
func (t Type) Promote() Type {
	if t == Integer {
		return Decimal
	}
	return t
}

// IsIn reports whether t is one of types.
func (t Type) IsIn(types ...Type) bool {
	return slices.Contains(types, t)
}

// IsUndefined reports whether t is the Undefined sentinel.
func (t Type) IsUndefined() bool {
	return t == Undefined
}

// String returns the display name used in diagnostics ("Boolean", "Integer", ...).
func (t Type) String() string {
	switch t {
	case Undefined:
		return "Undefined"
	case Boolean:
		return "Boolean"
	case Integer:
		return "Integer"
	case Decimal:
		return "Decimal"
	case String:
		return "String"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// Keyword returns the lower-case form used in form documents.
func (t Type) Keyword() string {
	return strings.ToLower(t.String())
}

// ParseType parses a declared type keyword. Matching is case-insensitive.
// Undefined is not declarable and is rejected.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(s) {
	case "boolean":
		return Boolean, nil
	case "integer":
		return Integer, nil
	case "decimal":
		return Decimal, nil
	case "string":
		return String, nil
	default:
		return Undefined, fmt.Errorf("unknown type %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler using the document keyword.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.Keyword()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
