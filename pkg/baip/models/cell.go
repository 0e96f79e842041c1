// Package models defines data structures for spreadsheet cell extraction.
package models

import "unicode/utf8"

// Kind classifies a scalar cell value.
type Kind int

const (
	// KindNull marks an empty or unreadable cell.
	KindNull Kind = iota
	// KindText is a string cell.
	KindText
	// KindNumber is a numeric cell, kept as its stored value.
	KindNumber
	// KindBool is a boolean cell.
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	default:
		return "null"
	}
}

// Value is a single scalar cell value.
type Value struct {
	// Kind is the value classification.
	Kind Kind `json:"kind"`
	// Text is the value as displayed in the workbook. Empty for KindNull.
	Text string `json:"text,omitempty"`
}

// Null is the empty sentinel for absent cells.
var Null = Value{}

// TextValue returns a KindText value.
func TextValue(s string) Value {
	return Value{Kind: KindText, Text: s}
}

// NumberValue returns a KindNumber value.
func NumberValue(s string) Value {
	return Value{Kind: KindNumber, Text: s}
}

// IsNull reports whether v holds no value.
func (v Value) IsNull() bool {
	return v.Kind == KindNull
}

// Len returns the length of the value in runes. Null values have length 0.
func (v Value) Len() int {
	if v.IsNull() {
		return 0
	}
	return utf8.RuneCountInString(v.Text)
}

// String returns the serialised form of the value. Null renders as "".
func (v Value) String() string {
	if v.IsNull() {
		return ""
	}
	return v.Text
}
