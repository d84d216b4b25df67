// Package document provides document tree value types, field paths, and
// pure extraction/placement functions shared by all source formats.
package document

// Value is a scalar extracted from a document. The zero value is Absent,
// which is distinct from an empty string: Absent means the addressed node
// or field does not exist.
type Value struct {
	str     string
	present bool
}

// Absent is the missing-value marker.
var Absent = Value{}

// String wraps a string as a present Value. String("") is present and
// not equal to Absent.
func String(s string) Value {
	return Value{str: s, present: true}
}

// Present reports whether the value exists.
func (v Value) Present() bool { return v.present }

// Str returns the underlying string. Absent yields "".
func (v Value) Str() string { return v.str }

// StrOr returns the underlying string, or def when the value is absent.
func (v Value) StrOr(def string) string {
	if !v.present {
		return def
	}
	return v.str
}
