package schema

import (
	"reflect"
)

// NodeKind identifies a definition variant.
type NodeKind int

const (
	KindPrimitive NodeKind = iota
	KindObject
	KindArray
	KindOneOf
)

// PrimitiveKind names the lexical class a primitive value must satisfy.
type PrimitiveKind string

const (
	// String accepts any JSON string.
	String PrimitiveKind = "string"
	// Number accepts any JSON number.
	Number PrimitiveKind = "number"
	// Boolean accepts JSON true/false.
	Boolean PrimitiveKind = "boolean"
	// NumericString accepts a decimal integer carried as a string. Large
	// fee and balance values are transported this way to avoid precision
	// loss in JSON numbers.
	NumericString PrimitiveKind = "numeric-string"
	// HexString accepts a 0x-prefixed hexadecimal string.
	HexString PrimitiveKind = "hex-string"
	// Felt accepts a 0x-prefixed hexadecimal string whose value lies in
	// the sequencer's 251-bit field element range. Hashes and addresses
	// are felts.
	Felt PrimitiveKind = "felt"
	// UUID accepts an RFC 4122 UUID string.
	UUID PrimitiveKind = "uuid"
	// Any accepts every value. Used for fields whose shape is
	// deliberately left open.
	Any PrimitiveKind = "any"
)

// Definition is a recursive structural descriptor. A definition describes
// the minimum shape a value must have, never an exact one.
type Definition interface {
	Kind() NodeKind
}

// Primitive requires a value of a single lexical kind.
type Primitive struct {
	Type PrimitiveKind
}

func (p *Primitive) Kind() NodeKind { return KindPrimitive }

// Field binds a definition to an object field. Optional fields may be
// absent or null without failing the match.
type Field struct {
	Definition Definition
	Required   bool
}

// Required marks a field that must be present and non-null.
func Required(d Definition) Field {
	return Field{Definition: d, Required: true}
}

// Optional marks a field that is validated only when present.
func Optional(d Definition) Field {
	return Field{Definition: d}
}

// Object requires a keyed structure containing at least the declared
// fields. Fields not declared here are ignored, so matching stays
// forward-compatible as responses grow new fields.
type Object struct {
	Fields map[string]Field
}

func (o *Object) Kind() NodeKind { return KindObject }

// Array requires an ordered sequence whose every element matches Elem.
// An empty sequence matches trivially.
type Array struct {
	Elem Definition
}

func (a *Array) Kind() NodeKind { return KindArray }

// OneOf requires a value matching at least one alternative. Used for
// polymorphic responses such as single versus multi contract deployment.
type OneOf struct {
	Alternatives []Definition
}

func (o *OneOf) Kind() NodeKind { return KindOneOf }

// Equal reports whether two definitions describe the same shape.
func Equal(a, b Definition) bool {
	return reflect.DeepEqual(a, b)
}
