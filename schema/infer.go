package schema

import (
	"reflect"
	"strings"
	"time"
)

// Infer derives an Object definition from a Go struct, following its json
// tags. Fields tagged omitempty and pointer-typed fields become optional;
// everything else is required. String fields infer as plain strings since
// lexical kinds (felt, numeric-string) cannot be read off a Go type;
// tighten the result by hand where that matters.
//
// Infer is a conservative starting point for validating an SDK response
// type whose shape has no hand-written schema yet.
func Infer(sample interface{}) Definition {
	inf := &inferrer{seen: make(map[reflect.Type]bool)}

	t := reflect.TypeOf(sample)
	if t == nil {
		return &Primitive{Type: Any}
	}
	return inf.definitionFor(t)
}

type inferrer struct {
	// Guards against self-referential types.
	seen map[reflect.Type]bool
}

func (inf *inferrer) definitionFor(t reflect.Type) Definition {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.String:
		return &Primitive{Type: String}

	case reflect.Bool:
		return &Primitive{Type: Boolean}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return &Primitive{Type: Number}

	case reflect.Slice, reflect.Array:
		return &Array{Elem: inf.definitionFor(t.Elem())}

	case reflect.Map:
		// Keys are unknown ahead of time; any object passes.
		return &Object{}

	case reflect.Struct:
		if t == reflect.TypeOf(time.Time{}) {
			return &Primitive{Type: String}
		}
		if inf.seen[t] {
			return &Object{}
		}
		inf.seen[t] = true
		defer delete(inf.seen, t)
		return inf.objectFor(t)

	default:
		return &Primitive{Type: Any}
	}
}

func (inf *inferrer) objectFor(t reflect.Type) *Object {
	fields := make(map[string]Field)

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		// Embedded structs flatten into the parent, matching
		// encoding/json behavior.
		if sf.Anonymous && sf.Tag.Get("json") == "" {
			embedded := inf.definitionFor(sf.Type)
			if obj, ok := embedded.(*Object); ok {
				for name, field := range obj.Fields {
					fields[name] = field
				}
				continue
			}
		}

		name, optional, skip := parseJSONTag(sf)
		if skip {
			continue
		}
		if sf.Type.Kind() == reflect.Ptr {
			optional = true
		}

		fields[name] = Field{
			Definition: inf.definitionFor(sf.Type),
			Required:   !optional,
		}
	}

	return &Object{Fields: fields}
}

func parseJSONTag(sf reflect.StructField) (name string, optional, skip bool) {
	tag := sf.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}

	name = sf.Name
	parts := strings.Split(tag, ",")
	if parts[0] != "" {
		name = parts[0]
	}
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			optional = true
		}
	}
	return name, optional, false
}
