package schema

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/holiman/uint256"
)

// Mismatch codes carried in diagnostics.
const (
	CodeRequiredFieldMissing = "REQUIRED_FIELD_MISSING"
	CodeTypeMismatch         = "TYPE_MISMATCH"
	CodeNoAlternativeMatched = "NO_ALTERNATIVE_MATCHED"
	CodeConversionError      = "CONVERSION_ERROR"
)

// Mismatch is a single path-qualified diagnostic.
type Mismatch struct {
	Path    string      `json:"path"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (m Mismatch) String() string {
	if m.Path == "" {
		return m.Message
	}
	return fmt.Sprintf("%s: %s", m.Path, m.Message)
}

// Result is the outcome of a structural match. Mismatches are accumulated
// across an object, so one report names every missing or invalid field.
type Result struct {
	OK         bool       `json:"ok"`
	Mismatches []Mismatch `json:"mismatches,omitempty"`
}

func (r Result) String() string {
	if r.OK {
		return "ok"
	}
	lines := make([]string, len(r.Mismatches))
	for i, m := range r.Mismatches {
		lines[i] = m.String()
	}
	return strings.Join(lines, "\n")
}

func (r *Result) add(m Mismatch) {
	r.OK = false
	r.Mismatches = append(r.Mismatches, m)
}

var (
	decimalPattern = regexp.MustCompile(`^\d+$`)
	hexPattern     = regexp.MustCompile(`^0x[0-9a-fA-F]+$`)

	// The field element modulus, 2^251 + 17*2^192 + 1. Hashes and
	// addresses must be strictly below it.
	feltModulus = uint256.MustFromHex("0x800000000000011000000000000000000000000000000000000000000000001")
)

// Match validates value against def and reports every mismatch found.
// It is pure: no state is read or written beyond its arguments.
//
// value may be a decoded JSON document (maps, slices, strings, float64),
// a struct, or raw JSON bytes; every input is normalized through a JSON
// round-trip before matching.
func Match(value interface{}, def Definition) Result {
	result := Result{OK: true}

	if def == nil {
		result.add(Mismatch{
			Code:    CodeConversionError,
			Message: "definition is nil",
		})
		return result
	}

	normalized, err := normalize(value)
	if err != nil {
		result.add(Mismatch{
			Code:    CodeConversionError,
			Message: fmt.Sprintf("value cannot be normalized for matching: %v", err),
		})
		return result
	}

	matchNode("", normalized, def, &result)
	return result
}

// MatchRef resolves name through reg and matches value against the named
// definition. A failed lookup is returned as an error, distinct from a
// failed match: it signals broken setup rather than a bad value.
func MatchRef(value interface{}, name string, reg *Registry) (Result, error) {
	def, err := reg.Get(name)
	if err != nil {
		return Result{}, err
	}
	return Match(value, def), nil
}

func matchNode(path string, value interface{}, def Definition, result *Result) {
	switch d := def.(type) {
	case *Primitive:
		matchPrimitive(path, value, d, result)
	case *Object:
		matchObject(path, value, d, result)
	case *Array:
		matchArray(path, value, d, result)
	case *OneOf:
		matchOneOf(path, value, d, result)
	default:
		result.add(Mismatch{
			Path:    path,
			Code:    CodeConversionError,
			Message: fmt.Sprintf("unsupported definition node %T", def),
		})
	}
}

func matchObject(path string, value interface{}, def *Object, result *Result) {
	obj, ok := value.(map[string]interface{})
	if !ok {
		result.add(Mismatch{
			Path:    path,
			Code:    CodeTypeMismatch,
			Message: fmt.Sprintf("expected object, got %s", jsonTypeName(value)),
			Value:   value,
		})
		return
	}

	// Sorted field order keeps diagnostics stable across runs.
	names := make([]string, 0, len(def.Fields))
	for name := range def.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		field := def.Fields[name]
		fieldPath := buildPath(path, name)
		fieldValue, present := obj[name]

		if !present {
			if field.Required {
				result.add(Mismatch{
					Path:    fieldPath,
					Code:    CodeRequiredFieldMissing,
					Message: "missing required field",
				})
			}
			continue
		}

		// Upstream responses omit optional fields inconsistently; an
		// explicit null counts as not provided.
		if fieldValue == nil {
			if field.Required {
				result.add(Mismatch{
					Path:    fieldPath,
					Code:    CodeRequiredFieldMissing,
					Message: "required field is null",
				})
			}
			continue
		}

		matchNode(fieldPath, fieldValue, field.Definition, result)
	}
}

func matchArray(path string, value interface{}, def *Array, result *Result) {
	arr, ok := value.([]interface{})
	if !ok {
		result.add(Mismatch{
			Path:    path,
			Code:    CodeTypeMismatch,
			Message: fmt.Sprintf("expected array, got %s", jsonTypeName(value)),
			Value:   value,
		})
		return
	}

	for i, elem := range arr {
		matchNode(fmt.Sprintf("%s[%d]", path, i), elem, def.Elem, result)
	}
}

func matchOneOf(path string, value interface{}, def *OneOf, result *Result) {
	if len(def.Alternatives) == 0 {
		result.add(Mismatch{
			Path:    path,
			Code:    CodeConversionError,
			Message: "oneOf definition has no alternatives",
		})
		return
	}

	var closest *Result
	for _, alt := range def.Alternatives {
		sub := Result{OK: true}
		matchNode(path, value, alt, &sub)
		if sub.OK {
			return
		}
		if closest == nil || len(sub.Mismatches) < len(closest.Mismatches) {
			copied := sub
			closest = &copied
		}
	}

	// Surface the alternative that came nearest to matching so the
	// report stays actionable for polymorphic shapes.
	result.add(Mismatch{
		Path:    path,
		Code:    CodeNoAlternativeMatched,
		Message: fmt.Sprintf("none of %d alternatives matched; closest alternative follows", len(def.Alternatives)),
		Value:   value,
	})
	for _, m := range closest.Mismatches {
		result.add(m)
	}
}

func matchPrimitive(path string, value interface{}, def *Primitive, result *Result) {
	if ok, message := primitiveConforms(value, def.Type); !ok {
		result.add(Mismatch{
			Path:    path,
			Code:    CodeTypeMismatch,
			Message: message,
			Value:   value,
		})
	}
}

func primitiveConforms(value interface{}, kind PrimitiveKind) (bool, string) {
	switch kind {
	case Any:
		return true, ""

	case String:
		if _, ok := value.(string); !ok {
			return false, fmt.Sprintf("expected string, got %s", jsonTypeName(value))
		}
		return true, ""

	case Number:
		if _, ok := value.(float64); !ok {
			return false, fmt.Sprintf("expected number, got %s", jsonTypeName(value))
		}
		return true, ""

	case Boolean:
		if _, ok := value.(bool); !ok {
			return false, fmt.Sprintf("expected boolean, got %s", jsonTypeName(value))
		}
		return true, ""

	case NumericString:
		str, ok := value.(string)
		if !ok {
			return false, fmt.Sprintf("expected numeric-string, got %s", jsonTypeName(value))
		}
		if !decimalPattern.MatchString(str) {
			return false, fmt.Sprintf("expected numeric-string, got %q", str)
		}
		return true, ""

	case HexString:
		str, ok := value.(string)
		if !ok {
			return false, fmt.Sprintf("expected hex-string, got %s", jsonTypeName(value))
		}
		if !hexPattern.MatchString(str) {
			return false, fmt.Sprintf("expected hex-string, got %q", str)
		}
		return true, ""

	case Felt:
		str, ok := value.(string)
		if !ok {
			return false, fmt.Sprintf("expected felt, got %s", jsonTypeName(value))
		}
		if !hexPattern.MatchString(str) {
			return false, fmt.Sprintf("expected felt, got %q", str)
		}
		if !feltInRange(str) {
			return false, fmt.Sprintf("felt out of field range: %q", str)
		}
		return true, ""

	case UUID:
		str, ok := value.(string)
		if !ok {
			return false, fmt.Sprintf("expected uuid, got %s", jsonTypeName(value))
		}
		if _, err := uuid.Parse(str); err != nil {
			return false, fmt.Sprintf("expected uuid, got %q", str)
		}
		return true, ""

	default:
		return false, fmt.Sprintf("unknown primitive kind %q", kind)
	}
}

// feltInRange parses a lexically valid hex string and checks it against
// the field modulus. Leading zero digits are accepted; uint256 rejects
// them so they are trimmed before parsing.
func feltInRange(hex string) bool {
	digits := strings.TrimLeft(hex[2:], "0")
	if digits == "" {
		return true
	}
	if len(digits) > 64 {
		return false
	}
	n, err := uint256.FromHex("0x" + digits)
	if err != nil {
		return false
	}
	return n.Lt(feltModulus)
}

// normalize brings an arbitrary value into decoded-JSON form: objects as
// map[string]interface{}, sequences as []interface{}, numbers as float64.
// Everything goes through one JSON round-trip so a struct, a decoded map
// with stray Go ints inside, and raw bytes all match identically.
func normalize(value interface{}) (interface{}, error) {
	if value == nil {
		return nil, nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	var out interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	return out, nil
}

func jsonTypeName(value interface{}) string {
	switch value.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case map[string]interface{}:
		return "object"
	case []interface{}:
		return "array"
	default:
		return fmt.Sprintf("%T", value)
	}
}

func buildPath(parent, field string) string {
	if parent == "" {
		return field
	}
	return fmt.Sprintf("%s.%s", parent, field)
}
