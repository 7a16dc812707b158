package schema

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownSchema is returned when a schema name is not registered.
	// Hitting it means the calling code or the registry setup is wrong,
	// not that a value failed to match.
	ErrUnknownSchema = errors.New("schema: unknown schema name")

	// ErrDuplicateSchema is returned when a name is registered twice with
	// differing definitions and overwriting is disabled.
	ErrDuplicateSchema = errors.New("schema: schema name already registered")

	// ErrInvalidDefinition is returned for definitions that cannot be
	// registered or interpreted, such as a nil definition or an empty
	// OneOf.
	ErrInvalidDefinition = errors.New("schema: invalid definition")
)

// DocumentError reports a problem in a schema document, qualified by the
// path of the offending node.
type DocumentError struct {
	Path string
	Err  error
}

func (e *DocumentError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("schema document: %v", e.Err)
	}
	return fmt.Sprintf("schema document: %s: %v", e.Path, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}
