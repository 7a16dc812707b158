package expect

import (
	"fmt"
	"strings"

	"github.com/ybensacq/schemaref/schema"
)

// TestingT is the subset of testing.T this package needs. testify's
// TestingT satisfies it as well.
type TestingT interface {
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
}

type tHelper interface {
	Helper()
}

// ToMatchSchemaRef asserts that value conforms to the named schema.
// Mismatches fail the test with one line per path-qualified diagnostic
// and return false. An unknown schema name aborts the test via Fatalf:
// that is a configuration error at the call site, not a failed match.
func ToMatchSchemaRef(t TestingT, reg *schema.Registry, value interface{}, name string) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}

	result, err := schema.MatchRef(value, name, reg)
	if err != nil {
		t.Fatalf("schema reference %q cannot be resolved: %v", name, err)
		return false
	}

	if result.OK {
		return true
	}

	t.Errorf("value does not match schema %q:\n%s", name, indentMismatches(result.Mismatches))
	return false
}

// Expectation binds a test and a registry so suites can assert without
// threading both through every call.
type Expectation struct {
	t   TestingT
	reg *schema.Registry
}

// New creates an Expectation for t backed by reg.
func New(t TestingT, reg *schema.Registry) *Expectation {
	return &Expectation{t: t, reg: reg}
}

// ToMatchSchemaRef asserts that value conforms to the named schema.
func (e *Expectation) ToMatchSchemaRef(value interface{}, name string) bool {
	if h, ok := e.t.(tHelper); ok {
		h.Helper()
	}
	return ToMatchSchemaRef(e.t, e.reg, value, name)
}

func indentMismatches(mismatches []schema.Mismatch) string {
	lines := make([]string, len(mismatches))
	for i, m := range mismatches {
		lines[i] = fmt.Sprintf("  %s (%s)", m.String(), m.Code)
	}
	return strings.Join(lines, "\n")
}
