// Package expect integrates schema reference matching with Go test
// assertions.
//
// The matcher itself is a pure function; this package is the only
// framework-coupled code, converting a failed match into test output:
//
//	reg, _ := schemaref.Initialize()
//	e := expect.New(t, reg)
//
//	resp := account.EstimateFee(calls)
//	e.ToMatchSchemaRef(resp, "EstimateFee")
//
// An unresolvable schema name stops the test immediately: it is a setup
// bug, and letting it pass silently would validate nothing.
package expect
