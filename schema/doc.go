// Package schema provides named structural schemas and shape matching for
// sequencer response validation.
//
// Responses returned by a sequencer SDK (fee estimates, declare and deploy
// results, transaction receipts) evolve independently of the code asserting
// on them. Instead of deep-equality against fixtures, this package validates
// a minimum shape: required fields must be present with the declared kinds,
// unknown extra fields are tolerated.
//
// Key features:
//   - Tagged-variant schema definitions (Primitive, Object, Array, OneOf)
//   - A read-mostly registry resolving schema names to definitions
//   - A pure structural matcher producing path-qualified diagnostics
//   - Lexical kinds for chain data: numeric strings, hex quantities, felts
//   - YAML/JSON schema documents so a new schema is a data change
//   - Definition inference from Go struct tags
//
// Basic usage:
//
//	reg := schema.NewRegistry()
//	err := reg.Register("EstimateFee", &schema.Object{
//	    Fields: map[string]schema.Field{
//	        "overall_fee": schema.Required(&schema.Primitive{Type: schema.NumericString}),
//	    },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := schema.MatchRef(resp, "EstimateFee", reg)
//	if err != nil {
//	    log.Fatal(err) // unknown schema name: a setup bug, not a mismatch
//	}
//	for _, m := range result.Mismatches {
//	    log.Printf("mismatch: %s", m)
//	}
//
// Matching is deterministic and side-effect free. The registry is written
// during setup and read for the rest of the run; each test worker owns its
// own instance.
package schema
