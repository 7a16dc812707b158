// Package stream validates sequencer response payloads in flight.
//
// A Validator consumes JSON payloads from a broker queue, resolves the
// schema name from the x-schema message header (or a configured default),
// and matches each body structurally. Conforming payloads are
// acknowledged; malformed ones are rejected without requeue, since
// structural validation is deterministic and retrying cannot change the
// outcome. Counters for validated and rejected payloads are exposed for
// scraping.
package stream
