// Package sequencer ships the built-in named schemas for sequencer SDK
// responses: fee estimates, declare and deploy results, and transaction
// receipts.
//
// The definitions describe the minimum shape test suites assert on, so
// responses gaining new fields keep matching. Register them into a
// registry with RegisterBuiltins; registration is idempotent within a
// process.
package sequencer
