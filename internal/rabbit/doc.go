// Package rabbit wraps the AMQP connection plumbing used by the stream
// validator: dial with timeout, sanitized logging, and channel handout.
// It deliberately carries no topology or publishing concerns.
package rabbit
