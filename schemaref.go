// Package schemaref wires the schema registry, the built-in sequencer
// response schemas, and the test assertion adapter together behind a
// single setup call.
//
//	reg, err := schemaref.Initialize()
//	if err != nil {
//	    t.Fatal(err)
//	}
//	e := expect.New(t, reg)
//	e.ToMatchSchemaRef(resp, "EstimateFee")
//
// Initialize may run once per test file sharing a process; repeated
// built-in registration is a no-op. Workers running in separate processes
// each build their own registry.
package schemaref

import (
	"fmt"

	"github.com/ybensacq/schemaref/expect"
	"github.com/ybensacq/schemaref/schema"
	"github.com/ybensacq/schemaref/sequencer"
)

type config struct {
	overwrite   bool
	schemaFiles []string
	extra       map[string]schema.Definition
}

// Option configures Initialize.
type Option func(*config)

// WithOverwrite lets later registrations replace earlier ones, including
// the built-ins.
func WithOverwrite(overwrite bool) Option {
	return func(c *config) {
		c.overwrite = overwrite
	}
}

// WithSchemaFile loads an additional schema document during setup. May be
// given multiple times; files load in the order provided.
func WithSchemaFile(path string) Option {
	return func(c *config) {
		c.schemaFiles = append(c.schemaFiles, path)
	}
}

// WithSchema registers an additional named definition during setup.
func WithSchema(name string, def schema.Definition) Option {
	return func(c *config) {
		if c.extra == nil {
			c.extra = make(map[string]schema.Definition)
		}
		c.extra[name] = def
	}
}

// Initialize builds a registry populated with the built-in sequencer
// schemas plus any additional documents or definitions from options.
func Initialize(options ...Option) (*schema.Registry, error) {
	cfg := &config{}
	for _, opt := range options {
		opt(cfg)
	}

	var regOpts []schema.RegistryOption
	if cfg.overwrite {
		regOpts = append(regOpts, schema.WithOverwrite(true))
	}

	reg := schema.NewRegistry(regOpts...)
	if err := sequencer.RegisterBuiltins(reg); err != nil {
		return nil, err
	}

	for _, path := range cfg.schemaFiles {
		defs, err := schema.LoadFile(path)
		if err != nil {
			return nil, err
		}
		if err := reg.RegisterAll(defs); err != nil {
			return nil, fmt.Errorf("register %s: %w", path, err)
		}
	}

	if err := reg.RegisterAll(cfg.extra); err != nil {
		return nil, err
	}

	return reg, nil
}

// NewExpectation is shorthand for Initialize followed by expect.New.
func NewExpectation(t expect.TestingT, options ...Option) (*expect.Expectation, error) {
	reg, err := Initialize(options...)
	if err != nil {
		return nil, err
	}
	return expect.New(t, reg), nil
}
