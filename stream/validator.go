package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/ybensacq/schemaref/internal/rabbit"
	"github.com/ybensacq/schemaref/schema"
)

// SchemaHeader is the message header naming the schema a payload claims
// to conform to.
const SchemaHeader = "x-schema"

// Rejection reasons used as metric labels.
const (
	reasonNoSchema      = "no_schema"
	reasonUnknownSchema = "unknown_schema"
	reasonDecode        = "decode"
	reasonMismatch      = "mismatch"
)

// Validator consumes payloads from a queue and validates each against a
// named schema.
type Validator struct {
	conn          *rabbit.Connection
	registry      *schema.Registry
	defaultSchema string
	prefetchCount int
	logger        *slog.Logger

	validated *prometheus.CounterVec
	rejected  *prometheus.CounterVec

	cancel context.CancelFunc
	done   chan struct{}
	mu     sync.Mutex
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*validatorConfig)

type validatorConfig struct {
	defaultSchema string
	prefetchCount int
	logger        *slog.Logger
	registerer    prometheus.Registerer
}

// WithDefaultSchema sets the schema used for payloads without an
// x-schema header.
func WithDefaultSchema(name string) ValidatorOption {
	return func(c *validatorConfig) {
		c.defaultSchema = name
	}
}

// WithPrefetchCount sets the consumer prefetch count.
func WithPrefetchCount(count int) ValidatorOption {
	return func(c *validatorConfig) {
		c.prefetchCount = count
	}
}

// WithValidatorLogger sets the logger.
func WithValidatorLogger(logger *slog.Logger) ValidatorOption {
	return func(c *validatorConfig) {
		c.logger = logger
	}
}

// WithRegisterer sets where validation counters are registered. Defaults
// to the process-wide default registerer.
func WithRegisterer(reg prometheus.Registerer) ValidatorOption {
	return func(c *validatorConfig) {
		c.registerer = reg
	}
}

// NewValidator creates a validator reading from conn and resolving
// schema names through reg.
func NewValidator(conn *rabbit.Connection, reg *schema.Registry, options ...ValidatorOption) (*Validator, error) {
	cfg := &validatorConfig{
		prefetchCount: 10,
		logger:        slog.Default(),
		registerer:    prometheus.DefaultRegisterer,
	}

	for _, opt := range options {
		opt(cfg)
	}

	validated, err := registerCounterVec(cfg.registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schemaref_payloads_validated_total",
		Help: "Payloads that conformed to their schema.",
	}, []string{"schema"}))
	if err != nil {
		return nil, err
	}

	rejected, err := registerCounterVec(cfg.registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schemaref_payloads_rejected_total",
		Help: "Payloads rejected during validation, by reason.",
	}, []string{"schema", "reason"}))
	if err != nil {
		return nil, err
	}

	return &Validator{
		conn:          conn,
		registry:      reg,
		defaultSchema: cfg.defaultSchema,
		prefetchCount: cfg.prefetchCount,
		logger:        cfg.logger,
		validated:     validated,
		rejected:      rejected,
	}, nil
}

// Start begins consuming queue. It returns once the consumer is
// running; validation continues until ctx is cancelled or Stop is
// called.
func (v *Validator) Start(ctx context.Context, queue string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.cancel != nil {
		return fmt.Errorf("stream: validator already started")
	}

	ch, err := v.conn.Channel()
	if err != nil {
		return fmt.Errorf("stream: open channel: %w", err)
	}

	if err := ch.Qos(v.prefetchCount, 0, false); err != nil {
		ch.Close()
		return fmt.Errorf("stream: set qos: %w", err)
	}

	deliveries, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		ch.Close()
		return fmt.Errorf("stream: start consuming: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	v.cancel = cancel
	v.done = make(chan struct{})

	go v.run(runCtx, queue, ch, deliveries)

	v.logger.Info("validating payloads",
		"queue", queue,
		"defaultSchema", v.defaultSchema,
		"prefetchCount", v.prefetchCount,
	)

	return nil
}

func (v *Validator) run(ctx context.Context, queue string, ch *amqp.Channel, deliveries <-chan amqp.Delivery) {
	defer func() {
		ch.Close()
		close(v.done)
		v.logger.Info("validator stopped", "queue", queue)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case delivery, ok := <-deliveries:
			if !ok {
				v.logger.Warn("delivery channel closed", "queue", queue)
				return
			}
			v.process(delivery)
		}
	}
}

// process validates one delivery and settles it. Rejected payloads are
// not requeued: validation is deterministic, so redelivery cannot
// succeed.
func (v *Validator) process(delivery amqp.Delivery) {
	name := v.schemaName(delivery)
	if name == "" {
		v.reject(delivery, "", reasonNoSchema, "payload names no schema and no default is set")
		return
	}

	var value interface{}
	if err := json.Unmarshal(delivery.Body, &value); err != nil {
		v.reject(delivery, name, reasonDecode, fmt.Sprintf("payload is not valid JSON: %v", err))
		return
	}

	result, err := schema.MatchRef(value, name, v.registry)
	if err != nil {
		// Only lookup failures reach here; a bad value is a mismatch,
		// not an error.
		v.reject(delivery, name, reasonUnknownSchema, err.Error())
		return
	}

	if !result.OK {
		v.rejected.WithLabelValues(name, reasonMismatch).Inc()
		v.logger.Warn("payload does not match schema",
			"schema", name,
			"messageId", delivery.MessageId,
			"mismatches", result.String(),
		)
		v.nack(delivery)
		return
	}

	v.validated.WithLabelValues(name).Inc()
	if err := delivery.Ack(false); err != nil {
		v.logger.Error("failed to ack payload", "error", err, "schema", name)
	}
}

func (v *Validator) schemaName(delivery amqp.Delivery) string {
	if raw, ok := delivery.Headers[SchemaHeader]; ok {
		if name, ok := raw.(string); ok && name != "" {
			return name
		}
	}
	return v.defaultSchema
}

func (v *Validator) reject(delivery amqp.Delivery, name, reason, detail string) {
	label := name
	if label == "" {
		label = "unknown"
	}
	v.rejected.WithLabelValues(label, reason).Inc()
	v.logger.Warn("payload rejected",
		"schema", label,
		"reason", reason,
		"detail", detail,
		"messageId", delivery.MessageId,
	)
	v.nack(delivery)
}

func (v *Validator) nack(delivery amqp.Delivery) {
	if err := delivery.Nack(false, false); err != nil {
		v.logger.Error("failed to nack payload", "error", err)
	}
}

// Stop cancels consumption and waits for the run loop to exit.
func (v *Validator) Stop() {
	v.mu.Lock()
	cancel, done := v.cancel, v.done
	v.cancel, v.done = nil, nil
	v.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func registerCounterVec(reg prometheus.Registerer, cv *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(cv); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			return already.ExistingCollector.(*prometheus.CounterVec), nil
		}
		return nil, fmt.Errorf("stream: register metrics: %w", err)
	}
	return cv, nil
}
