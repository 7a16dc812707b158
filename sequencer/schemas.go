package sequencer

import (
	"fmt"

	"github.com/ybensacq/schemaref/schema"
)

// Built-in schema names.
const (
	EstimateFee                   = "EstimateFee"
	GetTransactionReceiptResponse = "GetTransactionReceiptResponse"
	DeclareContractResponse       = "DeclareContractResponse"
	DeployContractUDCResponse     = "DeployContractUDCResponse"
	MultiDeployContractResponse   = "MultiDeployContractResponse"
	DeployResponse                = "DeployResponse"
)

// Builtins returns the built-in named definitions. The map is rebuilt on
// every call, so callers may tighten or extend their copy freely.
func Builtins() map[string]schema.Definition {
	felt := func() *schema.Primitive { return &schema.Primitive{Type: schema.Felt} }
	numeric := func() *schema.Primitive { return &schema.Primitive{Type: schema.NumericString} }
	str := func() *schema.Primitive { return &schema.Primitive{Type: schema.String} }

	// Fees quote as decimal strings; large values would lose precision
	// as JSON numbers.
	estimateFee := &schema.Object{
		Fields: map[string]schema.Field{
			"overall_fee":       schema.Required(numeric()),
			"gas_consumed":      schema.Optional(numeric()),
			"gas_price":         schema.Optional(numeric()),
			"data_gas_consumed": schema.Optional(numeric()),
			"data_gas_price":    schema.Optional(numeric()),
			"unit":              schema.Optional(str()),
		},
	}

	event := &schema.Object{
		Fields: map[string]schema.Field{
			"from_address": schema.Required(felt()),
			"keys":         schema.Required(&schema.Array{Elem: felt()}),
			"data":         schema.Required(&schema.Array{Elem: felt()}),
		},
	}

	// actual_fee appears either as a bare quantity or as an
	// amount/unit pair, depending on the node version.
	actualFee := &schema.OneOf{
		Alternatives: []schema.Definition{
			felt(),
			&schema.Object{
				Fields: map[string]schema.Field{
					"amount": schema.Required(felt()),
					"unit":   schema.Required(str()),
				},
			},
		},
	}

	receipt := &schema.Object{
		Fields: map[string]schema.Field{
			"transaction_hash": schema.Required(felt()),
			"actual_fee":       schema.Optional(actualFee),
			"execution_status": schema.Optional(str()),
			"finality_status":  schema.Optional(str()),
			"block_hash":       schema.Optional(felt()),
			"block_number":     schema.Optional(&schema.Primitive{Type: schema.Number}),
			"events":           schema.Optional(&schema.Array{Elem: event}),
		},
	}

	declare := &schema.Object{
		Fields: map[string]schema.Field{
			"transaction_hash": schema.Required(felt()),
			"class_hash":       schema.Required(felt()),
		},
	}

	// Deployment through the universal deployer reports the address the
	// factory computed alongside the submitting transaction.
	deployUDC := &schema.Object{
		Fields: map[string]schema.Field{
			"transaction_hash":      schema.Required(felt()),
			"contract_address":      schema.Required(felt()),
			"class_hash":            schema.Optional(felt()),
			"contract_address_salt": schema.Optional(felt()),
			"deployer":              schema.Optional(felt()),
		},
	}

	multiDeploy := &schema.Object{
		Fields: map[string]schema.Field{
			"transaction_hash": schema.Required(felt()),
			"contract_address": schema.Required(&schema.Array{Elem: felt()}),
		},
	}

	return map[string]schema.Definition{
		EstimateFee:                   estimateFee,
		GetTransactionReceiptResponse: receipt,
		DeclareContractResponse:       declare,
		DeployContractUDCResponse:     deployUDC,
		MultiDeployContractResponse:   multiDeploy,
		DeployResponse: &schema.OneOf{
			Alternatives: []schema.Definition{deployUDC, multiDeploy},
		},
	}
}

// RegisterBuiltins registers every built-in definition into reg. Calling
// it again on the same registry is a no-op, so independent test files can
// each run their own setup without ordering guarantees.
func RegisterBuiltins(reg *schema.Registry) error {
	if err := reg.RegisterAll(Builtins()); err != nil {
		return fmt.Errorf("sequencer: register builtins: %w", err)
	}
	return nil
}
