package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feeDocument = `
schemas:
  EstimateFee:
    type: object
    fields:
      overall_fee: {type: numeric-string, required: true}
      gas_price: {type: numeric-string}
      unit: {type: string}
  DeployResponse:
    oneOf:
      - type: object
        fields:
          contract_address: {type: felt, required: true}
          transaction_hash: {type: felt, required: true}
      - type: object
        fields:
          contract_address:
            type: array
            required: true
            items: {type: felt}
          transaction_hash: {type: felt, required: true}
`

func TestParse(t *testing.T) {
	t.Run("Parse builds definitions from a document", func(t *testing.T) {
		defs, err := Parse([]byte(feeDocument))

		require.NoError(t, err)
		require.Contains(t, defs, "EstimateFee")
		require.Contains(t, defs, "DeployResponse")

		fee, ok := defs["EstimateFee"].(*Object)
		require.True(t, ok)
		assert.True(t, fee.Fields["overall_fee"].Required)
		assert.False(t, fee.Fields["gas_price"].Required)
		assert.Equal(t, &Primitive{Type: NumericString}, fee.Fields["overall_fee"].Definition)

		deploy, ok := defs["DeployResponse"].(*OneOf)
		require.True(t, ok)
		assert.Len(t, deploy.Alternatives, 2)
	})

	t.Run("parsed definitions drive matching", func(t *testing.T) {
		defs, err := Parse([]byte(feeDocument))
		require.NoError(t, err)

		reg := NewRegistry()
		require.NoError(t, reg.RegisterAll(defs))

		result, err := MatchRef(map[string]interface{}{"overall_fee": "42"}, "EstimateFee", reg)
		require.NoError(t, err)
		assert.True(t, result.OK)

		result, err = MatchRef(map[string]interface{}{
			"contract_address": []interface{}{"0x1a", "0x2b"},
			"transaction_hash": "0x3c",
		}, "DeployResponse", reg)
		require.NoError(t, err)
		assert.True(t, result.OK)
	})

	t.Run("json documents parse as well", func(t *testing.T) {
		doc := `{"schemas": {"Hash": {"type": "felt"}}}`

		defs, err := Parse([]byte(doc))

		require.NoError(t, err)
		assert.Equal(t, &Primitive{Type: Felt}, defs["Hash"])
	})

	t.Run("Parse fails with no schemas", func(t *testing.T) {
		_, err := Parse([]byte("schemas: {}"))

		assert.Error(t, err)
	})

	t.Run("unknown type is reported with its path", func(t *testing.T) {
		doc := `
schemas:
  Bad:
    type: object
    fields:
      field: {type: whatever}
`
		_, err := Parse([]byte(doc))

		require.Error(t, err)
		var docErr *DocumentError
		require.ErrorAs(t, err, &docErr)
		assert.Equal(t, "Bad.field", docErr.Path)
	})

	t.Run("array without items is rejected", func(t *testing.T) {
		doc := `
schemas:
  Bad: {type: array}
`
		_, err := Parse([]byte(doc))

		assert.Error(t, err)
	})

	t.Run("node with both type and oneOf is rejected", func(t *testing.T) {
		doc := `
schemas:
  Bad:
    type: string
    oneOf:
      - {type: string}
`
		_, err := Parse([]byte(doc))

		assert.Error(t, err)
	})

	t.Run("node without type or oneOf is rejected", func(t *testing.T) {
		doc := `
schemas:
  Bad: {required: true}
`
		_, err := Parse([]byte(doc))

		assert.Error(t, err)
	})
}

func TestLoadFile(t *testing.T) {
	t.Run("LoadFile reads a document from disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "schemas.yaml")
		require.NoError(t, os.WriteFile(path, []byte(feeDocument), 0o644))

		defs, err := LoadFile(path)

		require.NoError(t, err)
		assert.Contains(t, defs, "EstimateFee")
	})

	t.Run("LoadFile fails for missing files", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))

		assert.Error(t, err)
	})
}
