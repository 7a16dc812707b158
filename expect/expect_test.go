package expect

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ybensacq/schemaref/schema"
)

// capturingT records assertion output instead of failing the real test.
type capturingT struct {
	errors []string
	fatals []string
}

func (c *capturingT) Errorf(format string, args ...interface{}) {
	c.errors = append(c.errors, fmt.Sprintf(format, args...))
}

func (c *capturingT) Fatalf(format string, args ...interface{}) {
	c.fatals = append(c.fatals, fmt.Sprintf(format, args...))
}

func feeRegistry(t *testing.T) *schema.Registry {
	t.Helper()
	reg := schema.NewRegistry()
	require.NoError(t, reg.Register("EstimateFee", &schema.Object{
		Fields: map[string]schema.Field{
			"overall_fee": schema.Required(&schema.Primitive{Type: schema.NumericString}),
		},
	}))
	return reg
}

func TestToMatchSchemaRef(t *testing.T) {
	t.Run("conforming value passes without output", func(t *testing.T) {
		reg := feeRegistry(t)
		ct := &capturingT{}

		ok := ToMatchSchemaRef(ct, reg, map[string]interface{}{"overall_fee": "123456"}, "EstimateFee")

		assert.True(t, ok)
		assert.Empty(t, ct.errors)
		assert.Empty(t, ct.fatals)
	})

	t.Run("mismatch fails with every diagnostic", func(t *testing.T) {
		reg := feeRegistry(t)
		ct := &capturingT{}

		ok := ToMatchSchemaRef(ct, reg, map[string]interface{}{"overall_fee": "abc"}, "EstimateFee")

		assert.False(t, ok)
		require.Len(t, ct.errors, 1)
		assert.Contains(t, ct.errors[0], `does not match schema "EstimateFee"`)
		assert.Contains(t, ct.errors[0], `overall_fee: expected numeric-string, got "abc"`)
		assert.Empty(t, ct.fatals)
	})

	t.Run("unknown schema name is fatal", func(t *testing.T) {
		reg := feeRegistry(t)
		ct := &capturingT{}

		ok := ToMatchSchemaRef(ct, reg, map[string]interface{}{}, "NoSuchSchema")

		assert.False(t, ok)
		require.Len(t, ct.fatals, 1)
		assert.Contains(t, ct.fatals[0], `"NoSuchSchema"`)
		assert.Empty(t, ct.errors)
	})

	t.Run("works against the real testing.T", func(t *testing.T) {
		reg := feeRegistry(t)

		ok := ToMatchSchemaRef(t, reg, map[string]interface{}{"overall_fee": "123456"}, "EstimateFee")

		assert.True(t, ok)
	})
}

func TestExpectation(t *testing.T) {
	t.Run("bound expectation matches through its registry", func(t *testing.T) {
		reg := feeRegistry(t)
		ct := &capturingT{}
		e := New(ct, reg)

		assert.True(t, e.ToMatchSchemaRef(map[string]interface{}{"overall_fee": "1"}, "EstimateFee"))
		assert.False(t, e.ToMatchSchemaRef(map[string]interface{}{}, "EstimateFee"))
		require.Len(t, ct.errors, 1)
		assert.Contains(t, ct.errors[0], "overall_fee: missing required field")
	})
}
