package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	t.Run("NewRegistry creates empty registry", func(t *testing.T) {
		reg := NewRegistry()

		assert.NotNil(t, reg)
		assert.Empty(t, reg.Names())
	})
}

func TestRegister(t *testing.T) {
	estimateFee := &Object{
		Fields: map[string]Field{
			"overall_fee": Required(&Primitive{Type: NumericString}),
		},
	}

	t.Run("Register succeeds with valid parameters", func(t *testing.T) {
		reg := NewRegistry()

		err := reg.Register("EstimateFee", estimateFee)

		assert.NoError(t, err)
		def, err := reg.Get("EstimateFee")
		assert.NoError(t, err)
		assert.Equal(t, estimateFee, def)
	})

	t.Run("Register fails with empty name", func(t *testing.T) {
		reg := NewRegistry()

		err := reg.Register("", estimateFee)

		assert.ErrorIs(t, err, ErrInvalidDefinition)
	})

	t.Run("Register fails with nil definition", func(t *testing.T) {
		reg := NewRegistry()

		err := reg.Register("EstimateFee", nil)

		assert.ErrorIs(t, err, ErrInvalidDefinition)
	})

	t.Run("re-registering identical definition is a no-op", func(t *testing.T) {
		reg := NewRegistry()
		require.NoError(t, reg.Register("EstimateFee", estimateFee))

		same := &Object{
			Fields: map[string]Field{
				"overall_fee": Required(&Primitive{Type: NumericString}),
			},
		}
		err := reg.Register("EstimateFee", same)

		assert.NoError(t, err)
		assert.Equal(t, []string{"EstimateFee"}, reg.Names())
	})

	t.Run("re-registering conflicting definition fails", func(t *testing.T) {
		reg := NewRegistry()
		require.NoError(t, reg.Register("EstimateFee", estimateFee))

		err := reg.Register("EstimateFee", &Primitive{Type: String})

		assert.ErrorIs(t, err, ErrDuplicateSchema)
		assert.Contains(t, err.Error(), "EstimateFee")
	})

	t.Run("overwrite option replaces conflicting definition", func(t *testing.T) {
		reg := NewRegistry(WithOverwrite(true))
		require.NoError(t, reg.Register("EstimateFee", estimateFee))

		replacement := &Primitive{Type: String}
		err := reg.Register("EstimateFee", replacement)

		assert.NoError(t, err)
		def, err := reg.Get("EstimateFee")
		assert.NoError(t, err)
		assert.Equal(t, replacement, def)
	})
}

func TestGet(t *testing.T) {
	t.Run("Get fails fast for unknown name", func(t *testing.T) {
		reg := NewRegistry()

		def, err := reg.Get("NoSuchSchema")

		assert.Nil(t, def)
		assert.ErrorIs(t, err, ErrUnknownSchema)
		assert.Contains(t, err.Error(), "NoSuchSchema")
	})
}

func TestRegisterAll(t *testing.T) {
	t.Run("RegisterAll registers every definition", func(t *testing.T) {
		reg := NewRegistry()
		defs := map[string]Definition{
			"A": &Primitive{Type: String},
			"B": &Primitive{Type: Number},
		}

		err := reg.RegisterAll(defs)

		assert.NoError(t, err)
		assert.Equal(t, []string{"A", "B"}, reg.Names())
	})

	t.Run("RegisterAll surfaces duplicate errors", func(t *testing.T) {
		reg := NewRegistry()
		require.NoError(t, reg.Register("A", &Primitive{Type: String}))

		err := reg.RegisterAll(map[string]Definition{
			"A": &Primitive{Type: Number},
		})

		assert.ErrorIs(t, err, ErrDuplicateSchema)
	})
}

func TestHasAndNames(t *testing.T) {
	t.Run("Has and Names reflect registrations", func(t *testing.T) {
		reg := NewRegistry()
		require.NoError(t, reg.Register("B", &Primitive{Type: String}))
		require.NoError(t, reg.Register("A", &Primitive{Type: String}))

		assert.True(t, reg.Has("A"))
		assert.False(t, reg.Has("C"))
		assert.Equal(t, []string{"A", "B"}, reg.Names())
	})
}
