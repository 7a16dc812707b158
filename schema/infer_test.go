package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inferReceipt struct {
	TransactionHash string       `json:"transaction_hash"`
	BlockNumber     float64      `json:"block_number,omitempty"`
	Events          []inferEvent `json:"events"`
	Reverted        bool         `json:"reverted"`
	SeenAt          time.Time    `json:"seen_at"`
	Internal        string       `json:"-"`
	note            string
}

type inferEvent struct {
	FromAddress string   `json:"from_address"`
	Keys        []string `json:"keys,omitempty"`
}

type inferNode struct {
	Name string     `json:"name"`
	Next *inferNode `json:"next,omitempty"`
}

func TestInfer(t *testing.T) {
	t.Run("struct fields map to object fields", func(t *testing.T) {
		def := Infer(inferReceipt{})

		obj, ok := def.(*Object)
		require.True(t, ok)

		assert.True(t, obj.Fields["transaction_hash"].Required)
		assert.Equal(t, &Primitive{Type: String}, obj.Fields["transaction_hash"].Definition)

		assert.False(t, obj.Fields["block_number"].Required)
		assert.Equal(t, &Primitive{Type: Number}, obj.Fields["block_number"].Definition)

		assert.Equal(t, &Primitive{Type: Boolean}, obj.Fields["reverted"].Definition)
		assert.Equal(t, &Primitive{Type: String}, obj.Fields["seen_at"].Definition)

		_, skipped := obj.Fields["Internal"]
		assert.False(t, skipped)
		_, unexported := obj.Fields["note"]
		assert.False(t, unexported)
	})

	t.Run("slices infer as arrays of the element definition", func(t *testing.T) {
		def := Infer(inferReceipt{})

		obj := def.(*Object)
		events, ok := obj.Fields["events"].Definition.(*Array)
		require.True(t, ok)

		elem, ok := events.Elem.(*Object)
		require.True(t, ok)
		assert.True(t, elem.Fields["from_address"].Required)
		assert.False(t, elem.Fields["keys"].Required)
	})

	t.Run("pointer fields are optional", func(t *testing.T) {
		def := Infer(inferNode{})

		obj := def.(*Object)
		assert.False(t, obj.Fields["next"].Required)
	})

	t.Run("self-referential types terminate", func(t *testing.T) {
		def := Infer(inferNode{})

		obj := def.(*Object)
		next, ok := obj.Fields["next"].Definition.(*Object)
		require.True(t, ok)
		// The cycle is cut with an open object.
		assert.Empty(t, next.Fields)
	})

	t.Run("inferred definitions match their source values", func(t *testing.T) {
		def := Infer(inferReceipt{})

		value := inferReceipt{
			TransactionHash: "0x2b",
			Events:          []inferEvent{{FromAddress: "0x1a"}},
		}

		assert.True(t, Match(value, def).OK)
	})

	t.Run("nil infers as any", func(t *testing.T) {
		assert.Equal(t, &Primitive{Type: Any}, Infer(nil))
	})

	t.Run("maps infer as open objects", func(t *testing.T) {
		def := Infer(map[string]int{})

		obj, ok := def.(*Object)
		require.True(t, ok)
		assert.Empty(t, obj.Fields)
	})
}
