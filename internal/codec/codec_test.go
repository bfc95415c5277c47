package codec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type frame struct {
	Kind  string            `cbor:"kind"`
	Clock map[string]uint64 `cbor:"clock"`
	At    time.Time         `cbor:"at"`
	Body  RawMessage        `cbor:"body,omitempty"`
}

func TestMarshal_DeterministicMapOrder(t *testing.T) {
	a := frame{Kind: "x", Clock: map[string]uint64{"b": 2, "a": 1, "c": 3}}
	b := frame{Kind: "x", Clock: map[string]uint64{"c": 3, "a": 1, "b": 2}}

	encA, err := Marshal(a)
	require.NoError(t, err)
	encB, err := Marshal(b)
	require.NoError(t, err)

	assert.Equal(t, encA, encB)
}

func TestRoundTrip_WithRawBody(t *testing.T) {
	body, err := Marshal(map[string]string{"hello": "world"})
	require.NoError(t, err)

	at := time.Date(2026, 3, 4, 5, 6, 7, 8, time.UTC)
	enc, err := Marshal(frame{Kind: "k", Clock: map[string]uint64{"a": 1}, At: at, Body: body})
	require.NoError(t, err)

	var got frame
	require.NoError(t, Unmarshal(enc, &got))
	assert.Equal(t, "k", got.Kind)
	assert.Equal(t, uint64(1), got.Clock["a"])
	assert.True(t, at.Equal(got.At))

	var decodedBody map[string]string
	require.NoError(t, Unmarshal(got.Body, &decodedBody))
	assert.Equal(t, "world", decodedBody["hello"])
}

func TestUnmarshal_AnyTargetUsesStringKeys(t *testing.T) {
	enc, err := Marshal(map[string]any{"k": map[string]any{"n": 1}})
	require.NoError(t, err)

	var got any
	require.NoError(t, Unmarshal(enc, &got))

	m, ok := got.(map[string]any)
	require.True(t, ok)
	_, ok = m["k"].(map[string]any)
	assert.True(t, ok)
}
