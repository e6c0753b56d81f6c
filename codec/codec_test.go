package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByName(t *testing.T) {
	c, ok := ByName("json")
	require.True(t, ok)
	assert.Equal(t, "json", c.Name())

	_, ok = ByName("msgpack")
	assert.False(t, ok)
}

func TestJSONRoundTrip(t *testing.T) {
	type payload struct {
		Buckets int         `json:"buckets"`
		Splits  [][]float64 `json:"splits"`
	}

	in := payload{
		Buckets: 4,
		Splits:  [][]float64{{1.5, 2.25}, {}},
	}

	data, err := JSON{}.Marshal(in)
	require.NoError(t, err)

	var out payload
	require.NoError(t, JSON{}.Unmarshal(data, &out))
	assert.Equal(t, in.Buckets, out.Buckets)
	assert.Equal(t, in.Splits[0], out.Splits[0])
}

func TestMustMarshal(t *testing.T) {
	data := MustMarshal(nil, map[string]int{"a": 1})
	assert.JSONEq(t, `{"a":1}`, string(data))

	assert.Panics(t, func() {
		MustMarshal(JSON{}, make(chan int))
	})
}
