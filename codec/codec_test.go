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

	c, ok = ByName("go-json")
	require.True(t, ok)
	assert.Equal(t, "go-json", c.Name())

	_, ok = ByName("msgpack")
	assert.False(t, ok)
}

func TestCodecsAreByteCompatible(t *testing.T) {
	v := map[string][]uint64{"a": {1, 2, 3}, "b": nil}

	jb, err := JSON{}.Marshal(v)
	require.NoError(t, err)

	var out map[string][]uint64
	require.NoError(t, GoJSON{}.Unmarshal(jb, &out))
	assert.Equal(t, v, out)
}
