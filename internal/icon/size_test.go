package icon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSize(t *testing.T) {
	for _, s := range Sizes {
		got, err := ParseSize(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	got, err := ParseSize("")
	require.NoError(t, err)
	assert.Equal(t, SizeMedium, got)

	_, err = ParseSize("huge")
	assert.ErrorIs(t, err, ErrInvalidSize)

	_, err = ParseSize("Small")
	assert.ErrorIs(t, err, ErrInvalidSize)
}
