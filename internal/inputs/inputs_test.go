package inputs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntsDeterministic(t *testing.T) {
	first, err := Ints(100, 42)
	require.NoError(t, err)

	second, err := Ints(100, 42)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestIntsSeedSelectsStream(t *testing.T) {
	a, err := Ints(100, 1)
	require.NoError(t, err)

	b, err := Ints(100, 2)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestIntsCenteredRange(t *testing.T) {
	values, err := Ints(100, 7)
	require.NoError(t, err)
	require.Len(t, values, 100)

	for _, v := range values {
		assert.GreaterOrEqual(t, v, -50)
		assert.Less(t, v, 50)
	}
}

func TestIntsOddSizeRange(t *testing.T) {
	values, err := Ints(7, 7)
	require.NoError(t, err)

	// shift is 7/2 = 3, so values span [-3, 4)
	for _, v := range values {
		assert.GreaterOrEqual(t, v, -3)
		assert.Less(t, v, 4)
	}
}

func TestNonNegativeIntsRange(t *testing.T) {
	values, err := NonNegativeInts(64, 99)
	require.NoError(t, err)
	require.Len(t, values, 64)

	for _, v := range values {
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 64)
	}
}

func TestNonNegativeIntsDeterministic(t *testing.T) {
	first, err := NonNegativeInts(32, 5)
	require.NoError(t, err)

	second, err := NonNegativeInts(32, 5)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestVariantsShareStream(t *testing.T) {
	centered, err := Ints(50, 11)
	require.NoError(t, err)

	nonNegative, err := NonNegativeInts(50, 11)
	require.NoError(t, err)

	// Same underlying stream, shifted by size/2.
	for i := range centered {
		assert.Equal(t, nonNegative[i]-25, centered[i])
	}
}

func TestIntsInvalidSize(t *testing.T) {
	for _, size := range []int{0, -1, -100} {
		_, err := Ints(size, 1)
		assert.ErrorIs(t, err, ErrInvalidSize)

		_, err = NonNegativeInts(size, 1)
		assert.ErrorIs(t, err, ErrInvalidSize)
	}
}
