package kernel_test

import (
	"bytes"
	"strings"
	"testing"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderIDFromHex(t *testing.T) {
	valid := strings.Repeat("ab", kernel.OrderIDSize)

	t.Run("should decode 64 hex characters", func(t *testing.T) {
		id, err := kernel.OrderIDFromHex(valid)

		require.NoError(t, err)
		require.NoError(t, id.Validate())
		assert.Equal(t, valid, id.String())
	})

	t.Run("should normalise upper case to lower case", func(t *testing.T) {
		id, err := kernel.OrderIDFromHex(strings.ToUpper(valid))

		require.NoError(t, err)
		assert.Equal(t, valid, id.String())
	})

	t.Run("should reject empty input", func(t *testing.T) {
		_, err := kernel.OrderIDFromHex("")

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should reject non hex input", func(t *testing.T) {
		_, err := kernel.OrderIDFromHex(strings.Repeat("zz", kernel.OrderIDSize))

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject the wrong length", func(t *testing.T) {
		_, err := kernel.OrderIDFromHex("abcd")

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestOrderIDFromBytes(t *testing.T) {
	t.Run("should copy the input slice", func(t *testing.T) {
		raw := bytes.Repeat([]byte{0x01}, kernel.OrderIDSize)

		id, err := kernel.OrderIDFromBytes(raw)
		require.NoError(t, err)
		raw[0] = 0xFF

		assert.Equal(t, byte(0x01), id.Bytes()[0])
	})

	t.Run("should hand out a copy from Bytes", func(t *testing.T) {
		id := kernel.NewRandomOrderID()
		before := id.String()

		b := id.Bytes()
		b[0] ^= 0xFF

		assert.Equal(t, before, id.String())
	})

	t.Run("should accept an all zero identifier", func(t *testing.T) {
		id, err := kernel.OrderIDFromBytes(make([]byte, kernel.OrderIDSize))

		require.NoError(t, err)
		require.NoError(t, id.Validate())
	})
}

func TestOrderID_Compare(t *testing.T) {
	low, _ := kernel.OrderIDFromHex(strings.Repeat("00", 31) + "01")
	high, _ := kernel.OrderIDFromHex("01" + strings.Repeat("00", 31))

	assert.Equal(t, -1, low.Compare(high))
	assert.Equal(t, 1, high.Compare(low))
	assert.Equal(t, 0, low.Compare(low))
	assert.True(t, low.IsEqual(low))
	assert.False(t, low.IsEqual(high))
}

func TestOrderID_Validate(t *testing.T) {
	var id kernel.OrderID

	assert.Equal(t, kernel.ErrOrderIDIsNotConstructed, id.Validate())
}
