package phone

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStripCountryCode(t *testing.T) {
	t.Run("indian number with plus", func(t *testing.T) {
		require.Equal(t, "9876543210", StripCountryCode("+919876543210"))
	})

	t.Run("us number with plus", func(t *testing.T) {
		require.Equal(t, "4155552671", StripCountryCode("+14155552671"))
	})

	t.Run("indian number without plus", func(t *testing.T) {
		require.Equal(t, "9876543210", StripCountryCode("919876543210"))
	})

	t.Run("us number without plus", func(t *testing.T) {
		require.Equal(t, "9876543210", StripCountryCode("19876543210"))
	})

	t.Run("national number unchanged", func(t *testing.T) {
		require.Equal(t, "9876543210", StripCountryCode("9876543210"))
	})

	t.Run("formatting characters are dropped", func(t *testing.T) {
		require.Equal(t, "9876543210", StripCountryCode("+91 98765 43210"))
		require.Equal(t, "4155552671", StripCountryCode("+1 (415) 555-2671"))
	})

	t.Run("unknown calling code falls back to last 10 digits", func(t *testing.T) {
		// +31 is not in the table; 11 digits remain after the plus.
		require.Equal(t, "0612345678", StripCountryCode("+310612345678"))
	})

	t.Run("short number with plus is returned without the plus", func(t *testing.T) {
		require.Equal(t, "123456", StripCountryCode("+123456"))
	})

	t.Run("short national number unchanged", func(t *testing.T) {
		require.Equal(t, "12345", StripCountryCode("12345"))
	})
}

func TestIsNationalNumber(t *testing.T) {
	t.Run("valid after stripping", func(t *testing.T) {
		require.True(t, IsNationalNumber("+919876543210"))
		require.True(t, IsNationalNumber("9876543210"))
		require.True(t, IsNationalNumber("+1 (415) 555-2671"))
	})

	t.Run("too short", func(t *testing.T) {
		require.False(t, IsNationalNumber("12345"))
		require.False(t, IsNationalNumber(""))
	})

	t.Run("too long", func(t *testing.T) {
		require.False(t, IsNationalNumber("1234567890123456"))
	})
}
