package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  Version
	}{
		{"classic", Classic},
		{"TBC", BurningCrusade},
		{"wotlk", Wrath},
		{" Wrath ", Wrath},
		{"4", Cataclysm},
		{"Legion", Legion},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := Parse(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, input := range []string{"", "shadowlands", "99", "-1"} {
		_, err := Parse(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestOrdering(t *testing.T) {
	all := All()
	require.NotEmpty(t, all)
	assert.True(t, Unknown < all[0])
	for i := 1; i < len(all); i++ {
		assert.True(t, all[i-1] < all[i], "%s should precede %s", all[i-1], all[i])
	}
}

func TestTextRoundTrip(t *testing.T) {
	for _, v := range All() {
		text, err := v.MarshalText()
		require.NoError(t, err)

		var back Version
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, v, back)
	}
	assert.Equal(t, "Version(42)", Version(42).String())
}
