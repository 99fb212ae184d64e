package dms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/boundary-cli/internal/apperr"
)

const want = 43 + 35.0/60 + 6.94/3600

func TestParse_Hemispheres(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"north", `43° 35' 6.94" N`, want},
		{"south", `43° 35' 6.94" S`, -want},
		{"east", `43° 35' 6.94" E`, want},
		{"west", `43° 35' 6.94" W`, -want},
		{"lowercase hemisphere", `43° 35' 6.94" w`, -want},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestParse_KnownValue(t *testing.T) {
	got, err := Parse(`43° 35' 6.94" N`)
	require.NoError(t, err)
	assert.InDelta(t, 43.585261, got, 1e-6)
}

func TestParse_GlyphInvariant(t *testing.T) {
	variants := []string{
		`43° 35' 6.94" N`,
		"43° 35′ 6.94″ N",
		"43° 35’ 6.94” N",
		"43 ° 35′ 6.94″ N",
		"43º 35´ 6.94＂ N",
		"43°35'6.94\"N",
		"  43 35 6.94 N  ",
		"43° 35′ 6.94″ N.",
		"43° 35′ 6.94′′ N",
		"43° 35' 6.94'' N",
		"43° 35’ 6.94’’ N",
		"43\u00a0°\u00a035′\u202f6.94″\u00a0N",
	}

	for _, v := range variants {
		t.Run(v, func(t *testing.T) {
			got, err := Parse(v)
			require.NoError(t, err)
			assert.InDelta(t, want, got, 1e-9)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	inputs := []string{
		"",
		"43 N",
		`43° 35' N`,
		`43° 35' 6.94"`,
		`43° 35' 6.94" X`,
		`abc° 35' 6.94" N`,
		`43° 75' 6.94" N`,
		`43° 35' 60.5" N`,
		`-43° 35' 6.94" S`,
		"43356.94N",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			require.Error(t, err)
			assert.True(t, apperr.IsFormat(err))

			var fe *apperr.FormatError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, in, fe.Input)
		})
	}
}

func TestParseLatLon(t *testing.T) {
	lat, lon, err := ParseLatLon(`43° 35' 6.94" N`, `72° 12' 29.39" W`)
	require.NoError(t, err)
	assert.InDelta(t, want, lat, 1e-12)
	assert.InDelta(t, -(72 + 12.0/60 + 29.39/3600), lon, 1e-12)
}

func TestParseLatLon_WrongHemisphere(t *testing.T) {
	_, _, err := ParseLatLon(`72° 12' 29.39" W`, `43° 35' 6.94" N`)
	require.Error(t, err)
	assert.True(t, apperr.IsFormat(err))

	_, _, err = ParseLatLon(`43° 35' 6.94" N`, `43° 35' 6.94" S`)
	require.Error(t, err)
	assert.True(t, apperr.IsFormat(err))
}

func TestParseLatLon_OutOfRange(t *testing.T) {
	_, _, err := ParseLatLon(`91° 00' 0" N`, `72° 12' 29.39" W`)
	assert.True(t, apperr.IsFormat(err))

	_, _, err = ParseLatLon(`43° 35' 6.94" N`, `181° 00' 0" W`)
	assert.True(t, apperr.IsFormat(err))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, `43° 35' 6.94" N`, Normalize("43°  35′  6.94″ N;"))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, `43° 35' 6.94" N`, Format(want, true))
	assert.Equal(t, `72° 06' 23.68" W`, Format(-(72+6.0/60+23.68/3600), false))
	assert.Equal(t, `0° 00' 0.00" E`, Format(0, false))
	assert.Equal(t, `10° 00' 0.00" S`, Format(-9.9999999999, true))
}

func TestFormat_RoundTrip(t *testing.T) {
	for _, v := range []float64{43.585261, -72.208164, 0.5, -89.999} {
		got, err := Parse(Format(v, true))
		require.NoError(t, err)
		assert.InDelta(t, v, got, 0.01/3600)
	}
}
