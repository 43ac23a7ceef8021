package locale

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScale(t *testing.T) {
	tests := []struct {
		code  string
		scale int32
	}{
		{"XAF", 0},
		{"XOF", 0},
		{"EUR", 2},
		{"USD", 2},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			scale, err := Scale(tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.scale, scale)
		})
	}

	_, err := Scale("ZZZ")
	assert.Error(t, err)
}

func TestFormatter_Money(t *testing.T) {
	xaf := MustNew("", "", "UTC")
	eur := MustNew("EUR", "fr-FR", "UTC")
	usd := MustNew("USD", "en-US", "UTC")

	tests := []struct {
		name string
		f    *Formatter
		in   string
		want string
	}{
		{"xaf small", xaf, "800", "800\u00a0FCFA"},
		{"xaf grouped", xaf, "3800", "3\u202f800\u00a0FCFA"},
		{"xaf millions", xaf, "1250000", "1\u202f250\u202f000\u00a0FCFA"},
		{"xaf zero", xaf, "0", "0\u00a0FCFA"},
		{"eur decimals", eur, "1234.5", "1\u202f234,50\u00a0€"},
		{"eur cents", eur, "38", "38,00\u00a0€"},
		{"usd", usd, "1234.5", "$1,234.50"},
		{"negative", xaf, "-4500", "-4\u202f500\u00a0FCFA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.f.Money(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestFormatter_Defaults(t *testing.T) {
	f, err := New("", "", "")
	require.NoError(t, err)

	assert.Equal(t, "XAF", f.Currency())
	assert.Equal(t, int32(0), f.Scale())
	assert.Equal(t, "Africa/Douala", f.Location().String())
}

func TestFormatter_InvalidInput(t *testing.T) {
	_, err := New("NOPE", "fr-FR", "UTC")
	assert.Error(t, err)

	_, err = New("XAF", "fr-FR", "Mars/Olympus")
	assert.Error(t, err)
}

func TestFormatter_FitsScale(t *testing.T) {
	xaf := MustNew("XAF", "fr-FR", "UTC")
	eur := MustNew("EUR", "fr-FR", "UTC")

	assert.True(t, xaf.FitsScale(decimal.NewFromInt(100)))
	assert.True(t, xaf.FitsScale(decimal.RequireFromString("100.00")))
	assert.False(t, xaf.FitsScale(decimal.RequireFromString("100.5")))
	assert.True(t, eur.FitsScale(decimal.RequireFromString("10.25")))
	assert.False(t, eur.FitsScale(decimal.RequireFromString("10.255")))
}

func TestFormatter_Dates(t *testing.T) {
	f := MustNew("XAF", "fr-FR", "Africa/Douala")
	ts := time.Date(2026, time.March, 4, 22, 30, 0, 0, time.UTC)

	// Douala is UTC+1.
	assert.Equal(t, "04/03/2026", f.Date(ts))
	assert.Equal(t, "04/03/2026 23:30", f.DateTime(ts))
	assert.Equal(t, "", f.Date(time.Time{}))
}

func TestFormatter_Upper(t *testing.T) {
	f := MustNew("XAF", "fr-FR", "UTC")
	assert.Equal(t, "PRESSING ÉTOILE", f.Upper("Pressing étoile"))
}
