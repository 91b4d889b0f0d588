package fixed

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAndString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"1", "1"},
		{"-1", "-1"},
		{"0.0001", "0.0001"},
		{"+12.500", "12.5"},
		{".25", "0.25"},
		{"-0", "0"},
		{"1.1234567890123456789999", "1.123456789012345678"},
		{"10000", "10000"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.String())
		})
	}
}

func TestParseInvalid(t *testing.T) {
	for _, in := range []string{"", "-", "abc", "1.2.3", "1e5", "12a"} {
		_, err := Parse(in)
		assert.ErrorIs(t, err, ErrSyntax, "input %q", in)
	}

	_, err := Parse("1000000000000000000000000000000000000000000000000000000000000")
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestFromInt(t *testing.T) {
	assert.Equal(t, "42", FromInt(42).String())
	assert.Equal(t, "-7", FromInt(-7).String())
	assert.Equal(t, "-9223372036854775808", FromInt(math.MinInt64).String())
	assert.True(t, FromInt(0).IsZero())
}

func TestFromFloat64(t *testing.T) {
	d, err := FromFloat64(0.01)
	require.NoError(t, err)
	assert.Equal(t, "0.01", d.String())

	d, err = FromFloat64(-2.5)
	require.NoError(t, err)
	assert.Equal(t, "-2.5", d.String())

	_, err = FromFloat64(math.NaN())
	assert.ErrorIs(t, err, ErrNotFinite)
	_, err = FromFloat64(math.Inf(1))
	assert.ErrorIs(t, err, ErrNotFinite)
	_, err = FromFloat64(1e100)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestFloat64RoundTrip(t *testing.T) {
	for _, f := range []float64{0, 1, -1, 0.5, 1234.5678, 1e-9, -3.75e12} {
		d, err := FromFloat64(f)
		require.NoError(t, err)
		assert.InDelta(t, f, d.Float64(), math.Abs(f)*1e-15+1e-18)
	}
}

func TestArithmetic(t *testing.T) {
	a := MustParse("1.5")
	b := MustParse("-0.25")

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "1.25", sum.String())

	diff, err := b.Sub(a)
	require.NoError(t, err)
	assert.Equal(t, "-1.75", diff.String())

	prod, err := a.Mul(b)
	require.NoError(t, err)
	assert.Equal(t, "-0.375", prod.String())

	quo, err := a.Div(b)
	require.NoError(t, err)
	assert.Equal(t, "-6", quo.String())

	zero, err := a.Add(a.Neg())
	require.NoError(t, err)
	assert.True(t, zero.IsZero())
	assert.Equal(t, 0, zero.Sign())
}

func TestDivTruncates(t *testing.T) {
	q, err := One.Div(FromInt(3))
	require.NoError(t, err)
	assert.Equal(t, "0.333333333333333333", q.String())

	q, err = One.Neg().Div(FromInt(3))
	require.NoError(t, err)
	assert.Equal(t, "-0.333333333333333333", q.String())

	_, err = One.Div(Zero)
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestMulOverflow(t *testing.T) {
	big := MustParse("1" + "000000000000000000000000000000000000000")
	_, err := big.Mul(big)
	assert.ErrorIs(t, err, ErrOverflow)

	huge := MustParse("100000000000000000000000000000000000000000000000000000000")
	_, err = huge.Add(huge)
	require.NoError(t, err)
}

func TestCmp(t *testing.T) {
	neg := MustParse("-2")
	small := MustParse("0.5")
	large := MustParse("3")

	assert.Equal(t, -1, neg.Cmp(small))
	assert.Equal(t, 1, large.Cmp(small))
	assert.Equal(t, 0, small.Cmp(MustParse("0.50")))
	assert.Equal(t, 1, neg.Cmp(MustParse("-3")))
	assert.True(t, Zero.Equal(MustParse("-0")))
}

func TestIsInteger(t *testing.T) {
	assert.True(t, FromInt(3).IsInteger())
	assert.True(t, MustParse("-2").IsInteger())
	assert.False(t, MustParse("1.5").IsInteger())
}

func TestTextMarshalling(t *testing.T) {
	var d Decimal
	require.NoError(t, d.UnmarshalText([]byte("12.75")))
	out, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "12.75", string(out))
	assert.Error(t, d.UnmarshalText([]byte("nope")))
}
