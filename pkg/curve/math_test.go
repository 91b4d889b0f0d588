package curve

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpAndLn(t *testing.T) {
	v, err := Exp(dec("0"))
	require.NoError(t, err)
	assertDecimal(t, "1", v)

	v, err = Exp(dec("1"))
	require.NoError(t, err)
	assertApprox(t, math.E, v, 1e-15)

	v, err = Ln(dec("1"))
	require.NoError(t, err)
	assert.True(t, v.IsZero())

	v, err = Ln(dec("10"))
	require.NoError(t, err)
	assertApprox(t, math.Ln10, v, 1e-15)

	for _, bad := range []string{"0", "-1"} {
		_, err = Ln(dec(bad))
		assert.ErrorIs(t, err, &Error{Kind: KindCalculation, Reason: ReasonDomain}, "ln(%s)", bad)
	}

	_, err = Exp(dec("1000"))
	assert.ErrorIs(t, err, &Error{Kind: KindCalculation, Reason: ReasonNonFinite})
	assert.Contains(t, err.Error(), "infinite or NaN")

	_, err = Exp(dec("200"))
	assert.ErrorIs(t, err, &Error{Kind: KindCalculation, Reason: ReasonOverflow})
}

func TestPow(t *testing.T) {
	v, err := Pow(dec("2"), dec("10"))
	require.NoError(t, err)
	assertDecimal(t, "1024", v)

	v, err = Pow(dec("-2"), dec("3"))
	require.NoError(t, err)
	assertDecimal(t, "-8", v)

	v, err = Pow(dec("100"), dec("1.5"))
	require.NoError(t, err)
	assertApprox(t, 1000, v, 1e-9)

	_, err = Pow(dec("-2"), dec("0.5"))
	assert.ErrorIs(t, err, &Error{Kind: KindCalculation, Reason: ReasonDomain})

	// Rounds to 3.0 as a float64 but is not an integer.
	_, err = Pow(dec("-2"), dec("3.000000000000000001"))
	assert.ErrorIs(t, err, &Error{Kind: KindCalculation, Reason: ReasonDomain})
}

func TestSqrt(t *testing.T) {
	v, err := Sqrt(dec("16"))
	require.NoError(t, err)
	assertDecimal(t, "4", v)

	v, err = Sqrt(dec("0"))
	require.NoError(t, err)
	assert.True(t, v.IsZero())

	_, err = Sqrt(dec("-4"))
	assert.ErrorIs(t, err, &Error{Kind: KindCalculation, Reason: ReasonDomain})
}

func TestCalcKeepsFirstError(t *testing.T) {
	var c calc
	r := c.div(dec("1"), dec("0"))
	assert.True(t, r.IsZero())
	require.Error(t, c.err)
	assert.Equal(t, ReasonDivisionByZero, ReasonOf(c.err))

	// Later failures do not replace the first one.
	c.ln(dec("-1"))
	assert.Equal(t, ReasonDivisionByZero, ReasonOf(c.err))

	var ok calc
	sum := ok.add(ok.mul(dec("1.5"), dec("2")), dec("0.25"))
	require.NoError(t, ok.err)
	assertDecimal(t, "3.25", sum)
}
