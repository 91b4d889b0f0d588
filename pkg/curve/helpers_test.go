package curve

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rovshanmuradov/bonding-curves/pkg/fixed"
)

func dec(s string) fixed.Decimal {
	return fixed.MustParse(s)
}

// assertApprox compares a Decimal against a float64 expectation.
func assertApprox(t *testing.T, expected float64, actual fixed.Decimal, delta float64, msgAndArgs ...any) {
	t.Helper()
	assert.InDelta(t, expected, actual.Float64(), delta, msgAndArgs...)
}

func assertDecimal(t *testing.T, expected string, actual fixed.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Equal(t, expected, actual.String(), msgAndArgs...)
}
