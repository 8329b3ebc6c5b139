package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractExpression(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"calculate 5 plus 3", "5+3", true},
		{"what is 12 * 8", "12*8", true},
		{"what is 25 plus 7?", "25+7", true},
		{"10 divided by 4", "10/4", true},
		{"3 multiplied by 4", "3*4", true},
		{"3 x 4", "3*4", true},
		{"14 × 6", "14*6", true},
		{"20 ÷ 5", "20/5", true},
		{"(2 + 3) times 4", "(2+3)*4", true},
		{"calculate something", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ExtractExpression(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		expr string
		want float64
	}{
		{"5+3", 8},
		{"2+3*4", 14},
		{"(2+3)*4", 20},
		{"7/2", 3.5},
		{"2**3", 8},
		{"2**3**2", 512},
		{"-2**2", -4},
		{"2**-1", 0.5},
		{"10-4-3", 3},
		{"1.5*2", 3},
		{"--3", 3},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := Evaluate(tt.expr)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestEvaluate_Errors(t *testing.T) {
	_, err := Evaluate("5/0")
	assert.ErrorIs(t, err, errDivisionByZero)

	for _, expr := range []string{"", "2+", "(2+3", "2)", "1.2.3", "abc"} {
		_, err := Evaluate(expr)
		assert.Error(t, err, expr)
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "7", FormatNumber(7.0))
	assert.Equal(t, "3.5", FormatNumber(3.5))
	assert.Equal(t, "-4", FormatNumber(-4))
	assert.Equal(t, "0.1", FormatNumber(0.1))
}
