package rule

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCondition(t *testing.T) {
	tests := []struct {
		token string
		want  Condition
	}{
		{token: "x>1710", want: Condition{Attribute: PositionX, Comparator: GreaterThan, Threshold: 1710}},
		{token: "x>=1329", want: Condition{Attribute: PositionX, Comparator: GreaterOrEqual, Threshold: 1329}},
		{token: "y<20", want: Condition{Attribute: PositionY, Comparator: LessThan, Threshold: 20}},
		{token: "w<=17.5", want: Condition{Attribute: Width, Comparator: LessOrEqual, Threshold: 17.5}},
		{token: "h==7*2.5", want: Condition{Attribute: Height, Comparator: Equal, Threshold: 17.5}},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := ParseCondition(tt.token)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseCondition_Errors(t *testing.T) {
	tests := []struct {
		token string
		err   error
	}{
		{token: "z>5", err: ErrUnknownAttribute},
		{token: "X>5", err: ErrUnknownAttribute},
		{token: "x=5", err: ErrUnknownComparator},
		{token: "x!=5", err: ErrUnknownComparator},
		{token: "x", err: ErrUnknownComparator},
		{token: "width>5", err: ErrUnknownComparator},
		{token: "x>", err: ErrMalformedExpression},
		{token: "x>5*", err: ErrMalformedExpression},
		{token: "w>1*2*3", err: ErrMalformedExpression},
		{token: "x>>5", err: ErrMalformedExpression},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			_, err := ParseCondition(tt.token)
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestCondition_Holds(t *testing.T) {
	c := Condition{Attribute: Width, Comparator: GreaterThan, Threshold: 17.5}
	require.True(t, c.Holds(18))
	require.False(t, c.Holds(17))

	eq := Condition{Attribute: Width, Comparator: Equal, Threshold: 15}
	require.True(t, eq.Holds(15))
	require.False(t, eq.Holds(16))

	le := Condition{Attribute: PositionX, Comparator: LessOrEqual, Threshold: 1710}
	require.True(t, le.Holds(1710))
	require.False(t, le.Holds(1711))
}

func TestCondition_String(t *testing.T) {
	c, err := ParseCondition("w>7*2.5")
	require.NoError(t, err)
	require.Equal(t, "w>17.5", c.String())

	c, err = ParseCondition("x<=1710")
	require.NoError(t, err)
	require.Equal(t, "x<=1710", c.String())
}
