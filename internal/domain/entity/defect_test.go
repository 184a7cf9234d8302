package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefectCenter(t *testing.T) {
	d := Defect{X: 10, Y: 20, Width: 8, Height: 6}
	x, y := d.Center()
	require.Equal(t, int64(14), x)
	require.Equal(t, int64(23), y)
}

func TestParseLabel(t *testing.T) {
	tests := []struct {
		label      string
		code       string
		variant    uint32
		hasVariant bool
	}{
		{label: "0101", code: "0101"},
		{label: "01012", code: "0101", variant: 2, hasVariant: true},
		{label: "0101-3", code: "0101", variant: 3, hasVariant: true},
		{label: "0101_12", code: "0101", variant: 12, hasVariant: true},
		{label: " 2611 1 ", code: "2611", variant: 1, hasVariant: true},
		{label: "0101-x", code: "0101"},
		{label: "0101-", code: "0101"},
		{label: "010", code: "010"},
		{label: "", code: ""},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			code, variant, ok := ParseLabel(tt.label)
			require.Equal(t, tt.code, code)
			require.Equal(t, tt.variant, variant)
			require.Equal(t, tt.hasVariant, ok)
		})
	}
}

func TestNewDefect_View(t *testing.T) {
	d := NewDefect("a.xml", "1702-2", 1400, 30, 8, 9)
	require.Equal(t, "1702", d.CategoryCode())
	v, ok := d.VariantIndex()
	require.True(t, ok)
	require.Equal(t, uint32(2), v)

	x, y, w, h := d.Box()
	require.Equal(t, [4]int64{1400, 30, 8, 9}, [4]int64{x, y, w, h})
}
