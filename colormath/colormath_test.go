package colormath_test

import (
	"math"
	"testing"

	"github.com/brightlab/dngraw/colormath"
	"github.com/stretchr/testify/require"
)

func TestXYXYZRoundTrip(t *testing.T) {
	x, y := 0.3457, 0.3585
	xyz := colormath.XY2XYZ(x, y)
	gotX, gotY := colormath.XYZ2XY(xyz)

	require.InDelta(t, x, gotX, 1e-9)
	require.InDelta(t, y, gotY, 1e-9)
}

func TestRGBHSVRoundTrip(t *testing.T) {
	cases := [][3]float64{
		{0.8, 0.4, 0.2},
		{0.1, 0.1, 0.1},
		{1, 0, 0},
		{0, 1, 0},
	}
	for _, c := range cases {
		h, s, v := colormath.RGBToHSV(c[0], c[1], c[2])
		r, g, b := colormath.HSVToRGB(h, s, v)
		require.InDelta(t, c[0], r, 1e-9)
		require.InDelta(t, c[1], g, 1e-9)
		require.InDelta(t, c[2], b, 1e-9)
	}
}

func TestBradfordIdentity(t *testing.T) {
	white := colormath.XY2XYZ(colormath.D50.X, colormath.D50.Y)
	m, err := colormath.Bradford(white, white)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			require.InDelta(t, want, m.At(i, j), 1e-9)
		}
	}
}

func TestTemperatureRoundTrip(t *testing.T) {
	ctx := colormath.NewColorContext()
	x, y := colormath.D65.X, colormath.D65.Y

	temp, err := ctx.XYToTemperature(x, y)
	require.NoError(t, err)
	require.Greater(t, temp.Kelvin, 5000.0)
	require.Less(t, temp.Kelvin, 8000.0)

	gotX, gotY := ctx.TemperatureToXY(temp)
	require.InDelta(t, x, gotX, 1e-3)
	require.InDelta(t, y, gotY, 1e-3)
}

func TestInterpolateMatrixEndpoints(t *testing.T) {
	a := colormath.Identity(3)
	b := colormath.Identity(3).Scale(2)

	require.Equal(t, a, colormath.InterpolateMatrix(&a, &b, 2850, 6500, 1000, 3, 3))
	require.Equal(t, b, colormath.InterpolateMatrix(&a, &b, 2850, 6500, 10000, 3, 3))
	require.Equal(t, a, colormath.InterpolateMatrix(&a, nil, 2850, 6500, 5000, 3, 3))

	identity := colormath.InterpolateMatrix(nil, nil, 0, 0, 5000, 3, 3)
	require.Equal(t, colormath.Identity(3), identity)
}

func TestMatrixInverse(t *testing.T) {
	m := colormath.NewMatrix(2, 2, []float64{2, 0, 0, 4})
	inv, err := m.Inverse()
	require.NoError(t, err)
	require.InDelta(t, 0.5, inv.At(0, 0), 1e-9)
	require.InDelta(t, 0.25, inv.At(1, 1), 1e-9)

	singular := colormath.NewMatrix(2, 2, []float64{1, 1, 1, 1})
	_, err = singular.Inverse()
	require.Error(t, err)
}

func TestMatrixMulVec3(t *testing.T) {
	m := colormath.Identity(3)
	out := m.MulVec3([3]float64{1, 2, 3})
	require.True(t, math.Abs(out[0]-1) < 1e-9 && math.Abs(out[1]-2) < 1e-9 && math.Abs(out[2]-3) < 1e-9)
}
