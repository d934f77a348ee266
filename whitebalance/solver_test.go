package whitebalance_test

import (
	"testing"

	"github.com/brightlab/dngraw/colormath"
	"github.com/brightlab/dngraw/dng"
	"github.com/brightlab/dngraw/whitebalance"
	"github.com/stretchr/testify/require"
)

// identityMeta builds a Metadata with identity color/calibration matrices
// and a neutral AsShotNeutral, matching scenario S5.
func identityMeta() *dng.Metadata {
	cm := colormath.Identity(3)
	cc := colormath.Identity(3)
	return &dng.Metadata{
		ColorPlanes:        3,
		ColorMatrix1:       &cm,
		CameraCalibration1: &cc,
		AsShotNeutral:      []float64{1, 1, 1},
	}
}

// With identity color and calibration matrices, matrixXYZ2Camera is the
// identity regardless of xy, so the iteration's first step already lands
// on its own fixed point: XYZ2XY(AsShotNeutral) = (1/3, 1/3), the
// equal-energy white. See DESIGN.md's note on scenario S5.
func TestSolveConvergesForNeutralIdentity(t *testing.T) {
	ctx := colormath.NewColorContext()
	meta := identityMeta()

	x, y, err := whitebalance.Solve(ctx, meta, 0)
	require.NoError(t, err)
	require.InDelta(t, 1.0/3.0, x, 1e-6)
	require.InDelta(t, 1.0/3.0, y, 1e-6)
}

func TestSolveWithoutAsShotNeutralReturnsD50(t *testing.T) {
	ctx := colormath.NewColorContext()
	meta := &dng.Metadata{ColorPlanes: 3}

	x, y, err := whitebalance.Solve(ctx, meta, 0)
	require.NoError(t, err)
	require.Equal(t, colormath.D50.X, x)
	require.Equal(t, colormath.D50.Y, y)
}
