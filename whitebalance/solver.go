// Package whitebalance recovers the scene white point (as a CIE xy
// coordinate) implied by a DNG's AsShotNeutral tag, by Picard iteration
// against the dual-illuminant calibration matrices.
package whitebalance

import (
	"math"

	"github.com/brightlab/dngraw/colormath"
	"github.com/brightlab/dngraw/dng"
	"github.com/pkg/errors"
)

// DefaultMaxIterations bounds the Picard iteration against an adversarial or
// degenerate calibration matrix that would otherwise spin forever.
const DefaultMaxIterations = 32

// Convergence is the L1 stopping threshold on (x,y) between iterations.
const Convergence = 1e-7

// ErrDidNotConverge reports that the iteration exceeded its maximum
// iteration count without reaching Convergence.
var ErrDidNotConverge = errors.New("whitebalance: solver did not converge")

// XYZToCamera computes matrixXYZ2Camera(xy): the analogBalance,
// cameraCalibration, and colorMatrix dual-illuminant-interpolated at the
// temperature implied by xy, composed. colorMatrix and forwardMatrix are
// stored 3 x colorPlanes and must be transposed to colorPlanes x 3 to
// compose with the colorPlanes x colorPlanes calibration/balance matrices
// on their left.
func XYZToCamera(ctx *colormath.ColorContext, meta *dng.Metadata, xy [2]float64) colormath.Matrix {
	cp := meta.ColorPlanes

	kelvin := 5000.0
	if t, err := ctx.XYToTemperature(xy[0], xy[1]); err == nil {
		kelvin = t.Kelvin
	}

	illum1, illum2 := 0.0, 0.0
	if meta.CalibrationIlluminant1 != nil {
		illum1 = *meta.CalibrationIlluminant1
	}
	if meta.CalibrationIlluminant2 != nil {
		illum2 = *meta.CalibrationIlluminant2
	}

	calibration := colormath.InterpolateMatrix(meta.CameraCalibration1, meta.CameraCalibration2, illum1, illum2, kelvin, cp, cp)
	colorT := colormath.InterpolateMatrix(meta.ColorMatrix1, meta.ColorMatrix2, illum1, illum2, kelvin, 3, cp)
	color := colorT.Transpose()

	balance := colormath.Identity(cp)
	if len(meta.AnalogBalance) == cp {
		for i := 0; i < cp; i++ {
			balance.Set(i, i, meta.AnalogBalance[i])
		}
	}

	return balance.Mul(calibration).Mul(color)
}

// Solve runs the Picard iteration and returns the converged scene white xy.
// It returns the value the loop actually converges to, not the initial D50
// guess the iteration starts from.
func Solve(ctx *colormath.ColorContext, meta *dng.Metadata, maxIterations int) (x, y float64, err error) {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	if len(meta.AsShotNeutral) != meta.ColorPlanes {
		return colormath.D50.X, colormath.D50.Y, nil
	}

	current := [2]float64{colormath.D50.X, colormath.D50.Y}

	for i := 0; i < maxIterations; i++ {
		m := XYZToCamera(ctx, meta, current)
		inv, invErr := m.Inverse()
		if invErr != nil {
			return 0, 0, errors.Wrap(invErr, "whitebalance: matrixXYZ2Camera is singular")
		}

		xyzVals := solveLinear(inv, meta.AsShotNeutral)
		nextX, nextY := colormath.XYZ2XY([3]float64{xyzVals[0], xyzVals[1], xyzVals[2]})
		next := [2]float64{nextX, nextY}

		delta := math.Abs(next[0]-current[0]) + math.Abs(next[1]-current[1])
		current = next
		if delta <= Convergence {
			return current[0], current[1], nil
		}
	}

	return current[0], current[1], ErrDidNotConverge
}

// solveLinear applies a colorPlanes x 3 (or 3 x 3) matrix's inverse, here
// already inverted, to an AsShotNeutral-length vector, producing an XYZ
// triplet. inv is 3 x colorPlanes when colorPlanes == 3 (the common case);
// general colorPlanes handling reduces to the first 3 output rows.
func solveLinear(inv colormath.Matrix, neutral []float64) [3]float64 {
	var out [3]float64
	for i := 0; i < inv.Rows && i < 3; i++ {
		var sum float64
		for j := 0; j < inv.Cols && j < len(neutral); j++ {
			sum += inv.At(i, j) * neutral[j]
		}
		out[i] = sum
	}
	return out
}
