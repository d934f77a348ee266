// Package pipeline composes DngMetadata and a ColorContext into the final
// camera-to-ProPhoto-RGB matrix a raw decoder needs. It is
// pure: given the same inputs, Compute always returns the same matrix.
package pipeline

import (
	"github.com/brightlab/dngraw/colormath"
	"github.com/brightlab/dngraw/dng"
	"github.com/brightlab/dngraw/whitebalance"
)

// Compute solves the shooting white balance and derives the camera -> D50
// ProPhoto RGB matrix:
//
//  1. solve the white balance xy
//  2. M_x2c = analogBalance . cameraCalibration(xy) . colorMatrix(xy)
//  3. M_c2xyz = M_x2c^-1
//  4. M_adapt = bradford(xy -> D50)
//  5. return matrixXYZ2ProPhotoRGB . M_adapt . M_c2xyz
func Compute(ctx *colormath.ColorContext, meta *dng.Metadata, maxIterations int) (colormath.Matrix, error) {
	x, y, err := whitebalance.Solve(ctx, meta, maxIterations)
	if err != nil {
		return colormath.Matrix{}, err
	}

	mX2C := whitebalance.XYZToCamera(ctx, meta, [2]float64{x, y})
	mC2XYZ, err := mX2C.Inverse()
	if err != nil {
		return colormath.Matrix{}, err
	}

	srcXYZ := colormath.XY2XYZ(x, y)
	dstXYZ := colormath.XY2XYZ(colormath.D50.X, colormath.D50.Y)
	adapt, err := colormath.Bradford(srcXYZ, dstXYZ)
	if err != nil {
		return colormath.Matrix{}, err
	}

	return colormath.XYZToProPhotoRGB.Mul(adapt).Mul(mC2XYZ), nil
}
