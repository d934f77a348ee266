package colormath

// bradfordCone is the Bradford cone-response matrix.
var bradfordCone = NewMatrix(3, 3, []float64{
	0.8951, 0.2664, -0.1614,
	-0.7502, 1.7135, 0.0367,
	0.0389, -0.0685, 1.0296,
})

// Bradford computes the chromatic-adaptation matrix that maps XYZ values
// under the source white point to XYZ values under the target white point.
// Applied as a left-multiplication on XYZ column vectors.
func Bradford(source, target [3]float64) (Matrix, error) {
	coneInv, err := bradfordCone.Inverse()
	if err != nil {
		return Matrix{}, err
	}

	srcCone := bradfordCone.MulVec3(source)
	dstCone := bradfordCone.MulVec3(target)

	gain := Identity(3)
	for i := 0; i < 3; i++ {
		if srcCone[i] == 0 {
			gain.Set(i, i, 1)
			continue
		}
		gain.Set(i, i, dstCone[i]/srcCone[i])
	}

	return coneInv.Mul(gain).Mul(bradfordCone), nil
}
