package colormath

// InterpolateMatrix implements the dual-illuminant matrix selection rule:
// given two optional matrices m1, m2 keyed at illuminant temperatures t1,
// t2 (0 means absent, per dng.lightSourceTemperature's "other => 0"),
// return the matrix appropriate for query temperature t.
//
//   - both absent  -> identity of the requested shape
//   - only m1      -> m1
//   - t <= min(t1,t2) -> the smaller-temperature endpoint (m1's side)
//   - t >= max(t1,t2) -> the other endpoint
//   - otherwise    -> linear interpolation in reciprocal temperature
func InterpolateMatrix(m1, m2 *Matrix, t1, t2, t float64, rows, cols int) Matrix {
	if m1 == nil && m2 == nil {
		return Identity3Shaped(rows, cols)
	}
	if m2 == nil {
		return *m1
	}
	if m1 == nil {
		return *m2
	}

	lo, hi := t1, t2
	loM, hiM := m1, m2
	if t1 > t2 {
		lo, hi = t2, t1
		loM, hiM = m2, m1
	}

	if t <= lo {
		return *loM
	}
	if t >= hi {
		return *hiM
	}

	f := (1/t - 1/hi) / (1/lo - 1/hi)
	return loM.Scale(f).Add(hiM.Scale(1 - f))
}

// Identity3Shaped returns the rows x cols matrix that behaves as an
// identity for this pipeline's defaulting rules: a square identity when
// rows == cols, or the top rows x cols slice of a larger identity
// otherwise.
func Identity3Shaped(rows, cols int) Matrix {
	out := Matrix{Rows: rows, Cols: cols, Data: make([]float64, rows*cols)}
	n := rows
	if cols < n {
		n = cols
	}
	for i := 0; i < n; i++ {
		out.Set(i, i, 1)
	}
	return out
}
