package colormath

import (
	"math"

	"github.com/pkg/errors"
)

// Temperature is a (kelvin, tint) pair in CIE 1960 uv space.
type Temperature struct {
	Kelvin float64
	Tint   float64
}

// ErrOffLocus reports an xy coordinate for which the ruvt walk found no
// sign change across the whole table: the point lies beyond the table's
// temperature range.
var ErrOffLocus = errors.New("colormath: xy coordinate outside ruvt table range")

func xyToUV(x, y float64) (u, v float64) {
	denom := 1.5 - x + 6*y
	return 2 * x / denom, 3 * y / denom
}

func uvToXY(u, v float64) (x, y float64) {
	denom := u - 4*v + 2
	return 1.5 * u / denom, v / denom
}

func sign(f float64) int {
	switch {
	case f > 0:
		return 1
	case f < 0:
		return -1
	default:
		return 0
	}
}

// XYToTemperature converts a CIE xy chromaticity to correlated color
// temperature and tint by walking the ruvt table for the first sign change
// in the signed perpendicular distance to each isotemperature line.
func (ctx *ColorContext) XYToTemperature(x, y float64) (Temperature, error) {
	u, v := xyToUV(x, y)
	table := ctx.ruvt

	signedDistance := func(row ruvtRow) float64 {
		return (v - row.V) - row.T*(u-row.U)
	}

	prevD := signedDistance(table[0])
	prevSign := sign(prevD)

	for i := 1; i < len(table); i++ {
		di := signedDistance(table[i])
		if prevSign == 0 || sign(di) != prevSign {
			prev := table[i-1]
			cur := table[i]

			diNorm := di / math.Sqrt(1+cur.T*cur.T)
			djNorm := prevD / math.Sqrt(1+prev.T*prev.T)
			f := djNorm / (djNorm - diNorm)

			kelvin := 1000000.0 / (f*(cur.R-prev.R) + prev.R)

			uLocus := prev.U + (cur.U-prev.U)*f
			vLocus := prev.V + (cur.V-prev.V)*f
			ud := u - uLocus
			vd := v - vLocus

			tu, tv := blendUnitNormal(prev, cur, f)
			tint := (ud*tu + vd*tv) * -3000.0

			return Temperature{Kelvin: kelvin, Tint: tint}, nil
		}
		prevD = di
		prevSign = sign(di)
	}

	return Temperature{}, ErrOffLocus
}

// blendUnitNormal interpolates the per-row unit normal direction
// (1, t)/sqrt(1+t^2) between prev and cur by fraction f, and renormalizes.
func blendUnitNormal(prev, cur ruvtRow, f float64) (tu, tv float64) {
	li := math.Sqrt(1 + cur.T*cur.T)
	lj := math.Sqrt(1 + prev.T*prev.T)
	tui, tvi := 1/li, cur.T/li
	tuj, tvj := 1/lj, prev.T/lj

	tu = (tui-tuj)*f + tuj
	tv = (tvi-tvj)*f + tvj
	tl := math.Sqrt(tu*tu + tv*tv)
	return tu / tl, tv / tl
}

// TemperatureToXY is the inverse of XYToTemperature: it brackets kelvin's
// reciprocal between two ruvt rows, blends the locus uv point and the
// perpendicular unit direction by the same reciprocal-temperature fraction,
// offsets by tint, and inverts the uv->xy transform.
func (ctx *ColorContext) TemperatureToXY(t Temperature) (x, y float64) {
	table := ctx.ruvt
	r := 1000000.0 / t.Kelvin

	idx := 1
	for i := 1; i < len(table); i++ {
		idx = i
		if table[i].R >= r {
			break
		}
	}

	prev := table[idx-1]
	cur := table[idx]
	span := cur.R - prev.R
	f := 0.0
	if span != 0 {
		f = (r - prev.R) / span
	}

	uLocus := prev.U + (cur.U-prev.U)*f
	vLocus := prev.V + (cur.V-prev.V)*f
	tu, tv := blendUnitNormal(prev, cur, f)

	offset := t.Tint / -3000.0
	u := uLocus + tu*offset
	v := vLocus + tv*offset

	return uvToXY(u, v)
}
