package colormath

import "math"

// RGBToHSV converts an RGB triplet (components typically in [0,1]) to HSV
// with H in degrees [0,360), S and V in [0,1]. The achromatic case
// (max == min) yields H = 0 by convention.
func RGBToHSV(r, g, b float64) (h, s, v float64) {
	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	delta := max - min

	if delta == 0 {
		h = 0
	} else {
		switch max {
		case r:
			h = math.Mod((g-b)/delta, 6)
		case g:
			h = (b-r)/delta + 2
		default:
			h = (r-g)/delta + 4
		}
		h *= 60
		if h < 0 {
			h += 360
		}
	}

	if max == 0 {
		s = 0
	} else {
		s = delta / max
	}
	v = max
	return h, s, v
}

// HSVToRGB is the inverse of RGBToHSV.
func HSVToRGB(h, s, v float64) (r, g, b float64) {
	h = math.Mod(math.Mod(h, 360)+360, 360)
	s = math.Max(0, math.Min(1, s))
	v = math.Max(0, math.Min(1, v))

	if s == 0 {
		return v, v, v
	}

	hh := h / 60
	i := int(math.Floor(hh))
	f := hh - float64(i)
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))

	switch i % 6 {
	case 0:
		return v, t, p
	case 1:
		return q, v, p
	case 2:
		return p, v, t
	case 3:
		return p, q, v
	case 4:
		return t, p, v
	default:
		return v, p, q
	}
}
