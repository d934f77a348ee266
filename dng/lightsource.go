package dng

// highBitTemperature marks a CalibrationIlluminant value as an explicit
// kelvin temperature rather than an enumerated light source.
const highBitTemperature = 0x8000

// namedIlluminantKelvin is the fixed light-source-code to kelvin mapping
// defined by the DNG/EXIF LightSource enumeration.
var namedIlluminantKelvin = map[uint16]float64{
	1:  5500,
	4:  5500,
	9:  5500,
	18: 5500,
	20: 5500,
	2:  4200,
	14: 4200,
	3:  2850,
	17: 2850,
	10: 6500,
	19: 6500,
	21: 6500,
	11: 7500,
	22: 7500,
	12: 6400,
	13: 5000,
	23: 5000,
	15: 3450,
	24: 3200,
}

// lightSourceTemperature converts a raw CalibrationIlluminant{1,2} value to
// kelvin. A high bit (0x8000) set means the low 15 bits already are the
// temperature. An unrecognized enumerated code yields 0, which downstream matrix interpolation treats as an absent
// endpoint.
func lightSourceTemperature(raw uint16) float64 {
	if raw&highBitTemperature != 0 {
		return float64(raw &^ highBitTemperature)
	}
	if k, ok := namedIlluminantKelvin[raw]; ok {
		return k
	}
	return 0
}
