package record

import (
	"math"
	"strconv"
	"strings"
)

// Metric is an accuracy value. NaN marks a value that was missing or could not
// be parsed; it is encoded as JSON null.
type Metric float64

func NaN() Metric {
	return Metric(math.NaN())
}

// ParseMetric never fails: text that is not a finite number yields NaN.
func ParseMetric(value string) Metric {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsInf(f, 0) {
		return NaN()
	}

	return Metric(f)
}

func (m Metric) IsNaN() bool {
	return math.IsNaN(float64(m))
}

func (m Metric) Float64() float64 {
	return float64(m)
}

func (m Metric) String() string {
	if m.IsNaN() {
		return "NaN"
	}

	return strconv.FormatFloat(float64(m), 'f', -1, 64)
}

func (m Metric) MarshalJSON() ([]byte, error) {
	if m.IsNaN() || math.IsInf(float64(m), 0) {
		return []byte("null"), nil
	}

	return strconv.AppendFloat(nil, float64(m), 'g', -1, 64), nil
}

func (m *Metric) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*m = NaN()
		return nil
	}

	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}

	*m = Metric(f)

	return nil
}
