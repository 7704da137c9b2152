package domain

import "fmt"

// Bounds is an inclusive [Min, Max] range.
type Bounds struct {
	Min float64
	Max float64
}

// Contains reports whether v lies within the bounds. NaN is never contained.
func (b Bounds) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

func (b Bounds) String() string {
	return fmt.Sprintf("[%g, %g]", b.Min, b.Max)
}

// Rules configures validation for one receiving station.
type Rules struct {
	// Recipient is the callsign a telegram must be addressed to.
	Recipient string

	Temperature Bounds // °C
	Humidity    Bounds // %
	Pressure    Bounds // hPa
}

// DefaultRules returns the physical plausibility bounds used in the field:
// -90..60 °C, 0..100 %, 850..1100 hPa.
func DefaultRules(recipient string) Rules {
	return Rules{
		Recipient:   recipient,
		Temperature: Bounds{Min: -90, Max: 60},
		Humidity:    Bounds{Min: 0, Max: 100},
		Pressure:    Bounds{Min: 850, Max: 1100},
	}
}
