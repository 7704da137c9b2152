package domain

import "strconv"

// Measurements are the scaled weather values, each rendered with exactly
// one fractional digit.
type Measurements struct {
	Temperature string // °C
	Humidity    string // %
	Pressure    string // hPa
}

// Normalize converts the tenths-encoded temperature, humidity and pressure
// to their natural units, checks them against the rules' bounds in that
// order, and formats them. Fields must already have passed Validate.
func Normalize(t Telegram, rules Rules) (Measurements, error) {
	temperature, err := scaleTenths(t.Temperature, rules.Temperature, ReasonTemperatureInvalid, ReasonTemperatureOutOfRange)
	if err != nil {
		return Measurements{}, err
	}
	humidity, err := scaleTenths(t.Humidity, rules.Humidity, ReasonHumidityInvalid, ReasonHumidityOutOfRange)
	if err != nil {
		return Measurements{}, err
	}
	pressure, err := scaleTenths(t.Pressure, rules.Pressure, ReasonPressureInvalid, ReasonPressureOutOfRange)
	if err != nil {
		return Measurements{}, err
	}

	return Measurements{
		Temperature: formatOneDecimal(temperature),
		Humidity:    formatOneDecimal(humidity),
		Pressure:    formatOneDecimal(pressure),
	}, nil
}

func scaleTenths(raw string, bounds Bounds, invalid, outOfRange Reason) (float64, error) {
	v, ok := parseNumber(raw)
	if !ok {
		return 0, reject(invalid, "%q is not a number", raw)
	}
	v /= 10
	if !bounds.Contains(v) {
		return 0, reject(outOfRange, "%g outside %s", v, bounds)
	}
	return v, nil
}

// formatOneDecimal rounds the exact binary value half-to-even.
func formatOneDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
