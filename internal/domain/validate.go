package domain

import (
	"errors"
	"strconv"
	"unicode/utf8"
)

// Validate runs the integrity and well-formedness checks on a parsed
// telegram and returns the first failure.
func Validate(t Telegram, rules Rules) error {
	if want := ComputeCRC8([]byte(t.SignedPrefix())); t.Checksum != want {
		return reject(ReasonChecksum, "got %q, computed %q", t.Checksum, want)
	}
	if t.To != rules.Recipient {
		return reject(ReasonNotAddressedToMe, "addressed to %q", t.To)
	}
	if !isASCII(t.From) {
		return reject(ReasonSenderInvalid, "sender %q is not ASCII", t.From)
	}

	numeric := []struct {
		value  string
		reason Reason
	}{
		{t.Latitude, ReasonLatitudeInvalid},
		{t.Longitude, ReasonLongitudeInvalid},
		{t.Altitude, ReasonAltitudeInvalid},
		{t.Temperature, ReasonTemperatureInvalid},
		{t.Humidity, ReasonHumidityInvalid},
		{t.Pressure, ReasonPressureInvalid},
	}
	for _, n := range numeric {
		if _, ok := parseNumber(n.value); !ok {
			return reject(n.reason, "%q is not a number", n.value)
		}
	}
	return nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// parseNumber accepts anything strconv.ParseFloat accepts. Magnitudes too
// large for float64 are still numbers; they come back as ±Inf and fail the
// range checks later.
func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return v, true
}
