package aprs

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/ookrx/wx-reporter/internal/domain"
)

const metresToFeet = 3.28084

// FormatWeatherReport renders obs as an APRS complete weather report with
// timestamp and position, e.g.
//
//	JM1ZLK>APRS,TCPIP*:@261510z3541.20N/13947.47E_.../...g...t033h41b10011/A=000007
//
// Wind fields are unknown ("..."). Temperature is whole °F, humidity is two
// digits with 100% sent as "00", pressure is tenths of hPa, and altitude goes
// in the comment as feet.
func FormatWeatherReport(obs domain.Observation, at time.Time) (string, error) {
	if err := CheckCallsign(obs.Sender); err != nil {
		return "", err
	}
	lat, err := parseCoordinate(obs.Latitude, 90)
	if err != nil {
		return "", fmt.Errorf("latitude: %w", err)
	}
	lon, err := parseCoordinate(obs.Longitude, 180)
	if err != nil {
		return "", fmt.Errorf("longitude: %w", err)
	}
	alt, err := parseFinite(obs.Altitude)
	if err != nil {
		return "", fmt.Errorf("altitude: %w", err)
	}
	tempC, err := parseFinite(obs.Temperature)
	if err != nil {
		return "", fmt.Errorf("temperature: %w", err)
	}
	humidity, err := parseFinite(obs.Humidity)
	if err != nil {
		return "", fmt.Errorf("humidity: %w", err)
	}
	pressure, err := parseFinite(obs.Pressure)
	if err != nil {
		return "", fmt.Errorf("pressure: %w", err)
	}

	at = at.UTC()
	return fmt.Sprintf("%s>APRS,TCPIP*:@%02d%02d%02dz%s/%s_.../...g...t%sh%sb%05d/A=%s",
		obs.Sender,
		at.Day(), at.Hour(), at.Minute(),
		formatLatitude(lat),
		formatLongitude(lon),
		formatTemperature(tempC),
		formatHumidity(humidity),
		int(math.Round(pressure*10)),
		formatAltitude(alt),
	), nil
}

func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return v, nil
}

func parseCoordinate(s string, limit float64) (float64, error) {
	v, err := parseFinite(s)
	if err != nil {
		return 0, err
	}
	if math.Abs(v) > limit {
		return 0, fmt.Errorf("%q outside ±%g", s, limit)
	}
	return v, nil
}

// splitDegrees returns whole degrees and hundredths of minutes, rounding on
// the hundredths so 59.996' carries into the next degree.
func splitDegrees(v float64) (deg, hundredths int) {
	total := int(math.Round(math.Abs(v) * 6000))
	return total / 6000, total % 6000
}

func formatLatitude(v float64) string {
	hemi := 'N'
	if v < 0 {
		hemi = 'S'
	}
	deg, h := splitDegrees(v)
	return fmt.Sprintf("%02d%02d.%02d%c", deg, h/100, h%100, hemi)
}

func formatLongitude(v float64) string {
	hemi := 'E'
	if v < 0 {
		hemi = 'W'
	}
	deg, h := splitDegrees(v)
	return fmt.Sprintf("%03d%02d.%02d%c", deg, h/100, h%100, hemi)
}

// formatTemperature converts to whole °F in the three characters APRS
// allows, clamping to -99..999.
func formatTemperature(c float64) string {
	f := int(math.Round(c*9/5 + 32))
	switch {
	case f < -99:
		f = -99
	case f > 999:
		f = 999
	}
	if f < 0 {
		return fmt.Sprintf("-%02d", -f)
	}
	return fmt.Sprintf("%03d", f)
}

func formatHumidity(pct float64) string {
	h := int(math.Round(pct))
	switch {
	case h >= 100:
		return "00"
	case h < 1:
		h = 1
	}
	return fmt.Sprintf("%02d", h)
}

func formatAltitude(metres float64) string {
	ft := int(math.Round(metres * metresToFeet))
	if ft < 0 {
		return fmt.Sprintf("-%05d", -ft)
	}
	return fmt.Sprintf("%06d", ft)
}
