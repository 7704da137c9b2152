package aprs

import (
	"testing"
	"time"

	"github.com/ookrx/wx-reporter/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reportTime = time.Date(2026, 10, 19, 15, 10, 0, 0, time.UTC)

func exampleObservation() domain.Observation {
	return domain.Observation{
		Sender:      "JM1ZLK",
		Latitude:    "35.6866",
		Longitude:   "139.7911",
		Altitude:    "2.1",
		Temperature: "0.8",
		Humidity:    "40.5",
		Pressure:    "1001.1",
	}
}

func TestFormatWeatherReport(t *testing.T) {
	packet, err := FormatWeatherReport(exampleObservation(), reportTime)
	require.NoError(t, err)
	assert.Equal(t, "JM1ZLK>APRS,TCPIP*:@191510z3541.20N/13947.47E_.../...g...t033h41b10011/A=000007", packet)
}

func TestFormatWeatherReport_UsesUTC(t *testing.T) {
	jst := time.FixedZone("JST", 9*3600)
	packet, err := FormatWeatherReport(exampleObservation(), reportTime.In(jst))
	require.NoError(t, err)
	assert.Contains(t, packet, "@191510z")
}

func TestFormatWeatherReport_SouthernWesternHemisphere(t *testing.T) {
	obs := exampleObservation()
	obs.Latitude = "-33.8688"
	obs.Longitude = "-70.6693"

	packet, err := FormatWeatherReport(obs, reportTime)
	require.NoError(t, err)
	assert.Contains(t, packet, "3352.13S/07040.16W_")
}

func TestFormatWeatherReport_RejectsUnusableValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.Observation)
	}{
		{"latitude beyond pole", func(o *domain.Observation) { o.Latitude = "91" }},
		{"longitude beyond antimeridian", func(o *domain.Observation) { o.Longitude = "-180.5" }},
		{"nan altitude", func(o *domain.Observation) { o.Altitude = "nan" }},
		{"infinite temperature", func(o *domain.Observation) { o.Temperature = "inf" }},
		{"empty humidity", func(o *domain.Observation) { o.Humidity = "" }},
		{"garbage pressure", func(o *domain.Observation) { o.Pressure = "high" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := exampleObservation()
			tt.mutate(&obs)
			_, err := FormatWeatherReport(obs, reportTime)
			assert.Error(t, err)
		})
	}
}

func TestFormatLatitude_CarriesRoundedMinutes(t *testing.T) {
	// 35.99999° is 35° 59.9994', which rounds to 36° 00.00'.
	assert.Equal(t, "3600.00N", formatLatitude(35.99999))
}

func TestFormatTemperature(t *testing.T) {
	tests := []struct {
		celsius float64
		want    string
	}{
		{0.8, "033"},
		{-20, "-04"},
		{-17.8, "000"},
		{37.8, "100"},
		{-90, "-99"},
		{60, "140"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatTemperature(tt.celsius), "celsius %v", tt.celsius)
	}
}

func TestFormatHumidity(t *testing.T) {
	assert.Equal(t, "00", formatHumidity(100))
	assert.Equal(t, "01", formatHumidity(0))
	assert.Equal(t, "07", formatHumidity(7.2))
	assert.Equal(t, "41", formatHumidity(40.5))
}

func TestFormatAltitude(t *testing.T) {
	assert.Equal(t, "000007", formatAltitude(2.1))
	assert.Equal(t, "012467", formatAltitude(3800))
	assert.Equal(t, "-00033", formatAltitude(-10))
}

func TestFormatWeatherReport_RejectsUnsafeSender(t *testing.T) {
	tests := []struct {
		name   string
		sender string
	}{
		{"embedded carriage return", "JM1ZLK\r# injected"},
		{"embedded line feed", "JM1ZLK\nN0CALL>APRS:hi"},
		{"path separator", "N0CALL>APRS"},
		{"info separator", "JM1ZLK:"},
		{"empty", ""},
		{"too long", "JM1ZLKXX"},
		{"lowercase", "jm1zlk"},
		{"ssid too long", "JM1ZLK-123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := exampleObservation()
			obs.Sender = tt.sender
			packet, err := FormatWeatherReport(obs, reportTime)
			require.ErrorIs(t, err, ErrInvalidCallsign)
			assert.Empty(t, packet)
		})
	}
}

func TestCheckCallsign_Accepts(t *testing.T) {
	for _, call := range []string{"JM1ZLK", "7M4MON", "JA1XYZ-9", "JM1ZLK-13", "K1A"} {
		assert.NoError(t, CheckCallsign(call), call)
	}
}
