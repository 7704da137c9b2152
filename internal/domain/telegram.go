package domain

import (
	"strings"
	"time"
)

const (
	fieldDelimiter = ","
	fieldCount     = 9
)

// RawTelegram is one line exactly as it came off the serial link.
type RawTelegram struct {
	Line       string
	Source     string // serial device name
	ReceivedAt time.Time
}

// Telegram holds the nine positional fields of a telegram. Numeric fields
// stay strings until normalization so lat/lon/alt can be echoed verbatim.
type Telegram struct {
	To          string
	From        string
	Latitude    string
	Longitude   string
	Altitude    string
	Temperature string // tenths of °C
	Humidity    string // tenths of %
	Pressure    string // tenths of hPa
	Checksum    string // two lowercase hex digits

	line string
}

// ParseTelegram splits line into its nine fields. It checks structure only.
func ParseTelegram(line string) (Telegram, error) {
	if n := strings.Count(line, fieldDelimiter); n != fieldCount-1 {
		return Telegram{}, reject(ReasonFormat, "want %d delimiters, got %d", fieldCount-1, n)
	}

	f := strings.Split(line, fieldDelimiter)
	return Telegram{
		To:          f[0],
		From:        f[1],
		Latitude:    f[2],
		Longitude:   f[3],
		Altitude:    f[4],
		Temperature: f[5],
		Humidity:    f[6],
		Pressure:    f[7],
		Checksum:    f[8],
		line:        line,
	}, nil
}

// SignedPrefix returns the part of the line covered by the checksum: every
// byte up to and including the last delimiter.
func (t Telegram) SignedPrefix() string {
	return t.line[:strings.LastIndex(t.line, fieldDelimiter)+1]
}

// EncodeTelegram joins the first eight fields and appends their checksum.
// The result parses as long as no field contains a comma.
func EncodeTelegram(to, from, lat, lon, alt, temperature, humidity, pressure string) string {
	prefix := strings.Join([]string{to, from, lat, lon, alt, temperature, humidity, pressure}, fieldDelimiter) + fieldDelimiter
	return prefix + ComputeCRC8([]byte(prefix))
}
