package domain

import (
	"errors"
	"fmt"
)

// Reason identifies why a telegram was rejected.
type Reason int

// Rejection reasons in the order the checks run.
const (
	ReasonUnknown Reason = iota
	ReasonFormat
	ReasonChecksum
	ReasonNotAddressedToMe
	ReasonSenderInvalid
	ReasonLatitudeInvalid
	ReasonLongitudeInvalid
	ReasonAltitudeInvalid
	ReasonTemperatureInvalid
	ReasonHumidityInvalid
	ReasonPressureInvalid
	ReasonTemperatureOutOfRange
	ReasonHumidityOutOfRange
	ReasonPressureOutOfRange
)

var reasonNames = map[Reason]string{
	ReasonUnknown:               "unknown",
	ReasonFormat:                "format",
	ReasonChecksum:              "checksum",
	ReasonNotAddressedToMe:      "not_addressed_to_me",
	ReasonSenderInvalid:         "sender_invalid",
	ReasonLatitudeInvalid:       "latitude_invalid",
	ReasonLongitudeInvalid:      "longitude_invalid",
	ReasonAltitudeInvalid:       "altitude_invalid",
	ReasonTemperatureInvalid:    "temperature_invalid",
	ReasonHumidityInvalid:       "humidity_invalid",
	ReasonPressureInvalid:       "pressure_invalid",
	ReasonTemperatureOutOfRange: "temperature_out_of_range",
	ReasonHumidityOutOfRange:    "humidity_out_of_range",
	ReasonPressureOutOfRange:    "pressure_out_of_range",
}

// String returns the snake_case name used in logs and metric labels.
func (r Reason) String() string {
	if name, ok := reasonNames[r]; ok {
		return name
	}
	return fmt.Sprintf("reason(%d)", int(r))
}

// Reasons lists every rejection reason in check order.
func Reasons() []Reason {
	return []Reason{
		ReasonFormat,
		ReasonChecksum,
		ReasonNotAddressedToMe,
		ReasonSenderInvalid,
		ReasonLatitudeInvalid,
		ReasonLongitudeInvalid,
		ReasonAltitudeInvalid,
		ReasonTemperatureInvalid,
		ReasonHumidityInvalid,
		ReasonPressureInvalid,
		ReasonTemperatureOutOfRange,
		ReasonHumidityOutOfRange,
		ReasonPressureOutOfRange,
	}
}

// RejectError reports why a telegram was discarded.
type RejectError struct {
	Reason Reason
	Detail string
}

func (e *RejectError) Error() string {
	if e.Detail == "" {
		return "telegram rejected: " + e.Reason.String()
	}
	return fmt.Sprintf("telegram rejected: %s: %s", e.Reason, e.Detail)
}

// Is matches another *RejectError with the same reason, so the sentinels
// below work with errors.Is regardless of Detail.
func (e *RejectError) Is(target error) bool {
	t, ok := target.(*RejectError)
	return ok && t.Reason == e.Reason
}

// Sentinels for errors.Is.
var (
	ErrFormat                = &RejectError{Reason: ReasonFormat}
	ErrChecksum              = &RejectError{Reason: ReasonChecksum}
	ErrNotAddressedToMe      = &RejectError{Reason: ReasonNotAddressedToMe}
	ErrSenderInvalid         = &RejectError{Reason: ReasonSenderInvalid}
	ErrLatitudeInvalid       = &RejectError{Reason: ReasonLatitudeInvalid}
	ErrLongitudeInvalid      = &RejectError{Reason: ReasonLongitudeInvalid}
	ErrAltitudeInvalid       = &RejectError{Reason: ReasonAltitudeInvalid}
	ErrTemperatureInvalid    = &RejectError{Reason: ReasonTemperatureInvalid}
	ErrHumidityInvalid       = &RejectError{Reason: ReasonHumidityInvalid}
	ErrPressureInvalid       = &RejectError{Reason: ReasonPressureInvalid}
	ErrTemperatureOutOfRange = &RejectError{Reason: ReasonTemperatureOutOfRange}
	ErrHumidityOutOfRange    = &RejectError{Reason: ReasonHumidityOutOfRange}
	ErrPressureOutOfRange    = &RejectError{Reason: ReasonPressureOutOfRange}
)

// ReasonOf returns the rejection reason carried by err, or ReasonUnknown if
// err is nil or not a *RejectError.
func ReasonOf(err error) Reason {
	var re *RejectError
	if errors.As(err, &re) {
		return re.Reason
	}
	return ReasonUnknown
}

func reject(reason Reason, format string, args ...any) *RejectError {
	return &RejectError{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}
