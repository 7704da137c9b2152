package aprs

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidCallsign is returned for a sender that cannot be an APRS-IS
// source address.
var ErrInvalidCallsign = errors.New("invalid aprs source callsign")

// callsignRe matches a base callsign of up to six characters with an
// optional one- or two-character SSID, e.g. "JM1ZLK" or "JM1ZLK-13".
var callsignRe = regexp.MustCompile(`^[A-Z0-9]{1,6}(-[A-Z0-9]{1,2})?$`)

// CheckCallsign returns ErrInvalidCallsign unless call is usable as the
// source of a packet sent under the station's login.
func CheckCallsign(call string) error {
	if !callsignRe.MatchString(call) {
		return fmt.Errorf("%w: %q", ErrInvalidCallsign, call)
	}
	return nil
}
