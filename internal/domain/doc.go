// Package domain validates weather telegrams received from remote stations.
//
// # Telegram Format
//
// A telegram is one line of ASCII text with exactly nine comma-separated fields:
//
//	To,From,Latitude,Longitude,Altitude,Temperature,Humidity,Pressure,CRC
//	7M4MON,JM1ZLK,35.6866,139.7911,2.1,8,405,10011,fa
//
// To and From are amateur radio callsigns. Latitude and longitude are decimal
// degrees and altitude is metres; all three are forwarded exactly as received.
//
// # Tenths Encoding
//
// Temperature, humidity and pressure are sent as integers ten times their
// true value so the sender never has to format a decimal point:
//
//	8     -> 0.8 °C
//	405   -> 40.5 %
//	10011 -> 1001.1 hPa
//
// After scaling each value must fall inside its plausibility bounds
// (see [DefaultRules]) and is re-rendered with exactly one fractional digit.
//
// # Checksum
//
// The last field is a CRC-8 (polynomial 0x07, initial value 0x00, no
// reflection, no final XOR) over every byte up to and including the final
// comma, written as two lowercase hex digits. See [ComputeCRC8].
//
// # Validation Order
//
// Checks run in a fixed order and the first failure is reported:
//
//	format -> checksum -> recipient -> sender
//	       -> latitude, longitude, altitude, temperature, humidity, pressure (numeric)
//	       -> temperature, humidity, pressure (range)
//
// [Process] runs the whole chain. It keeps no state between calls and is
// safe for concurrent use.
package domain
