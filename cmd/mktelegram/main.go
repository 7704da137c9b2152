// Command mktelegram builds a correctly signed weather telegram, for bench
// testing a receiver without the sensor station. Measurements are given in
// tenths as the station sends them. With -port the telegram is also written
// to a serial device.
//
// Usage:
//
//	mktelegram -to 7M4MON -from JM1ZLK -lat 35.6866 -lon 139.7911 -alt 2.1 \
//	  -temp 8 -hum 405 -pres 10011
//	mktelegram ... -port /dev/ttyUSB1 -baud 115200
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/ookrx/wx-reporter/internal/domain"
	"go.bug.st/serial"
)

type options struct {
	to, from        string
	lat, lon, alt   string
	temp, hum, pres string
	port            string
	baud            int
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, stdout io.Writer) error {
	var o options
	fs := flag.NewFlagSet("mktelegram", flag.ContinueOnError)
	fs.StringVar(&o.to, "to", "", "recipient callsign")
	fs.StringVar(&o.from, "from", "", "sender callsign")
	fs.StringVar(&o.lat, "lat", "35.6866", "latitude, decimal degrees")
	fs.StringVar(&o.lon, "lon", "139.7911", "longitude, decimal degrees")
	fs.StringVar(&o.alt, "alt", "2.1", "altitude, metres")
	fs.StringVar(&o.temp, "temp", "8", "temperature, tenths of °C")
	fs.StringVar(&o.hum, "hum", "405", "relative humidity, tenths of %")
	fs.StringVar(&o.pres, "pres", "10011", "pressure, tenths of hPa")
	fs.StringVar(&o.port, "port", "", "serial device to write the telegram to")
	fs.IntVar(&o.baud, "baud", 115200, "serial baud rate")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if o.to == "" || o.from == "" {
		fs.Usage()
		return fmt.Errorf("missing required flags: -to, -from")
	}

	line, err := build(o)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, line)

	if o.port == "" {
		return nil
	}
	return send(o.port, o.baud, line)
}

// build encodes the telegram, refusing values that would change its field
// count.
func build(o options) (string, error) {
	fields := map[string]string{
		"to": o.to, "from": o.from,
		"lat": o.lat, "lon": o.lon, "alt": o.alt,
		"temp": o.temp, "hum": o.hum, "pres": o.pres,
	}
	for name, v := range fields {
		if strings.ContainsAny(v, ",\r\n") {
			return "", fmt.Errorf("-%s must not contain a comma or line break", name)
		}
	}
	return domain.EncodeTelegram(
		strings.ToUpper(o.to), strings.ToUpper(o.from),
		o.lat, o.lon, o.alt,
		o.temp, o.hum, o.pres,
	), nil
}

func send(device string, baud int, line string) error {
	port, err := serial.Open(device, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return fmt.Errorf("open %s: %w", device, err)
	}
	defer port.Close()

	if _, err := io.WriteString(port, line+"\n"); err != nil {
		return fmt.Errorf("write %s: %w", device, err)
	}
	return port.Drain()
}
