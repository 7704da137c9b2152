package domain

import "time"

// Observation is a fully validated weather report ready for delivery.
type Observation struct {
	Sender    string `json:"sender"`
	Latitude  string `json:"latitude"`  // as received
	Longitude string `json:"longitude"` // as received
	Altitude  string `json:"altitude"`  // as received, metres

	Temperature string `json:"temperature_c"`
	Humidity    string `json:"humidity_pct"`
	Pressure    string `json:"pressure_hpa"`

	// Set by the service loop, not by Process.
	Source     string    `json:"source,omitempty"`
	ReceivedAt time.Time `json:"received_at,omitzero"`
}
