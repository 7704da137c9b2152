package domain

// Process runs one line through parse, validate and normalize. On failure
// the error is a *RejectError for the first check that failed.
func Process(line string, rules Rules) (Observation, error) {
	t, err := ParseTelegram(line)
	if err != nil {
		return Observation{}, err
	}
	if err := Validate(t, rules); err != nil {
		return Observation{}, err
	}
	m, err := Normalize(t, rules)
	if err != nil {
		return Observation{}, err
	}

	return Observation{
		Sender:      t.From,
		Latitude:    t.Latitude,
		Longitude:   t.Longitude,
		Altitude:    t.Altitude,
		Temperature: m.Temperature,
		Humidity:    m.Humidity,
		Pressure:    m.Pressure,
	}, nil
}
