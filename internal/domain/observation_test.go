package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservation_JSONOmitsUnsetReceiveFields(t *testing.T) {
	obs, err := Process(exampleTelegram, DefaultRules(testRecipient))
	require.NoError(t, err)

	data, err := json.Marshal(obs)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "received_at")
	assert.NotContains(t, string(data), "source")

	obs.Source = "/dev/ttyUSB0"
	obs.ReceivedAt = time.Date(2026, 10, 19, 15, 10, 0, 0, time.UTC)
	data, err = json.Marshal(obs)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"received_at":"2026-10-19T15:10:00Z"`)
	assert.Contains(t, string(data), `"source":"/dev/ttyUSB0"`)
}
