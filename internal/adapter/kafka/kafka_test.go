package kafka

import (
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/ookrx/wx-reporter/internal/config"
	"github.com/ookrx/wx-reporter/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2026, 10, 19, 15, 10, 0, 0, time.UTC)
	obs := domain.Observation{
		Sender:      "JM1ZLK",
		Latitude:    "35.6866",
		Longitude:   "139.7911",
		Altitude:    "2.1",
		Temperature: "0.8",
		Humidity:    "40.5",
		Pressure:    "1001.1",
		Source:      "/dev/ttyUSB0",
		ReceivedAt:  now,
	}

	msg, err := serializeToMessage(obs)
	require.NoError(t, err)

	assert.Equal(t, []byte("JM1ZLK"), msg.Key)
	assert.Contains(t, string(msg.Value), `"temperature_c":"0.8"`)
	assert.Contains(t, string(msg.Value), `"pressure_hpa":"1001.1"`)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "sender", msg.Headers[0].Key)
	assert.Equal(t, []byte("JM1ZLK"), msg.Headers[0].Value)
	assert.Equal(t, "received_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)

	var decoded domain.Observation
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, obs, decoded)
}

func TestSerializeToMessage_ReceivedAtIsUTC(t *testing.T) {
	jst := time.FixedZone("JST", 9*3600)
	obs := domain.Observation{Sender: "JM1ZLK", ReceivedAt: time.Date(2026, 10, 20, 0, 10, 0, 0, jst)}

	msg, err := serializeToMessage(obs)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-19T15:10:00Z", string(msg.Headers[1].Value))
}

func TestNewWriter(t *testing.T) {
	cfg := &config.Config{
		KafkaBrokers: []string{"broker-1:9092", "broker-2:9092"},
		KafkaTopic:   "wx-observations",
	}

	w := NewWriter(cfg, slog.Default())
	t.Cleanup(func() { _ = w.Close() })

	assert.Equal(t, "wx-observations", w.writer.Topic)
	assert.Equal(t, kafkago.RequireAll, w.writer.RequiredAcks)
	assert.IsType(t, &kafkago.Hash{}, w.writer.Balancer)
}
