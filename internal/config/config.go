package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/ookrx/wx-reporter/internal/domain"
	"gopkg.in/yaml.v3"
)

// Config holds all service settings. Values come from environment variables,
// falling back to an optional YAML file named by CONFIG_FILE, then defaults.
type Config struct {
	StationCallsign string
	RecipientCall   string

	SerialPort        string
	SerialBaud        int
	SerialReadTimeout time.Duration

	TemperatureRange domain.Bounds
	HumidityRange    domain.Bounds
	PressureRange    domain.Bounds

	// APRS-IS delivery.
	APRSEnabled  bool
	APRSServer   string
	APRSPasscode string
	APRSTimeout  time.Duration

	// Optional Kafka delivery.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string

	// Optional external submit program.
	SubmitCommand string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Rules returns the telegram validation rules for this station.
func (c *Config) Rules() domain.Rules {
	return domain.Rules{
		Recipient:   c.RecipientCall,
		Temperature: c.TemperatureRange,
		Humidity:    c.HumidityRange,
		Pressure:    c.PressureRange,
	}
}

// Load reads configuration, applying defaults where unset.
func Load() (*Config, error) {
	src, err := newSource(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return nil, err
	}
	defaults := domain.DefaultRules("")

	cfg := &Config{
		StationCallsign: strings.ToUpper(src.get("STATION_CALLSIGN", "")),
		SerialPort:      src.get("SERIAL_PORT", "/dev/ttyUSB0"),
		APRSServer:      src.get("APRS_SERVER", "japan.aprs2.net:14579"),
		APRSPasscode:    src.get("APRS_PASSCODE", ""),
		KafkaBrokers:    sharedcfg.ParseBrokers(src.get("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:      src.get("KAFKA_TOPIC", "wx-observations"),
		SubmitCommand:   src.get("SUBMIT_COMMAND", ""),
		HTTPAddr:        src.get("HTTP_ADDR", ":8080"),
		LogLevel:        src.get("LOG_LEVEL", "info"),
		LogFormat:       src.get("LOG_FORMAT", "json"),
	}
	cfg.RecipientCall = strings.ToUpper(src.get("RECIPIENT_CALL", cfg.StationCallsign))

	if cfg.SerialBaud, err = src.positiveInt("SERIAL_BAUD", 115200); err != nil {
		return nil, err
	}
	if cfg.SerialReadTimeout, err = src.positiveDuration("SERIAL_READ_TIMEOUT", 100*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.APRSTimeout, err = src.positiveDuration("APRS_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = src.shutdownTimeout(); err != nil {
		return nil, err
	}
	if cfg.TemperatureRange, err = src.bounds("TEMPERATURE_RANGE", defaults.Temperature); err != nil {
		return nil, err
	}
	if cfg.HumidityRange, err = src.bounds("HUMIDITY_RANGE", defaults.Humidity); err != nil {
		return nil, err
	}
	if cfg.PressureRange, err = src.bounds("PRESSURE_RANGE", defaults.Pressure); err != nil {
		return nil, err
	}
	if cfg.APRSEnabled, err = src.boolean("APRS_ENABLED", true); err != nil {
		return nil, err
	}
	if cfg.KafkaEnabled, err = src.boolean("KAFKA_ENABLED", false); err != nil {
		return nil, err
	}

	if cfg.StationCallsign == "" {
		return nil, errors.New("STATION_CALLSIGN is required")
	}
	if cfg.RecipientCall == "" {
		return nil, errors.New("RECIPIENT_CALL must not be empty")
	}
	if cfg.SerialPort == "" {
		return nil, errors.New("SERIAL_PORT is required")
	}
	if cfg.APRSEnabled && cfg.APRSPasscode == "" {
		return nil, errors.New("APRS_ENABLED is true but APRS_PASSCODE is not set")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_ENABLED is true")
	}

	return cfg, nil
}

// source resolves a key from the environment first, then the config file.
type source struct {
	file map[string]string
}

func newSource(path string) (*source, error) {
	s := &source{file: map[string]string{}}
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read CONFIG_FILE: %w", err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse CONFIG_FILE %s: %w", path, err)
	}
	for k, v := range raw {
		switch val := v.(type) {
		case nil:
		case map[string]any:
			// {min: -90, max: 60} is the nested form of "min:max".
			lo, okMin := val["min"]
			hi, okMax := val["max"]
			if !okMin || !okMax || len(val) != 2 {
				return nil, fmt.Errorf("parse CONFIG_FILE %s: %s: want min and max", path, k)
			}
			s.file[strings.ToUpper(k)] = fmt.Sprintf("%v:%v", lo, hi)
		case []any:
			parts := make([]string, len(val))
			for i := range val {
				parts[i] = fmt.Sprint(val[i])
			}
			s.file[strings.ToUpper(k)] = strings.Join(parts, ",")
		default:
			s.file[strings.ToUpper(k)] = fmt.Sprint(val)
		}
	}
	return s, nil
}

func (s *source) get(key, fallback string) string {
	if v := sharedcfg.EnvOrDefault(key, ""); v != "" {
		return v
	}
	if v, ok := s.file[key]; ok && v != "" {
		return v
	}
	return fallback
}

func (s *source) positiveInt(key string, fallback int) (int, error) {
	v := s.get(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return n, nil
}

func (s *source) positiveDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := s.get(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return d, nil
}

// shutdownTimeout defers to the shared SHUTDOWN_TIMEOUT parser unless only
// the config file sets it.
func (s *source) shutdownTimeout() (time.Duration, error) {
	if os.Getenv("SHUTDOWN_TIMEOUT") == "" && s.file["SHUTDOWN_TIMEOUT"] != "" {
		return s.positiveDuration("SHUTDOWN_TIMEOUT", 0)
	}
	return sharedcfg.ParseShutdownTimeout()
}

func (s *source) boolean(key string, fallback bool) (bool, error) {
	v := s.get(key, "")
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %q", key, v)
	}
	return b, nil
}

// bounds parses "min:max", e.g. "-90:60".
func (s *source) bounds(key string, fallback domain.Bounds) (domain.Bounds, error) {
	v := s.get(key, "")
	if v == "" {
		return fallback, nil
	}
	lo, hi, ok := strings.Cut(v, ":")
	if !ok {
		return domain.Bounds{}, fmt.Errorf("invalid %s: %q (want min:max)", key, v)
	}
	minV, errMin := strconv.ParseFloat(strings.TrimSpace(lo), 64)
	maxV, errMax := strconv.ParseFloat(strings.TrimSpace(hi), 64)
	if errMin != nil || errMax != nil || math.IsNaN(minV) || math.IsNaN(maxV) || minV > maxV {
		return domain.Bounds{}, fmt.Errorf("invalid %s: %q (want min:max)", key, v)
	}
	return domain.Bounds{Min: minV, Max: maxV}, nil
}
