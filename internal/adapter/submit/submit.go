// Package submit delivers observations by running an external APRS weather
// submit program once per observation.
package submit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os/exec"
	"strings"

	"github.com/ookrx/wx-reporter/internal/adapter/aprs"
	"github.com/ookrx/wx-reporter/internal/config"
	"github.com/ookrx/wx-reporter/internal/domain"
)

// Command runs the configured submit program. It implements pipeline.Loader.
type Command struct {
	program  string
	baseArgs []string
	server   string
	port     string
	username string
	password string
	logger   *slog.Logger
}

// NewCommand builds a Command from SUBMIT_COMMAND. The command line is split
// on whitespace and run directly, never through a shell.
func NewCommand(cfg *config.Config, logger *slog.Logger) (*Command, error) {
	parts := strings.Fields(cfg.SubmitCommand)
	if len(parts) == 0 {
		return nil, errors.New("SUBMIT_COMMAND is empty")
	}
	host, port, err := net.SplitHostPort(cfg.APRSServer)
	if err != nil {
		return nil, fmt.Errorf("APRS_SERVER: %w", err)
	}
	return &Command{
		program:  parts[0],
		baseArgs: parts[1:],
		server:   host,
		port:     port,
		username: cfg.StationCallsign,
		password: cfg.APRSPasscode,
		logger:   logger,
	}, nil
}

// Load runs the submit program for obs and waits for it to exit. A sender
// that is not a valid APRS callsign is refused before anything runs.
func (c *Command) Load(ctx context.Context, obs domain.Observation) error {
	if err := aprs.CheckCallsign(obs.Sender); err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, c.program, c.args(obs)...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run %s: %w: %s", c.program, err, strings.TrimSpace(out.String()))
	}
	c.logger.Info("submit program finished", "program", c.program, "sender", obs.Sender, "output", strings.TrimSpace(out.String()))
	return nil
}

func (c *Command) args(obs domain.Observation) []string {
	args := make([]string, 0, len(c.baseArgs)+22)
	args = append(args, c.baseArgs...)
	return append(args,
		"--server", c.server,
		"--port", c.port,
		"--username", c.username,
		"--password", c.password,
		"--callsign", obs.Sender,
		"--latitude", obs.Latitude,
		"--longitude", obs.Longitude,
		"--altitude", obs.Altitude,
		"--temperature-celsius", obs.Temperature,
		"--humidity", obs.Humidity,
		"--pressure", obs.Pressure,
	)
}
