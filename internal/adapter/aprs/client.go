package aprs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/ookrx/wx-reporter/internal/config"
	"github.com/ookrx/wx-reporter/internal/domain"
)

const (
	softwareName    = "wx-reporter"
	softwareVersion = "1.0"

	// maxPreambleLines bounds how many server comment lines we read while
	// waiting for the login response.
	maxPreambleLines = 8
)

// ErrLoginRejected is returned when the server does not verify the passcode.
var ErrLoginRejected = errors.New("aprs-is login not verified")

// Client submits weather reports to an APRS-IS server, one connection per
// observation. It implements pipeline.Loader.
type Client struct {
	addr     string
	username string
	passcode string
	timeout  time.Duration
	dialer   *net.Dialer
	clock    clockwork.Clock
	logger   *slog.Logger
}

// NewClient creates an APRS-IS client logging in as the station callsign.
func NewClient(cfg *config.Config, clock clockwork.Clock, logger *slog.Logger) *Client {
	return &Client{
		addr:     cfg.APRSServer,
		username: cfg.StationCallsign,
		passcode: cfg.APRSPasscode,
		timeout:  cfg.APRSTimeout,
		dialer:   &net.Dialer{},
		clock:    clock,
		logger:   logger,
	}
}

// Load sends obs as a weather report.
func (c *Client) Load(ctx context.Context, obs domain.Observation) error {
	packet, err := FormatWeatherReport(obs, c.clock.Now())
	if err != nil {
		return fmt.Errorf("format weather report: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conn, err := c.dialer.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return fmt.Errorf("dial aprs-is %s: %w", c.addr, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return fmt.Errorf("set deadline: %w", err)
		}
	}

	rd := bufio.NewReader(conn)
	if err := c.login(conn, rd); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(conn, "%s\r\n", packet); err != nil {
		return fmt.Errorf("send packet: %w", err)
	}

	c.logger.Info("weather report sent", "server", c.addr, "packet", packet)
	return nil
}

func (c *Client) login(conn net.Conn, rd *bufio.Reader) error {
	banner, err := rd.ReadString('\n')
	if err != nil {
		return fmt.Errorf("read server banner: %w", err)
	}
	c.logger.Debug("aprs-is connected", "banner", strings.TrimSpace(banner))

	if _, err := fmt.Fprintf(conn, "user %s pass %s vers %s %s\r\n", c.username, c.passcode, softwareName, softwareVersion); err != nil {
		return fmt.Errorf("send login: %w", err)
	}

	for i := 0; i < maxPreambleLines; i++ {
		line, err := rd.ReadString('\n')
		if err != nil {
			return fmt.Errorf("read login response: %w", err)
		}
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "# logresp") {
			continue
		}
		if !loginVerified(line) {
			return fmt.Errorf("%w: %s", ErrLoginRejected, line)
		}
		return nil
	}
	return errors.New("no login response from aprs-is server")
}

// loginVerified parses "# logresp CALL verified, server NAME".
func loginVerified(line string) bool {
	f := strings.Fields(line)
	return len(f) >= 4 && strings.TrimSuffix(f[3], ",") == "verified"
}
