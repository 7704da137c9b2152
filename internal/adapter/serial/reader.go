package serial

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jonboulle/clockwork"
	"github.com/ookrx/wx-reporter/internal/config"
	"github.com/ookrx/wx-reporter/internal/domain"
	goserial "go.bug.st/serial"
)

// maxPending bounds the bytes buffered without a line break; anything
// longer is line noise, not a telegram.
const maxPending = 1024

// Reader reads telegrams from a serial port.
// It implements pipeline.Extractor.
//
// A telegram ends at '\n' (a trailing '\r' is dropped). When the sender
// omits the line break, bytes pending at a read timeout are taken as one
// telegram, so a quiet line also terminates a burst.
type Reader struct {
	port    io.ReadCloser
	device  string
	clock   clockwork.Clock
	logger  *slog.Logger
	pending []byte
	chunk   []byte
	eof     bool
}

// NewReader opens the configured serial port (8N1) with the configured read timeout.
func NewReader(cfg *config.Config, clock clockwork.Clock, logger *slog.Logger) (*Reader, error) {
	mode := &goserial.Mode{
		BaudRate: cfg.SerialBaud,
		DataBits: 8,
		Parity:   goserial.NoParity,
		StopBits: goserial.OneStopBit,
	}
	port, err := goserial.Open(cfg.SerialPort, mode)
	if err != nil {
		return nil, fmt.Errorf("serial open %s: %w", cfg.SerialPort, err)
	}
	if err := port.SetReadTimeout(cfg.SerialReadTimeout); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("serial set read timeout %s: %w", cfg.SerialPort, err)
	}

	logger.Info("serial port opened", "port", cfg.SerialPort, "baud", cfg.SerialBaud)
	return newReader(port, cfg.SerialPort, clock, logger), nil
}

func newReader(port io.ReadCloser, device string, clock clockwork.Clock, logger *slog.Logger) *Reader {
	return &Reader{
		port:   port,
		device: device,
		clock:  clock,
		logger: logger,
		chunk:  make([]byte, 256),
	}
}

// Extract blocks until a complete telegram is available, the context is
// cancelled, or the port fails. It returns io.EOF after the port closes
// and all buffered data has been delivered.
func (r *Reader) Extract(ctx context.Context) (domain.RawTelegram, error) {
	for {
		if line, ok := r.nextLine(); ok {
			return r.telegram(line), nil
		}
		if r.eof {
			if line, ok := r.flush(); ok {
				return r.telegram(line), nil
			}
			return domain.RawTelegram{}, io.EOF
		}
		if err := ctx.Err(); err != nil {
			return domain.RawTelegram{}, err
		}

		n, err := r.port.Read(r.chunk)
		if n > 0 {
			r.pending = append(r.pending, r.chunk[:n]...)
			r.dropOverflow()
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				r.eof = true
				continue
			}
			return domain.RawTelegram{}, fmt.Errorf("serial read %s: %w", r.device, err)
		}

		// Read timed out with nothing new: the burst is over.
		if line, ok := r.flush(); ok {
			return r.telegram(line), nil
		}
	}
}

// Close closes the underlying port.
func (r *Reader) Close() error {
	return r.port.Close()
}

// nextLine pops the next non-empty newline-terminated line.
func (r *Reader) nextLine() (string, bool) {
	for {
		i := bytes.IndexByte(r.pending, '\n')
		if i < 0 {
			return "", false
		}
		line := bytes.TrimRight(r.pending[:i], "\r")
		out := string(line)
		r.pending = append(r.pending[:0], r.pending[i+1:]...)
		if out != "" {
			return out, true
		}
	}
}

// flush takes whatever is pending as one telegram.
func (r *Reader) flush() (string, bool) {
	line := string(bytes.TrimRight(r.pending, "\r\n"))
	r.pending = r.pending[:0]
	return line, line != ""
}

func (r *Reader) dropOverflow() {
	if len(r.pending) <= maxPending || bytes.IndexByte(r.pending, '\n') >= 0 {
		return
	}
	r.logger.Warn("discarding oversized serial input", "bytes", len(r.pending), "port", r.device)
	r.pending = r.pending[:0]
}

func (r *Reader) telegram(line string) domain.RawTelegram {
	return domain.RawTelegram{
		Line:       line,
		Source:     r.device,
		ReceivedAt: r.clock.Now().UTC(),
	}
}
