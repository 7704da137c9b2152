// Command wxcheck validates weather telegrams offline. It reads one
// telegram per line from the named files (or stdin when none are given or
// the name is "-"), prints the outcome for each, and exits non-zero if any
// line was rejected.
//
// Usage:
//
//	wxcheck -recipient 7M4MON captured.log
//	cat captured.log | wxcheck -recipient 7M4MON -json
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ookrx/wx-reporter/internal/domain"
)

// outcome is the -json representation of one checked line.
type outcome struct {
	Input       string              `json:"input"`
	Line        int                 `json:"line"`
	Text        string              `json:"text"`
	Accepted    bool                `json:"accepted"`
	Reason      string              `json:"reason,omitempty"`
	Error       string              `json:"error,omitempty"`
	Observation *domain.Observation `json:"observation,omitempty"`
}

// summary tallies outcomes across all inputs.
type summary struct {
	total    int
	accepted int
	rejected map[domain.Reason]int
}

func (s *summary) add(err error) {
	s.total++
	if err == nil {
		s.accepted++
		return
	}
	s.rejected[domain.ReasonOf(err)]++
}

func (s *summary) rejectedTotal() int { return s.total - s.accepted }

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("wxcheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	recipient := fs.String("recipient", os.Getenv("STATION_CALLSIGN"), "expected recipient callsign (default $STATION_CALLSIGN)")
	asJSON := fs.Bool("json", false, "print one JSON object per line instead of text")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *recipient == "" {
		fmt.Fprintln(stderr, "wxcheck: -recipient is required")
		fs.Usage()
		return 2
	}

	rules := domain.DefaultRules(strings.ToUpper(*recipient))
	sum := &summary{rejected: make(map[domain.Reason]int)}
	enc := json.NewEncoder(stdout)

	inputs := fs.Args()
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}
	for _, name := range inputs {
		if err := checkInput(name, stdin, rules, sum, func(o outcome) {
			if *asJSON {
				enc.Encode(o) //nolint:errcheck // stdout
				return
			}
			printOutcome(stdout, o)
		}); err != nil {
			fmt.Fprintf(stderr, "wxcheck: %v\n", err)
			return 2
		}
	}

	printSummary(stderr, sum)
	if sum.rejectedTotal() > 0 {
		return 1
	}
	return 0
}

func checkInput(name string, stdin io.Reader, rules domain.Rules, sum *summary, emit func(outcome)) error {
	r := stdin
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		text := strings.TrimRight(sc.Text(), "\r")
		if text == "" {
			continue
		}
		obs, err := domain.Process(text, rules)
		sum.add(err)

		o := outcome{Input: name, Line: n, Text: text, Accepted: err == nil}
		if err != nil {
			o.Reason = domain.ReasonOf(err).String()
			o.Error = err.Error()
		} else {
			o.Observation = &obs
		}
		emit(o)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	return nil
}

func printOutcome(w io.Writer, o outcome) {
	if o.Accepted {
		fmt.Fprintf(w, "%s:%d: ACCEPT %s t=%s h=%s p=%s\n",
			o.Input, o.Line, o.Observation.Sender,
			o.Observation.Temperature, o.Observation.Humidity, o.Observation.Pressure)
		return
	}
	fmt.Fprintf(w, "%s:%d: REJECT %s: %s\n", o.Input, o.Line, o.Reason, o.Error)
}

func printSummary(w io.Writer, s *summary) {
	fmt.Fprintf(w, "%d checked, %d accepted, %d rejected\n", s.total, s.accepted, s.rejectedTotal())
	for _, reason := range domain.Reasons() {
		if c := s.rejected[reason]; c > 0 {
			fmt.Fprintf(w, "  %-28s %d\n", reason, c)
		}
	}
}
