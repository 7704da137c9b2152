package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	goodTelegram   = "7M4MON,JM1ZLK,35.6866,139.7911,2.1,8,405,10011,fa"
	badChecksum    = "7M4MON,JM1ZLK,35.6866,139.7911,2.1,8,405,10011,00"
	wrongRecipient = "OTHERCALL,JM1ZLK,35.6866,139.7911,2.1,8,405,10011,3c"
)

func TestRun_AllAccepted(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-recipient", "7m4mon"}, strings.NewReader(goodTelegram+"\n\n"), &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Equal(t, "-:1: ACCEPT JM1ZLK t=0.8 h=40.5 p=1001.1\n", stdout.String())
	assert.Contains(t, stderr.String(), "1 checked, 1 accepted, 0 rejected")
}

func TestRun_RejectsSetExitCode(t *testing.T) {
	input := strings.Join([]string{goodTelegram, badChecksum, wrongRecipient, "garbage"}, "\n")
	var stdout, stderr bytes.Buffer
	code := run([]string{"-recipient", "7M4MON"}, strings.NewReader(input), &stdout, &stderr)

	assert.Equal(t, 1, code)
	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "REJECT checksum")
	assert.Contains(t, lines[2], "REJECT not_addressed_to_me")
	assert.Contains(t, lines[3], "REJECT format")
	assert.Contains(t, stderr.String(), "4 checked, 1 accepted, 3 rejected")
}

func TestRun_JSONFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "captured.log")
	require.NoError(t, os.WriteFile(path, []byte(badChecksum+"\r\n"+goodTelegram+"\r\n"), 0o600))

	var stdout, stderr bytes.Buffer
	code := run([]string{"-recipient", "7M4MON", "-json", path}, strings.NewReader(""), &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.NotContains(t, stdout.String(), "received_at", "offline checks have no receive time")

	dec := json.NewDecoder(&stdout)
	var first, second outcome
	require.NoError(t, dec.Decode(&first))
	require.NoError(t, dec.Decode(&second))

	assert.Equal(t, path, first.Input)
	assert.Equal(t, 1, first.Line)
	assert.False(t, first.Accepted)
	assert.Equal(t, "checksum", first.Reason)

	assert.Equal(t, 2, second.Line)
	assert.True(t, second.Accepted)
	require.NotNil(t, second.Observation)
	assert.Equal(t, "1001.1", second.Observation.Pressure)
}

func TestRun_UsageErrors(t *testing.T) {
	t.Setenv("STATION_CALLSIGN", "")
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run(nil, strings.NewReader(""), &stdout, &stderr))
	assert.Contains(t, stderr.String(), "-recipient is required")

	stderr.Reset()
	missing := filepath.Join(t.TempDir(), "missing.log")
	assert.Equal(t, 2, run([]string{"-recipient", "7M4MON", missing}, strings.NewReader(""), &stdout, &stderr))
	assert.Contains(t, stderr.String(), "missing.log")
}
