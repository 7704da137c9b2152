package pipeline_test

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ookrx/wx-reporter/internal/domain"
	"github.com/ookrx/wx-reporter/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixtureRow struct {
	expected string
	line     string
}

func TestTelegramTransformer_WithFixtureTelegrams(t *testing.T) {
	transformer := pipeline.NewTransformer(domain.DefaultRules(testRecipient), discardLogger())
	rows := readFixtureRows(t)
	require.NotEmpty(t, rows)

	seen := map[string]bool{}
	for _, row := range rows {
		t.Run(row.expected+"/"+row.line, func(t *testing.T) {
			obs, err := transformer.Transform(context.Background(), domain.RawTelegram{Line: row.line})
			if row.expected == "accepted" {
				require.NoError(t, err)
				assert.NotEmpty(t, obs.Sender)
				assert.Regexp(t, `^-?\d+\.\d$`, obs.Temperature)
				assert.Regexp(t, `^\d+\.\d$`, obs.Humidity)
				assert.Regexp(t, `^\d+\.\d$`, obs.Pressure)
				return
			}
			require.Error(t, err)
			assert.Equal(t, row.expected, domain.ReasonOf(err).String())
		})
		seen[row.expected] = true
	}

	for _, r := range domain.Reasons() {
		assert.True(t, seen[r.String()], "fixture has no %s telegram", r)
	}
}

func TestPipeline_Run_WithFixtureTelegrams(t *testing.T) {
	rows := readFixtureRows(t)
	lines := make([]string, len(rows))
	accepted := 0
	for i, row := range rows {
		lines[i] = row.line
		if row.expected == "accepted" {
			accepted++
		}
	}

	ldr := &mockLoader{}
	p, _ := newTestPipeline(&mockExtractor{lines: lines}, ldr)
	require.NoError(t, p.Run(context.Background()))
	assert.Len(t, ldr.loaded, accepted)
}

func readFixtureRows(t *testing.T) []fixtureRow {
	t.Helper()

	f, err := os.Open(filepath.Join("testdata", "telegrams.txt"))
	require.NoError(t, err)
	defer f.Close()

	var rows []fixtureRow
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		text := scanner.Text()
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		expected, line, ok := strings.Cut(text, "\t")
		require.True(t, ok, "malformed fixture row %q", text)
		rows = append(rows, fixtureRow{expected: expected, line: line})
	}
	require.NoError(t, scanner.Err())
	return rows
}
