// Copyright 2025 StreamNative, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	for _, test := range []struct {
		str      string
		expected slog.Level
		fails    bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"Warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"junk", slog.LevelInfo, true},
	} {
		t.Run(test.str, func(t *testing.T) {
			level, err := ParseLogLevel(test.str)
			assert.Equal(t, test.expected, level)
			if test.fails {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigureLogger_JSON(t *testing.T) {
	defaultLogger := slog.Default()
	defer slog.SetDefault(defaultLogger)

	LogJSON = true
	LogLevel = slog.LevelInfo
	defer func() { LogJSON = false }()

	buf := &bytes.Buffer{}
	ConfigureLoggerWithWriter(buf)

	slog.Debug("hidden")
	slog.Info("Built placement universe", slog.Int("rounds", 3))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	entry := map[string]any{}
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "Built placement universe", entry["message"])
	assert.EqualValues(t, 3, entry["rounds"])
}
