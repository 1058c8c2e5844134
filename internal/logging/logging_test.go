// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func env(values map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := values[k]
		return v, ok
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		raw      string
		expected zerolog.Level
		ok       bool
	}{
		{raw: "", expected: zerolog.InfoLevel, ok: false},
		{raw: "DEBUG", expected: zerolog.DebugLevel, ok: true},
		{raw: " warning ", expected: zerolog.WarnLevel, ok: true},
		{raw: "off", expected: zerolog.Disabled, ok: true},
		{raw: "loud", expected: zerolog.InfoLevel, ok: false},
	}
	for _, testCase := range testCases {
		lvl, ok := ParseLevel(testCase.raw)
		require.Equal(t, testCase.expected, lvl, testCase.raw)
		require.Equal(t, testCase.ok, ok, testCase.raw)
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	log := New(&out, ProfileTest, "warn", nil)
	log.Info().Msg("hidden")
	log.Warn().Str("file", "a.http").Msg("shown")
	require.NotContains(t, out.String(), "hidden")
	require.Contains(t, out.String(), "shown")
	require.Contains(t, out.String(), "a.http")
}

func TestNewEnvOverride(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	log := New(&out, ProfileTest, "error", env(map[string]string{EnvLogLevel: "debug"}))
	log.Debug().Msg("visible")
	require.Contains(t, out.String(), "visible")
}
