package actions

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDecodeList(t *testing.T) {
	data := []byte(`[
		{"tool": "trim", "params": {"start": 1.5, "duration": 4}},
		{"tool": "speed", "params": {"factor": 2.5}},
		{"tool": "filter", "params": {"type": "sepia"}},
		{"tool": "adjust", "params": {"contrast": 1.3}},
		{"tool": "audio_cleanup", "params": {}}
	]`)

	list, err := DecodeList(data, testLogger())
	require.NoError(t, err)
	require.Len(t, list, 5)

	assert.Equal(t, Trim{Start: 1.5, Duration: 4}, list[0])
	assert.Equal(t, Speed{Factor: 2.5}, list[1])
	assert.Equal(t, Filter{Type: "sepia"}, list[2])
	assert.Equal(t, Adjust{Contrast: 1.3, Brightness: 0, Saturation: 1.0}, list[3])
	assert.Equal(t, AudioCleanup{}, list[4])
}

func TestDecodeList_Defaults(t *testing.T) {
	list, err := DecodeList([]byte(`[{"tool": "speed", "params": {}}, {"tool": "adjust"}]`), testLogger())
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, Speed{Factor: 1.0}, list[0])
	assert.Equal(t, Adjust{Contrast: 1.0, Brightness: 0, Saturation: 1.0}, list[1])
}

func TestDecodeList_NonNumericParams(t *testing.T) {
	data := []byte(`[
		{"tool": "speed", "params": {"factor": "fast"}},
		{"tool": "adjust", "params": {"contrast": null, "brightness": true}}
	]`)

	list, err := DecodeList(data, testLogger())
	require.NoError(t, err)
	require.Len(t, list, 2)

	// Params that are not JSON numbers fall back to the tool defaults.
	assert.Equal(t, Speed{Factor: 1.0}, list[0])
	assert.Equal(t, Adjust{Contrast: 1.0, Brightness: 0, Saturation: 1.0}, list[1])
}

func TestDecodeList_UnknownToolIgnored(t *testing.T) {
	withUnknown := []byte(`[
		{"tool": "filter", "params": {"type": "grayscale"}},
		{"tool": "hologram", "params": {"intensity": 11}},
		{"tool": "adjust", "params": {"contrast": 1.2}}
	]`)
	withoutUnknown := []byte(`[
		{"tool": "filter", "params": {"type": "grayscale"}},
		{"tool": "adjust", "params": {"contrast": 1.2}}
	]`)

	a, err := DecodeList(withUnknown, testLogger())
	require.NoError(t, err)
	b, err := DecodeList(withoutUnknown, testLogger())
	require.NoError(t, err)

	// An unknown tool compiles to a chain identical to the list with
	// that action removed.
	assert.Equal(t, Compile(b, true), Compile(a, true))
	assert.Equal(t, b, a)
}

func TestDecodeList_InvalidJSON(t *testing.T) {
	_, err := DecodeList([]byte(`{"tool": "trim"}`), testLogger())
	assert.Error(t, err)
}

func TestTrimWindow(t *testing.T) {
	t.Run("first trim wins", func(t *testing.T) {
		start, dur, ok := TrimWindow([]Action{
			Speed{Factor: 2},
			Trim{Start: 3, Duration: 10},
			Trim{Start: 99, Duration: 1},
		})
		require.True(t, ok)
		assert.Equal(t, 3.0, start)
		assert.Equal(t, 10.0, dur)
	})

	t.Run("no trim", func(t *testing.T) {
		_, _, ok := TrimWindow([]Action{Speed{Factor: 2}})
		assert.False(t, ok)
	})
}
