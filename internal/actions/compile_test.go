package actions

import (
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile_OrderPreserved(t *testing.T) {
	chain := Compile([]Action{
		Filter{Type: "grayscale"},
		Adjust{Contrast: 1.2, Brightness: 0, Saturation: 1},
	}, true)

	require.Len(t, chain.VideoFilters, 2)
	assert.Equal(t, "hue=s=0", chain.VideoFilters[0])
	assert.Equal(t, "eq=contrast=1.2:brightness=0:saturation=1", chain.VideoFilters[1])
}

func TestCompile_NoAudioNeverEmitsAudioFilters(t *testing.T) {
	chain := Compile([]Action{
		Speed{Factor: 4.0},
		AudioCleanup{},
		Speed{Factor: 0.25},
	}, false)

	assert.Empty(t, chain.AudioFilters)
	// Video speed filters are still emitted.
	assert.Len(t, chain.VideoFilters, 2)
}

func TestCompile_SpeedNoOp(t *testing.T) {
	chain := Compile([]Action{Speed{Factor: 1.0}}, true)
	assert.Empty(t, chain.VideoFilters)
	assert.Empty(t, chain.AudioFilters)
}

func TestCompile_SpeedVideoFilter(t *testing.T) {
	chain := Compile([]Action{Speed{Factor: 2.0}}, false)
	require.Len(t, chain.VideoFilters, 1)
	assert.Equal(t, "setpts=0.5*PTS", chain.VideoFilters[0])
}

func TestAtempoChain_ProductProperty(t *testing.T) {
	factors := []float64{0.1, 0.25, 0.3, 0.5, 0.75, 1.5, 2.0, 2.5, 3.0, 4.0, 7.9, 16.0, 100.0}

	for _, factor := range factors {
		t.Run(strconv.FormatFloat(factor, 'g', -1, 64), func(t *testing.T) {
			stages := atempoChain(factor)
			require.NotEmpty(t, stages)

			product := 1.0
			for _, stage := range stages {
				raw, found := strings.CutPrefix(stage, "atempo=")
				require.True(t, found, "stage %q missing atempo prefix", stage)
				v, err := strconv.ParseFloat(raw, 64)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, v, 0.5, "stage %q below atempo minimum", stage)
				assert.LessOrEqual(t, v, 2.0, "stage %q above atempo maximum", stage)
				product *= v
			}

			relErr := math.Abs(product-factor) / factor
			assert.Less(t, relErr, 1e-6, "product %v != factor %v", product, factor)
		})
	}
}

func TestCompile_FilterTable(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"grayscale", "hue=s=0"},
		{"GRAYSCALE", "hue=s=0"},
		{"invert", "negate"},
		{"warm", "eq=saturation=1.2:contrast=1.1"},
		{"Sepia", "colorchannelmixer=rr=0.393:rg=0.769:rb=0.189:gr=0.349:gg=0.686:gb=0.168:br=0.272:bg=0.534:bb=0.131"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain := Compile([]Action{Filter{Type: tt.name}}, true)
			require.Len(t, chain.VideoFilters, 1)
			assert.Equal(t, tt.expected, chain.VideoFilters[0])
		})
	}
}

func TestCompile_UnknownFilterTypeSkipped(t *testing.T) {
	chain := Compile([]Action{Filter{Type: "vaporwave"}}, true)
	assert.Empty(t, chain.VideoFilters)
	assert.Empty(t, chain.AudioFilters)
}

func TestCompile_TrimContributesNoFilters(t *testing.T) {
	chain := Compile([]Action{Trim{Start: 2, Duration: 5}}, true)
	assert.Empty(t, chain.VideoFilters)
	assert.Empty(t, chain.AudioFilters)
}

func TestCompile_AudioCleanup(t *testing.T) {
	chain := Compile([]Action{AudioCleanup{}}, true)
	assert.Equal(t, []string{"silenceremove=1:0:-50dB", "loudnorm"}, chain.AudioFilters)
	assert.Empty(t, chain.VideoFilters)
}

func TestCompile_MixedStreams(t *testing.T) {
	chain := Compile([]Action{
		Filter{Type: "invert"},
		Speed{Factor: 3.0},
		AudioCleanup{},
	}, true)

	assert.Equal(t, []string{"negate", "setpts=" + strconv.FormatFloat(1.0/3.0, 'g', -1, 64) + "*PTS"}, chain.VideoFilters)
	// Speed stages first, then cleanup, in encounter order.
	require.Len(t, chain.AudioFilters, 4)
	assert.Equal(t, "atempo=2.0", chain.AudioFilters[0])
	assert.Equal(t, "atempo=1.5", chain.AudioFilters[1])
	assert.Equal(t, "silenceremove=1:0:-50dB", chain.AudioFilters[2])
	assert.Equal(t, "loudnorm", chain.AudioFilters[3])
}

func TestFilterChain_Exprs(t *testing.T) {
	chain := FilterChain{
		VideoFilters: []string{"hue=s=0", "negate"},
		AudioFilters: []string{"loudnorm"},
	}
	assert.Equal(t, "hue=s=0,negate", chain.VideoExpr())
	assert.Equal(t, "loudnorm", chain.AudioExpr())
}
