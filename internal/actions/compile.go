package actions

import (
	"strconv"
	"strings"
)

// atempo accepts factors in [0.5, 2.0] only; anything outside is
// decomposed into a chain of in-range stages.
const (
	atempoMin = 0.5
	atempoMax = 2.0
)

// FilterChain is the compiled output of one action list: two ordered
// sequences of ffmpeg filter expressions, one per stream. It is built
// once per render and consumed immediately by the engine.
type FilterChain struct {
	VideoFilters []string
	AudioFilters []string
}

// VideoExpr joins the video filters into a single -vf argument.
func (c FilterChain) VideoExpr() string {
	return strings.Join(c.VideoFilters, ",")
}

// AudioExpr joins the audio filters into a single -af argument.
func (c FilterChain) AudioExpr() string {
	return strings.Join(c.AudioFilters, ",")
}

// colorFilters maps a lower-cased filter name to a fixed expression.
var colorFilters = map[string]string{
	"grayscale": "hue=s=0",
	"sepia": "colorchannelmixer=rr=0.393:rg=0.769:rb=0.189:" +
		"gr=0.349:gg=0.686:gb=0.168:br=0.272:bg=0.534:bb=0.131",
	"invert": "negate",
	"warm":   "eq=saturation=1.2:contrast=1.1",
}

// Compile converts an ordered action list into filter chains, applying
// each action's expression in encounter order. Audio expressions are
// only emitted when hasAudio is true; video-only inputs bypass the
// audio chain entirely.
func Compile(list []Action, hasAudio bool) FilterChain {
	var chain FilterChain

	for _, a := range list {
		switch act := a.(type) {
		case Trim:
			// Realized as seek/duration flags by the engine.

		case Speed:
			if act.Factor == 1.0 || act.Factor <= 0 {
				continue
			}
			chain.VideoFilters = append(chain.VideoFilters,
				"setpts="+formatFloat(1/act.Factor)+"*PTS")
			if hasAudio {
				chain.AudioFilters = append(chain.AudioFilters, atempoChain(act.Factor)...)
			}

		case Filter:
			if expr, ok := colorFilters[strings.ToLower(act.Type)]; ok {
				chain.VideoFilters = append(chain.VideoFilters, expr)
			}
			// Unrecognized names are skipped, not an error.

		case Adjust:
			chain.VideoFilters = append(chain.VideoFilters,
				"eq=contrast="+formatFloat(act.Contrast)+
					":brightness="+formatFloat(act.Brightness)+
					":saturation="+formatFloat(act.Saturation))

		case AudioCleanup:
			if hasAudio {
				chain.AudioFilters = append(chain.AudioFilters,
					"silenceremove=1:0:-50dB",
					"loudnorm",
				)
			}
		}
	}

	return chain
}

// atempoChain decomposes factor into atempo stages that each lie within
// [0.5, 2.0]. The product of all stage factors equals the original
// factor within floating-point tolerance.
func atempoChain(factor float64) []string {
	var stages []string
	current := factor
	for current > atempoMax {
		stages = append(stages, "atempo=2.0")
		current /= 2
	}
	for current < atempoMin {
		stages = append(stages, "atempo=0.5")
		current *= 2
	}
	return append(stages, "atempo="+formatFloat(current))
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
