// Package actions defines the edit-action vocabulary and compiles an
// ordered action list into ffmpeg filter chains.
package actions

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

// Action is a closed set of edit operations. The variants are matched
// exhaustively by Compile; new tools require a new variant here.
type Action interface {
	isAction()
}

// Trim extracts a sub-range of the input timeline. It contributes no
// filter-chain entries; the engine realizes it as seek and duration
// flags on the external command, which keeps trimming a cheap
// stream-level seek instead of a frame-accurate filter.
type Trim struct {
	Start    float64
	Duration float64
}

// Speed changes playback speed by Factor. A factor of exactly 1.0 is a
// no-op.
type Speed struct {
	Factor float64
}

// Filter applies a named color filter. Unrecognized names compile to
// nothing rather than an error.
type Filter struct {
	Type string
}

// Adjust sets tonal parameters. Values are passed through unvalidated;
// the external engine clamps or rejects out-of-range input.
type Adjust struct {
	Contrast   float64
	Brightness float64
	Saturation float64
}

// AudioCleanup removes silence and normalizes loudness. It compiles to
// nothing for inputs without an audio stream.
type AudioCleanup struct{}

func (Trim) isAction()         {}
func (Speed) isAction()        {}
func (Filter) isAction()       {}
func (Adjust) isAction()       {}
func (AudioCleanup) isAction() {}

// wireAction is the upstream {tool, params} shape produced by the
// command-parsing collaborator.
type wireAction struct {
	Tool   string         `json:"tool"`
	Params map[string]any `json:"params"`
}

// DecodeList parses a JSON action list in the upstream {tool, params}
// shape. Actions with an unknown tool name are ignored with a log
// entry, never an error, so newer upstream vocabularies degrade
// gracefully. Ordering of the input list is preserved.
func DecodeList(data []byte, logger *slog.Logger) ([]Action, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var wire []wireAction
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("decode action list: %w", err)
	}

	out := make([]Action, 0, len(wire))
	for _, w := range wire {
		switch w.Tool {
		case "trim":
			out = append(out, Trim{
				Start:    floatParam(w.Params, "start", 0),
				Duration: floatParam(w.Params, "duration", 0),
			})
		case "speed":
			out = append(out, Speed{Factor: floatParam(w.Params, "factor", 1.0)})
		case "filter":
			out = append(out, Filter{Type: stringParam(w.Params, "type")})
		case "adjust":
			out = append(out, Adjust{
				Contrast:   floatParam(w.Params, "contrast", 1.0),
				Brightness: floatParam(w.Params, "brightness", 0),
				Saturation: floatParam(w.Params, "saturation", 1.0),
			})
		case "audio_cleanup":
			out = append(out, AudioCleanup{})
		default:
			// Intentional: unknown tools are dropped, not fatal.
			logger.Warn("ignoring unknown tool",
				slog.String("tool", w.Tool),
			)
		}
	}

	return out, nil
}

// TrimWindow returns the seek window of the first Trim action, if any.
// The engine applies it as -ss/-t flags when no explicit window is
// given by the caller.
func TrimWindow(list []Action) (start, duration float64, ok bool) {
	for _, a := range list {
		if t, isTrim := a.(Trim); isTrim {
			return t.Start, t.Duration, true
		}
	}
	return 0, 0, false
}

// floatParam reads a numeric param. Unmarshaling into map[string]any
// renders every JSON number as float64, so any other dynamic type
// means the value was not a number.
func floatParam(params map[string]any, key string, def float64) float64 {
	if f, ok := params[key].(float64); ok {
		return f
	}
	return def
}

func stringParam(params map[string]any, key string) string {
	if v, ok := params[key].(string); ok {
		return v
	}
	return ""
}
