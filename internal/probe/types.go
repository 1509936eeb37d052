package probe

// MediaDescriptor summarizes one probed media file. It is ephemeral,
// scoped to a single render call, and never persisted.
type MediaDescriptor struct {
	Path            string
	DurationSeconds float64
	HasAudio        bool
}

// VideoStream holds the parsed properties of a single video stream.
type VideoStream struct {
	Codec      string
	PixFmt     string
	Width      int
	Height     int
	TimeBase   string
	RFrameRate string
}

// AudioStream holds the parsed properties of a single audio stream.
type AudioStream struct {
	Codec      string
	Channels   int
	SampleRate int
}

// Result is the fully parsed output of a single ffprobe JSON call.
type Result struct {
	Duration     float64
	VideoStreams []VideoStream
	AudioStreams []AudioStream
}

// HasAudio reports whether at least one audio stream is present.
func (r *Result) HasAudio() bool {
	return len(r.AudioStreams) > 0
}

// CopyCompatible reports whether two probed files share codec
// parameters close enough for stream-copy concatenation. It compares
// the primary video stream's codec, pixel format, and dimensions, plus
// the primary audio stream's codec, channel count, and sample rate.
func CopyCompatible(a, b *Result) bool {
	if len(a.VideoStreams) != len(b.VideoStreams) || len(a.AudioStreams) != len(b.AudioStreams) {
		return false
	}
	if len(a.VideoStreams) > 0 {
		av, bv := a.VideoStreams[0], b.VideoStreams[0]
		if av.Codec != bv.Codec || av.PixFmt != bv.PixFmt || av.Width != bv.Width || av.Height != bv.Height {
			return false
		}
	}
	if len(a.AudioStreams) > 0 {
		aa, ba := a.AudioStreams[0], b.AudioStreams[0]
		if aa.Codec != ba.Codec || aa.Channels != ba.Channels || aa.SampleRate != ba.SampleRate {
			return false
		}
	}
	return true
}
