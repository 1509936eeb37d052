package engine

import "context"

// Fetch downloads a remote stream (including HLS/m3u8 playlists) to
// outputPath using stream copy. The protocol whitelist keeps the
// engine from following anything beyond plain file/http(s) transports.
func (e *Executor) Fetch(ctx context.Context, streamURL, outputPath string) error {
	args := []string{
		"-hide_banner",
		"-y",
		"-protocol_whitelist", "file,http,https,tcp,tls,crypto",
		"-allowed_extensions", "ALL",
		"-i", streamURL,
		"-c", "copy",
		"-bsf:a", "aac_adtstoasc",
		outputPath,
	}
	return e.run(ctx, KindFetch, args, outputPath)
}

// MergeAudio muxes audioPath onto videoPath without re-encoding the
// video stream. The output stops at the shorter of the two inputs.
func (e *Executor) MergeAudio(ctx context.Context, videoPath, audioPath, outputPath string) error {
	args := []string{
		"-hide_banner",
		"-y",
		"-i", videoPath,
		"-i", audioPath,
		"-c:v", "copy",
		"-c:a", "aac",
		"-shortest",
		outputPath,
	}
	return e.run(ctx, KindMerge, args, outputPath)
}
