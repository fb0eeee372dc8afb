package transcode

// Package transcode drives ffmpeg for derived assets: MP3 extraction, mono
// 16 kHz waveforms for speech recognition and single-frame thumbnails. Progress
// comes from ffmpeg's -progress stream scaled by the ffprobe duration. Partial
// outputs are removed when a run fails or is canceled.
