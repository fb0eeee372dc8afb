package transcribe

// Package transcribe produces <stem>.transcript.txt next to a media file. The
// media is first converted to a mono 16 kHz waveform, then handed to a
// speech-to-text Engine; non-empty segment texts are joined with newlines.
// The bundled engine drives the whisper.cpp command line tool.
