// Package transcribe provides pluggable speech-to-text backends that produce
// word- and segment-level timestamps for alignment.
//
// Two backends are available: a local faster-whisper helper invoked as a
// Python subprocess, and the OpenAI transcription API. Both emit the same
// transcript schema so downstream alignment does not care which produced it.
package transcribe
