// Package timeline turns resolved phrase onsets into a gapless sequence of
// frame-quantized scene intervals spanning the audio.
//
// Every timestamp is snapped to the nearest frame boundary so downstream
// ffmpeg invocations are deterministic. Items keep the rule order they were
// resolved in; inconsistencies after quantization are repaired by fixed
// local rules (minimum one-frame duration, clamp to audio end), never by
// reordering.
package timeline
