// Package render turns a timeline plus still images into an MP4 via FFmpeg.
//
// The video is assembled from one looped image input per timeline item and
// joined with the concat filter rather than the concat demuxer, which behaves
// inconsistently with still-image duration directives on some platforms. Per
// item effect chains (zoom, motion, fade, darken, vignette) are compiled to
// deterministic FFmpeg filter expressions.
package render
