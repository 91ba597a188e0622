// Package slideshow assembles album images into a crossfading video.
//
// Rendering happens in batches: each batch becomes one ffmpeg invocation whose
// filter graph scales every image, optionally applies a slow zoom, and chains
// xfade transitions. Batch segments are then joined with the concat demuxer and
// a final pass fades the video in and out. All heavy lifting is delegated to
// the external ffmpeg binary; this package only builds argument lists and
// sequences the invocations.
package slideshow
