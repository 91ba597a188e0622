// Package ffprobe wraps the external ffprobe binary for media inspection.
//
// It shells out with JSON output enabled and exposes the handful of fields the
// planner and render pipeline need: container duration, video dimensions, and
// audio stream counts.
package ffprobe
