// Package ffmpeg executes the external ffmpeg binary.
//
// Argument slices are built by the slideshow and mux packages; this package
// only owns process lifecycle: spawning, relaying output line by line, and
// folding the stderr tail into returned errors. The Runner interface lets
// tests substitute a fake executor.
package ffmpeg
