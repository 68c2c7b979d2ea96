// Package ffmpeg builds and runs the ffmpeg invocations that turn rendered
// slides and narration clips into video.
//
// Commands are assembled as ffmpeg-go stream graphs and executed through an
// injectable Runner, which keeps argument construction testable without an
// ffmpeg binary.
package ffmpeg
