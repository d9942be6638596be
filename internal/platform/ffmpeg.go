package platform

import "os/exec"

const ffmpegCommand = "ffmpeg"

// HasFFmpeg reports whether the ffmpeg executable is discoverable. The PATH
// is refreshed first so a tool installed while the process is already
// running is still found.
func HasFFmpeg() bool {
	refreshPath()
	_, err := exec.LookPath(ffmpegCommand)
	return err == nil
}
