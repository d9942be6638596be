package platform

// Package platform contains OS/platform integration and external tooling
// glue: filesystem helpers for the destination directory and discovery of
// the optional ffmpeg transcoder.
