// Package ffmpeg wraps the ffmpeg command line tool for stream transfers
// and integrity checks.
//
// Transfers are remux-only stream copies of the selected HLS variant, with
// optional subtitle muxing. Progress is parsed from ffmpeg's machine
// readable -progress output. A failed transfer always removes its partial
// output file.
package ffmpeg
