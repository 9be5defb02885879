// Package organize sorts downloaded episode files into a show/season library
// layout. Metadata is recovered from the download file name; season numbers
// come from roman numeral suffixes on the foreign title and episode numbers
// from the episode title. Organization is best effort: files whose names
// cannot be interpreted are reported and left in place.
package organize
