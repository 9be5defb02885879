// Package download coordinates the episode download pipeline. It fetches
// program catalogs, partitions episodes against the completion ledger,
// selects streams, and drives bounded concurrent transfers through the
// ffmpeg client. Episodes are keyed by program title and first-air time,
// never by catalog id, so re-synced catalogs do not trigger re-downloads.
package download
