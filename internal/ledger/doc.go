// Package ledger persists the append-only record of completed downloads.
//
// The store is one self-describing JSON record per line so an operator can
// force a single re-download by deleting its line, or a full re-download by
// deleting the file. The whole store is loaded into an in-memory set at
// open, keyed by (program title, first-air timestamp). Catalog episode
// identifiers are deliberately not part of the key because the remote
// service hands out new ids for previously aired content.
package ledger
