// Package textutil provides text processing utilities for title
// normalization and filename sanitization.
//
// Catalog titles arrive with mixed Unicode forms (the remote service is
// not consistent about composed vs. decomposed Icelandic characters), so
// every comparison key goes through NormalizeTitle before use. Filename
// helpers strip characters that are unsafe on common filesystems without
// collapsing distinct titles onto the same name.
package textutil
