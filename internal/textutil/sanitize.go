package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
// Characters that carry meaning in titles map to visually close stand-ins
// rather than being dropped so distinct titles stay distinct.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "'",
	"<", "(",
	">", ")",
	"|", "-",
	"\x00", "",
)

// SanitizeFileName replaces filesystem-unsafe characters in a filename
// component. The result is NFC-normalized and trimmed of surrounding
// whitespace.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(NormalizeTitle(name))
	if name == "" {
		return ""
	}
	return strings.TrimSpace(fileNameReplacer.Replace(name))
}

// NormalizeTitle canonicalizes a catalog title for comparison. The remote
// service mixes composed and decomposed Unicode forms across re-syncs, so
// dedup keys and filenames always go through NFC first.
func NormalizeTitle(title string) string {
	return norm.NFC.String(strings.TrimSpace(title))
}
