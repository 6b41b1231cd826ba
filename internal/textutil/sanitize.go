package textutil

import (
	"path/filepath"
	"strings"
)

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName replaces filesystem-unsafe characters in a filename.
// Slashes, backslashes, colons, and asterisks become dashes; other unsafe
// characters are removed. The result is trimmed of leading/trailing whitespace.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.TrimSpace(fileNameReplacer.Replace(name))
}

// StemName returns the base name of path without its extension, sanitized
// for use as a prefix of derived output files. Returns "input" when nothing
// usable remains.
func StemName(path string) string {
	base := filepath.Base(path)
	stem := SanitizeFileName(strings.TrimSuffix(base, filepath.Ext(base)))
	if stem == "" || stem == "." || stem == "-" {
		return "input"
	}
	return stem
}
