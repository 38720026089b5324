package storage

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// unsafeChars matches everything we refuse to keep in a stored filename.
var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// windowsDeviceNames can't be used as filenames on Windows even with an
// extension, so they get an underscore prefix.
var windowsDeviceNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
	"COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true,
}

// SanitizeFilename turns a user-supplied filename into a safe storage key.
//
//   - Unicode is decomposed and folded to ASCII ("résumé" → "resume").
//   - Path separators become spaces, so directory parts can't escape.
//   - Whitespace runs become a single underscore.
//   - Anything outside [A-Za-z0-9_.-] is dropped.
//   - Leading and trailing dots/underscores are trimmed.
//
// The result may be empty; callers must treat that as invalid input.
func SanitizeFilename(name string) string {
	name = toASCII(name)
	name = strings.NewReplacer("/", " ", "\\", " ").Replace(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeChars.ReplaceAllString(name, "")
	name = strings.Trim(name, "._")

	if name != "" {
		stem := strings.ToUpper(strings.SplitN(name, ".", 2)[0])
		if windowsDeviceNames[stem] {
			name = "_" + name
		}
	}
	return name
}

// toASCII decomposes s (NFKD) and keeps only the ASCII runes, which drops
// the combining marks split off accented letters.
func toASCII(s string) string {
	var b strings.Builder
	for _, r := range norm.NFKD.String(s) {
		if r > unicode.MaxASCII {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// HasAllowedExtension reports whether the part after the last dot is in the
// allow-list, ignoring case. Names without a dot are never allowed.
func HasAllowedExtension(name string, allowed []string) bool {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return false
	}
	ext := name[i+1:]
	for _, a := range allowed {
		if strings.EqualFold(ext, strings.TrimPrefix(a, ".")) {
			return true
		}
	}
	return false
}

// TargetName derives the converted file's name: same base, .docx extension.
func TargetName(sourceName string) string {
	return strings.TrimSuffix(sourceName, filepath.Ext(sourceName)) + ".docx"
}
