package config

import (
	"strings"
)

// characters not allowed in file names on any platform we produce output for
const reservedFileChars = "<>:\"/\\|?*"

// CleanFileName removes not allowed characters from file name. Leading dots
// are dropped so names derived from titles never become hidden files.
func CleanFileName(in string) string {
	out := strings.TrimLeft(strings.Map(func(sym rune) rune {
		if sym < 0x20 || strings.ContainsRune(reservedFileChars, sym) {
			return -1
		}
		return sym
	}, in), ". ")
	out = strings.TrimRight(out, ". ")
	if len(out) == 0 {
		out = "_bad_file_name_"
	}
	return out
}
