// Package wordlist loads question/answer word lists from files.
package wordlist

import (
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// ContentHash hashes the question lines of a list. Comments, directives,
// blank lines and line order do not change the hash.
func ContentHash(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	sort.Strings(lines)
	return strconv.FormatUint(xxhash.Sum64String(strings.Join(lines, "\n")), 16)
}
