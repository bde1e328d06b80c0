package render

import (
	"regexp"
	"strings"
)

// clauseBoundary matches the keywords that open a new clause in the
// statements this demo generates.
var clauseBoundary = regexp.MustCompile(`\s+(FROM|WHERE|GROUP BY|HAVING|ORDER BY|LIMIT|(?:LEFT |RIGHT |INNER |CROSS )?JOIN)\s+`)

// Reindent splits a single-line SQL statement onto one clause per line.
// Presentation only; nothing beyond whitespace changes.
func Reindent(sql string) string {
	collapsed := strings.Join(strings.Fields(sql), " ")
	return clauseBoundary.ReplaceAllString(collapsed, "\n$1 ")
}
