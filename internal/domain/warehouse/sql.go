package warehouse

import "strings"

// wrapPrefixes are the recognized markers models wrap generated SQL in,
// stripped in order until none match.
var wrapPrefixes = []string{"```sql", "```", "SQL:", "Query:"}

// SanitizeSQL normalizes a model-generated SQL statement: strips known
// wrapping markers, a trailing code fence, a single trailing statement
// terminator, and surrounding whitespace.
func SanitizeSQL(s string) string {
	s = strings.TrimSpace(s)

	for stripped := true; stripped; {
		stripped = false
		for _, prefix := range wrapPrefixes {
			if strings.HasPrefix(s, prefix) {
				s = strings.TrimSpace(strings.TrimPrefix(s, prefix))
				stripped = true
			}
		}
	}

	if strings.HasSuffix(s, "```") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}

	s = strings.TrimSuffix(s, ";")
	return strings.TrimSpace(s)
}

// IsReadOnly reports whether a sanitized statement is a plain query.
// The check is syntactic (first keyword is SELECT or WITH) and is not a
// security boundary; it exists so the executor never runs model-generated
// DDL or DML.
func IsReadOnly(sql string) bool {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return false
	}
	switch strings.ToUpper(fields[0]) {
	case "SELECT", "WITH":
		return true
	default:
		return false
	}
}
