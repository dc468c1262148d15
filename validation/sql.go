package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// Dialect names accepted by ValidateReadOnlyQuery.
const (
	DialectSQLite    = "sqlite"
	DialectMySQL     = "mysql"
	DialectSQLServer = "sqlserver"
)

const executableComment = "/*!"

type forbidden struct {
	re   *regexp.Regexp
	desc string
}

func keyword(word string) forbidden {
	return forbidden{regexp.MustCompile(`(?i)(?:^|[^a-zA-Z_@#$])` + word + `(?:[^a-zA-Z_]|$)`), word}
}

func pattern(expr, desc string) forbidden {
	return forbidden{regexp.MustCompile(expr), desc}
}

var commonForbidden = []forbidden{
	keyword("INSERT"),
	keyword("UPDATE"),
	keyword("DELETE"),
	keyword("DROP"),
	keyword("CREATE"),
	keyword("ALTER"),
	keyword("TRUNCATE"),
	keyword("GRANT"),
	keyword("REVOKE"),
	keyword("MERGE"),
	keyword("INTO"),
	pattern(`(?i)(?:^|;)\s*SET\b`, "SET"),
}

var dialectForbidden = map[string][]forbidden{
	DialectSQLite: {
		keyword("ATTACH"),
		keyword("DETACH"),
		keyword("VACUUM"),
		keyword("REINDEX"),
		pattern(`(?i)\bload_extension\s*\(`, "load_extension()"),
		pattern(`(?i)\bwritefile\s*\(`, "writefile()"),
		pattern(`(?i)\bfts3_tokenizer\s*\(`, "fts3_tokenizer()"),
	},
	DialectMySQL: {
		keyword("CALL"),
		keyword("HANDLER"),
		keyword("LOAD"),
		keyword("RENAME"),
		pattern(`(?i)\bLOAD_FILE\s*\(`, "LOAD_FILE()"),
		pattern(`(?i)\bSLEEP\s*\(`, "SLEEP()"),
		pattern(`(?i)\bBENCHMARK\s*\(`, "BENCHMARK()"),
		pattern(`(?i)\bGET_LOCK\s*\(`, "GET_LOCK()"),
	},
	DialectSQLServer: {
		keyword("EXEC"),
		keyword("EXECUTE"),
		keyword("WAITFOR"),
		keyword("BACKUP"),
		keyword("RESTORE"),
		keyword("SHUTDOWN"),
		pattern(`(?i)\b(?:xp|sp)_\w+`, "system procedure"),
		pattern(`(?i)\bOPENROWSET\s*\(`, "OPENROWSET()"),
		pattern(`(?i)\bOPENDATASOURCE\s*\(`, "OPENDATASOURCE()"),
		pattern(`(?i)\bOPENQUERY\s*\(`, "OPENQUERY()"),
	},
}

var allowedPrefixes = map[string][]string{
	DialectSQLite:    {"SELECT", "WITH", "EXPLAIN"},
	DialectMySQL:     {"SELECT", "WITH", "EXPLAIN", "SHOW", "DESCRIBE", "DESC"},
	DialectSQLServer: {"SELECT", "WITH"},
}

// ValidateReadOnlyQuery accepts a single read-only statement for dialect and
// rejects anything that could write, execute code or touch the filesystem.
func ValidateReadOnlyQuery(dialect, query string) error {
	prefixes, ok := allowedPrefixes[dialect]
	if !ok {
		return fmt.Errorf("unknown SQL dialect: %s", dialect)
	}

	cleaned := strings.TrimSpace(RemoveStringsAndComments(dialect, query))
	if cleaned == "" {
		return fmt.Errorf("empty query")
	}

	if strings.Contains(cleaned, executableComment) {
		return fmt.Errorf("executable comments are not allowed")
	}

	first := strings.ToUpper(strings.Fields(cleaned)[0])
	allowed := false
	for _, p := range prefixes {
		if first == p || strings.HasPrefix(first, p+"(") {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("only %s queries are allowed", strings.Join(prefixes, ", "))
	}

	if idx := strings.Index(cleaned, ";"); idx != -1 && strings.TrimSpace(strings.Trim(cleaned[idx:], "; \t\r\n")) != "" {
		return fmt.Errorf("multiple statements are not allowed")
	}

	for _, f := range commonForbidden {
		if f.re.MatchString(cleaned) {
			return fmt.Errorf("query contains forbidden keyword: %s", f.desc)
		}
	}
	for _, f := range dialectForbidden[dialect] {
		if f.re.MatchString(cleaned) {
			return fmt.Errorf("query contains forbidden construct: %s", f.desc)
		}
	}
	return nil
}

// RemoveStringsAndComments replaces string literals with empty placeholders and
// comments with a space so keyword checks only see SQL tokens. Quoted
// identifiers keep their content.
func RemoveStringsAndComments(dialect, sql string) string {
	var result strings.Builder
	backslashEscapes := dialect == DialectMySQL
	n := len(sql)

	for i := 0; i < n; {
		switch {
		case i+1 < n && sql[i] == '-' && sql[i+1] == '-',
			sql[i] == '#' && dialect == DialectMySQL:
			for i < n && sql[i] != '\n' {
				i++
			}
			result.WriteByte(' ')

		case i+1 < n && sql[i] == '/' && sql[i+1] == '*':
			// MySQL runs the body of /*! ... */, so keep a marker the caller can reject.
			if dialect == DialectMySQL && i+2 < n && sql[i+2] == '!' {
				result.WriteString(executableComment)
			}
			i += 2
			for i+1 < n && !(sql[i] == '*' && sql[i+1] == '/') {
				i++
			}
			i += 2
			result.WriteByte(' ')

		case sql[i] == '\'':
			i = skipQuoted(sql, i, '\'', backslashEscapes)
			result.WriteString("''")

		case sql[i] == '"' && dialect == DialectMySQL:
			i = skipQuoted(sql, i, '"', backslashEscapes)
			result.WriteString(`""`)

		default:
			result.WriteByte(sql[i])
			i++
		}
	}
	return result.String()
}

// skipQuoted returns the index just past the literal opened at sql[start].
func skipQuoted(sql string, start int, quote byte, backslashEscapes bool) int {
	i := start + 1
	for i < len(sql) {
		switch {
		case sql[i] == quote && i+1 < len(sql) && sql[i+1] == quote:
			i += 2
		case sql[i] == quote:
			return i + 1
		case backslashEscapes && sql[i] == '\\' && i+1 < len(sql):
			i += 2
		default:
			i++
		}
	}
	return i
}
