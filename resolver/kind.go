package resolver

import (
	"strings"
)

// Kind selects one of the supported database backends.
type Kind string

const (
	KindLocal     Kind = "local"
	KindMySQL     Kind = "mysql"
	KindSQLServer Kind = "mssql"
)

// Kinds lists the supported kinds in display order.
var Kinds = []Kind{KindLocal, KindMySQL, KindSQLServer}

// ParseKind maps a UI selection to a Kind. Unknown values are a configuration error.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "local", "sqlite":
		return KindLocal, nil
	case "mysql":
		return KindMySQL, nil
	case "mssql", "sqlserver":
		return KindSQLServer, nil
	}
	return "", configurationf(nil, "unsupported database choice: %q", s)
}

func (k Kind) Label() string {
	switch k {
	case KindLocal:
		return "SQLite 3 database (student.db)"
	case KindMySQL:
		return "MySQL"
	case KindSQLServer:
		return "SQL Server"
	}
	return string(k)
}

// AuthMode selects how SQL Server authenticates. The zero value is integrated auth.
type AuthMode int

const (
	AuthIntegrated AuthMode = iota
	AuthSQLLogin
)

func ParseAuthMode(s string) (AuthMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "integrated", "windows":
		return AuthIntegrated, nil
	case "sql_login", "sql", "login":
		return AuthSQLLogin, nil
	}
	return AuthIntegrated, validationf("unknown authentication mode %q", s)
}

func (m AuthMode) String() string {
	if m == AuthSQLLogin {
		return "sql_login"
	}
	return "integrated"
}
