package resolver

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/chakri0176/genAI-chatbot-with-sqldb/models"
)

// Credentials is implemented only by Local, MySQL and SQLServer. Each variant
// carries exactly the fields its kind needs.
type Credentials interface {
	Kind() Kind
	// Validate reports the first missing required field. It never touches the network or filesystem.
	Validate() error
	// Redacted is a human readable descriptor with secrets masked.
	Redacted() string

	fields() []string
}

// Local is the bundled read-only SQLite file. Its path is fixed by the Resolver.
type Local struct{}

func (Local) Kind() Kind       { return KindLocal }
func (Local) Validate() error  { return nil }
func (Local) Redacted() string { return "local" }
func (Local) fields() []string { return nil }

type MySQL struct {
	Host     string
	User     string
	Password string
	Database string
}

func (MySQL) Kind() Kind { return KindMySQL }

func (c MySQL) Validate() error {
	var missing []string
	if c.Host == "" {
		missing = append(missing, "host")
	}
	if c.User == "" {
		missing = append(missing, "user")
	}
	if c.Password == "" {
		missing = append(missing, "password")
	}
	if c.Database == "" {
		missing = append(missing, "database")
	}
	if len(missing) > 0 {
		return validationf("missing connection details: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Descriptor is <user>:<password>@<host>/<database>.
func (c MySQL) Descriptor() string {
	return c.User + ":" + c.Password + "@" + c.Host + "/" + c.Database
}

func (c MySQL) Redacted() string {
	return c.User + ":****@" + c.Host + "/" + c.Database
}

// DriverDSN is the go-sql-driver/mysql form of Descriptor.
func (c MySQL) DriverDSN() string {
	cfg := mysql.NewConfig()
	cfg.User = c.User
	cfg.Passwd = c.Password
	cfg.Net = "tcp"
	cfg.Addr = c.Host
	cfg.DBName = c.Database
	cfg.ParseTime = true
	// Every pooled connection runs SET transaction_read_only=1 on connect.
	cfg.Params = map[string]string{"transaction_read_only": "1"}
	return cfg.FormatDSN()
}

func (c MySQL) fields() []string {
	return []string{c.Host, c.User, c.Password, c.Database}
}

type SQLServer struct {
	Server           string
	Database         string
	Auth             AuthMode
	User             string
	Password         string
	TrustCertificate bool
	// Driver is the ODBC driver name, e.g. "ODBC Driver 18 for SQL Server".
	Driver string
}

func (SQLServer) Kind() Kind { return KindSQLServer }

func (c SQLServer) Validate() error {
	var missing []string
	if c.Server == "" {
		missing = append(missing, "server")
	}
	if c.Database == "" {
		missing = append(missing, "database")
	}
	if c.Driver == "" {
		missing = append(missing, "driver")
	}
	if len(missing) > 0 {
		return validationf("missing connection details: %s", strings.Join(missing, ", "))
	}

	switch c.Auth {
	case AuthIntegrated:
	case AuthSQLLogin:
		if c.User == "" || c.Password == "" {
			return validationf("provide login and password for SQL Server authentication")
		}
	default:
		return validationf("unknown authentication mode %d", c.Auth)
	}
	return nil
}

// ODBCString is the ODBC driver connection string for these credentials.
func (c SQLServer) ODBCString() string {
	return c.odbc(c.Password)
}

func (c SQLServer) Redacted() string {
	return c.odbc("****")
}

func (c SQLServer) odbc(password string) string {
	parts := []string{
		"DRIVER={" + c.Driver + "}",
		"SERVER=" + odbcValue(c.Server),
		"DATABASE=" + odbcValue(c.Database),
		"Encrypt=yes",
		"TrustServerCertificate=" + yesNo(c.TrustCertificate),
	}
	if c.Auth == AuthSQLLogin {
		parts = append(parts, "UID="+odbcValue(c.User), "PWD="+odbcValue(password), "Trusted_Connection=no")
	} else {
		parts = append(parts, "Trusted_Connection=yes")
	}
	return strings.Join(parts, ";")
}

// DriverDSN is the sqlserver:// URL used by go-mssqldb. Credentials are
// percent-encoded as URL userinfo.
func (c SQLServer) DriverDSN() string {
	host, instance := c.Server, ""
	if idx := strings.IndexByte(host, '\\'); idx != -1 {
		host, instance = host[:idx], host[idx+1:]
	}
	host = strings.TrimPrefix(host, "tcp:")
	if host == "." || strings.EqualFold(host, "(local)") {
		host = "localhost"
	}
	// ODBC writes host,port.
	host = strings.Replace(host, ",", ":", 1)

	query := url.Values{}
	query.Set("database", c.Database)
	query.Set("encrypt", "true")
	query.Set("TrustServerCertificate", strconv.FormatBool(c.TrustCertificate))

	u := &url.URL{
		Scheme:   "sqlserver",
		Host:     host,
		RawQuery: query.Encode(),
	}
	if instance != "" {
		u.Path = "/" + instance
	}
	if c.Auth == AuthSQLLogin {
		u.User = url.UserPassword(c.User, c.Password)
	}
	return u.String()
}

func (c SQLServer) fields() []string {
	return []string{c.Server, c.Database, c.Auth.String(), c.User, c.Password, strconv.FormatBool(c.TrustCertificate), c.Driver}
}

// FromSettings builds the Credentials variant selected by s.Kind. Fields that
// do not belong to the selected kind are ignored.
func FromSettings(s models.ConnectionSettings) (Credentials, error) {
	kind, err := ParseKind(s.Kind)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindMySQL:
		return MySQL{
			Host:     strings.TrimSpace(s.Host),
			User:     strings.TrimSpace(s.User),
			Password: s.Password,
			Database: strings.TrimSpace(s.Database),
		}, nil
	case KindSQLServer:
		auth, err := ParseAuthMode(s.AuthMode)
		if err != nil {
			return nil, err
		}
		creds := SQLServer{
			Server:           strings.TrimSpace(s.Server),
			Database:         strings.TrimSpace(s.Database),
			Auth:             auth,
			TrustCertificate: s.TrustCertificate,
			Driver:           strings.TrimSpace(s.Driver),
		}
		if auth == AuthSQLLogin {
			creds.User = strings.TrimSpace(s.User)
			creds.Password = s.Password
		}
		return creds, nil
	default:
		return Local{}, nil
	}
}

// cacheKey identifies a credentials set without keeping secrets in the key.
func cacheKey(c Credentials, extra ...string) string {
	h := sha256.New()
	for _, f := range append(c.fields(), extra...) {
		h.Write([]byte(f))
		h.Write([]byte{0})
	}
	return string(c.Kind()) + ":" + hex.EncodeToString(h.Sum(nil))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// odbcValue braces values that would otherwise break the key=value;... syntax.
func odbcValue(v string) string {
	if strings.ContainsAny(v, ";{}") || strings.TrimSpace(v) != v {
		return "{" + strings.ReplaceAll(v, "}", "}}") + "}"
	}
	return v
}
