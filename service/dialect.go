package service

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/chakri0176/genAI-chatbot-with-sqldb/models"
	"github.com/chakri0176/genAI-chatbot-with-sqldb/validation"
)

// Dialect holds the backend-specific SQL a Database needs for schema discovery.
type Dialect interface {
	// Name is the SQL dialect name understood by validation.ValidateReadOnlyQuery.
	Name() string
	// DriverName is the database/sql driver the dialect is opened with.
	DriverName() string
	ListTablesQuery() (string, []any)
	DescribeTableQuery(table string) (string, []any)
	ScanColumn(rows *sql.Rows) (models.Column, error)
}

var (
	SQLite    Dialect = sqliteDialect{}
	MySQL     Dialect = mysqlDialect{}
	SQLServer Dialect = sqlServerDialect{}
)

type sqliteDialect struct{}

func (sqliteDialect) Name() string       { return validation.DialectSQLite }
func (sqliteDialect) DriverName() string { return "sqlite" }

func (sqliteDialect) ListTablesQuery() (string, []any) {
	return `SELECT name FROM sqlite_master WHERE type IN ('table', 'view') AND name NOT LIKE 'sqlite_%' ORDER BY name`, nil
}

func (sqliteDialect) DescribeTableQuery(table string) (string, []any) {
	// PRAGMA arguments cannot be bound, so the name is quoted instead.
	return fmt.Sprintf("PRAGMA table_info('%s')", strings.ReplaceAll(table, "'", "''")), nil
}

func (sqliteDialect) ScanColumn(rows *sql.Rows) (models.Column, error) {
	var cid, notNull, pk int
	var name, colType string
	var dflt sql.NullString
	if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
		return models.Column{}, err
	}
	return models.Column{Name: name, Type: colType, Nullable: notNull == 0}, nil
}

type mysqlDialect struct{}

func (mysqlDialect) Name() string       { return validation.DialectMySQL }
func (mysqlDialect) DriverName() string { return "mysql" }

func (mysqlDialect) ListTablesQuery() (string, []any) {
	return `SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE() ORDER BY table_name`, nil
}

func (mysqlDialect) DescribeTableQuery(table string) (string, []any) {
	return `SELECT column_name, data_type, is_nullable
		FROM information_schema.columns
		WHERE table_schema = DATABASE() AND table_name = ?
		ORDER BY ordinal_position`, []any{table}
}

func (mysqlDialect) ScanColumn(rows *sql.Rows) (models.Column, error) {
	return scanInformationSchemaColumn(rows)
}

type sqlServerDialect struct{}

func (sqlServerDialect) Name() string       { return validation.DialectSQLServer }
func (sqlServerDialect) DriverName() string { return "sqlserver" }

func (sqlServerDialect) ListTablesQuery() (string, []any) {
	return `SELECT TABLE_SCHEMA + '.' + TABLE_NAME
		FROM INFORMATION_SCHEMA.TABLES
		WHERE TABLE_TYPE IN ('BASE TABLE', 'VIEW')
		ORDER BY TABLE_SCHEMA, TABLE_NAME`, nil
}

// DescribeTableQuery accepts "schema.table" or a bare table name in dbo.
func (sqlServerDialect) DescribeTableQuery(table string) (string, []any) {
	schema, name := "dbo", table
	if idx := strings.Index(table, "."); idx != -1 {
		schema, name = table[:idx], table[idx+1:]
	}
	schema = strings.Trim(schema, "[]")
	name = strings.Trim(name, "[]")
	return `SELECT COLUMN_NAME, DATA_TYPE, IS_NULLABLE
		FROM INFORMATION_SCHEMA.COLUMNS
		WHERE TABLE_SCHEMA = @p1 AND TABLE_NAME = @p2
		ORDER BY ORDINAL_POSITION`, []any{schema, name}
}

func (sqlServerDialect) ScanColumn(rows *sql.Rows) (models.Column, error) {
	return scanInformationSchemaColumn(rows)
}

func scanInformationSchemaColumn(rows *sql.Rows) (models.Column, error) {
	var name, dataType, isNullable string
	if err := rows.Scan(&name, &dataType, &isNullable); err != nil {
		return models.Column{}, err
	}
	return models.Column{Name: name, Type: dataType, Nullable: strings.EqualFold(isNullable, "YES")}, nil
}
