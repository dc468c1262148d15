package service

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/chakri0176/genAI-chatbot-with-sqldb/models"
	"github.com/chakri0176/genAI-chatbot-with-sqldb/validation"
)

// Database is an established connection pool to exactly one backend. It only
// ever issues read-only statements.
//
// Shared handles are reference counted: users Acquire and Release them, and a
// retired handle closes its pool once the last user has released it.
type Database struct {
	db         *sql.DB
	dialect    Dialect
	descriptor string

	mu      sync.Mutex
	refs    int
	retired bool
}

// New wraps an open pool. descriptor is shown to users and must already be redacted.
func New(db *sql.DB, dialect Dialect, descriptor string) *Database {
	return &Database{
		db:         db,
		dialect:    dialect,
		descriptor: descriptor,
	}
}

func (d *Database) Dialect() string {
	return d.dialect.Name()
}

func (d *Database) Descriptor() string {
	return d.descriptor
}

func (d *Database) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// Acquire registers a user of the handle. It reports false once the handle
// has been retired.
func (d *Database) Acquire() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.retired {
		return false
	}
	d.refs++
	return true
}

// Release ends a use started by Acquire.
func (d *Database) Release() error {
	d.mu.Lock()
	if d.refs == 0 {
		d.mu.Unlock()
		return nil
	}
	d.refs--
	closeNow := d.retired && d.refs == 0
	d.mu.Unlock()

	if closeNow {
		return d.Close()
	}
	return nil
}

// Retire refuses new users. The pool is closed now if idle, otherwise on the
// last Release.
func (d *Database) Retire() error {
	d.mu.Lock()
	if d.retired {
		d.mu.Unlock()
		return nil
	}
	d.retired = true
	idle := d.refs == 0
	d.mu.Unlock()

	if idle {
		return d.Close()
	}
	return nil
}

// InUse returns the number of users holding the handle.
func (d *Database) InUse() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.refs
}

func (d *Database) Ping(ctx context.Context) error {
	if d.db == nil {
		return fmt.Errorf("database connection is not initialized")
	}
	return d.db.PingContext(ctx)
}

func (d *Database) ListTables(ctx context.Context) ([]string, error) {
	query, args := d.dialect.ListTablesQuery()
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	tables := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

func (d *Database) DescribeTable(ctx context.Context, table string) ([]models.Column, error) {
	query, args := d.dialect.DescribeTableQuery(table)
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to describe table %s: %w", table, err)
	}
	defer rows.Close()

	var columns []models.Column
	for rows.Next() {
		col, err := d.dialect.ScanColumn(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan column of %s: %w", table, err)
		}
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s not found", table)
	}
	return columns, nil
}

// ExecuteQuery runs a validated read-only query and returns at most limit rows.
// A limit <= 0 means no cap.
func (d *Database) ExecuteQuery(ctx context.Context, query string, limit int) (*models.SQLResult, error) {
	if d.db == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}
	if err := validation.ValidateReadOnlyQuery(d.dialect.Name(), query); err != nil {
		return &models.SQLResult{Error: err.Error()}, err
	}

	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return &models.SQLResult{Error: err.Error()}, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return &models.SQLResult{Error: err.Error()}, err
	}

	result := &models.SQLResult{
		Columns: columns,
		Rows:    make([][]interface{}, 0),
	}

	for rows.Next() {
		if limit > 0 && len(result.Rows) == limit {
			result.Truncated = true
			break
		}

		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return &models.SQLResult{Error: err.Error()}, err
		}

		row := make([]interface{}, len(columns))
		for i, val := range values {
			switch v := val.(type) {
			case nil:
				row[i] = nil
			case []byte:
				row[i] = string(v)
			default:
				row[i] = fmt.Sprintf("%v", v)
			}
		}
		result.Rows = append(result.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return &models.SQLResult{Error: err.Error()}, err
	}
	return result, nil
}
