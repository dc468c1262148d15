package service

import (
	"context"
	"database/sql"
	"fmt"

	// Drivers for every supported Dialect.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/microsoft/go-mssqldb"
	_ "modernc.org/sqlite"
)

type studentRow struct {
	name, class, section string
	marks                int
}

var sampleStudents = []studentRow{
	{"Krish", "Data Science", "A", 90},
	{"John", "Data Science", "B", 100},
	{"Mukesh", "Data Science", "A", 86},
	{"Jacob", "DEVOPS", "A", 50},
	{"Dipesh", "DEVOPS", "A", 35},
}

// SeedStudentDB creates the sample SQLite database served by the local kind.
// Existing rows are left alone; the table is only filled when empty.
func SeedStudentDB(ctx context.Context, path string) error {
	db, err := sql.Open(SQLite.DriverName(), path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS STUDENT (
		NAME VARCHAR(25),
		CLASS VARCHAR(25),
		SECTION VARCHAR(25),
		MARKS INT
	)`); err != nil {
		return fmt.Errorf("failed to create STUDENT table: %w", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM STUDENT").Scan(&count); err != nil {
		return fmt.Errorf("failed to count students: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, s := range sampleStudents {
		if _, err := tx.ExecContext(ctx, "INSERT INTO STUDENT (NAME, CLASS, SECTION, MARKS) VALUES (?, ?, ?, ?)",
			s.name, s.class, s.section, s.marks); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert student %s: %w", s.name, err)
		}
	}
	return tx.Commit()
}
