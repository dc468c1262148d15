package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateReadOnlyQuery_Allowed(t *testing.T) {
	cases := []struct {
		dialect string
		query   string
	}{
		{DialectSQLite, "SELECT * FROM STUDENT"},
		{DialectSQLite, "select NAME, MARKS from STUDENT where CLASS = 'Data Science' order by MARKS desc limit 5"},
		{DialectSQLite, "SELECT * FROM settings"},
		{DialectSQLite, "SELECT created_at, updated_at, deleted FROM orders"},
		{DialectSQLite, "SELECT * FROM users WHERE name = 'DROP TABLE users'"},
		{DialectSQLite, "SELECT 1;"},
		{DialectSQLite, "WITH top AS (SELECT NAME FROM STUDENT) SELECT * FROM top"},
		{DialectSQLite, "EXPLAIN SELECT * FROM STUDENT"},
		{DialectMySQL, "SHOW TABLES"},
		{DialectMySQL, "DESCRIBE users"},
		{DialectMySQL, "SELECT * FROM t WHERE note = 'it\\'s; DELETE'"},
		{DialectMySQL, "SELECT REPLACE(name, 'a', 'b') FROM users"},
		{DialectMySQL, "SELECT NAME FROM STUDENT /* plain comment */"},
		{DialectMySQL, "SELECT '/*! not a comment */' AS note"},
		{DialectSQLServer, "SELECT TOP 10 [Name] FROM dbo.Student ORDER BY [Marks] DESC"},
		{DialectSQLServer, "SELECT COUNT(*) FROM Student -- how many?"},
	}

	for _, tc := range cases {
		t.Run(tc.dialect+"/"+tc.query, func(t *testing.T) {
			assert.NoError(t, ValidateReadOnlyQuery(tc.dialect, tc.query))
		})
	}
}

func TestValidateReadOnlyQuery_Blocked(t *testing.T) {
	cases := []struct {
		dialect string
		query   string
	}{
		{DialectSQLite, ""},
		{DialectSQLite, "   -- only a comment"},
		{DialectSQLite, "INSERT INTO STUDENT VALUES ('x', 'y', 'z', 1)"},
		{DialectSQLite, "UPDATE STUDENT SET MARKS = 0"},
		{DialectSQLite, "DELETE FROM STUDENT"},
		{DialectSQLite, "DROP TABLE STUDENT"},
		{DialectSQLite, "SELECT 1; DROP TABLE STUDENT"},
		{DialectSQLite, "SELECT 1; -- hidden\nDELETE FROM STUDENT"},
		{DialectSQLite, "WITH x AS (SELECT 1) DELETE FROM STUDENT"},
		{DialectSQLite, "ATTACH DATABASE '/tmp/x.db' AS x"},
		{DialectSQLite, "SELECT load_extension('evil.so')"},
		{DialectSQLite, "PRAGMA writable_schema = 1"},
		{DialectMySQL, "SELECT * INTO OUTFILE '/tmp/out' FROM users"},
		{DialectMySQL, "SELECT SLEEP(10)"},
		{DialectMySQL, "CALL cleanup()"},
		{DialectMySQL, "SET @x = 1"},
		{DialectMySQL, "SELECT NAME FROM STUDENT /*!50000 INTO OUTFILE '/tmp/x' */"},
		{DialectMySQL, "SELECT 1 /*! , SLEEP(30) */"},
		{DialectMySQL, "/*! DELETE FROM STUDENT */ SELECT 1"},
		{DialectSQLServer, "EXEC sp_who"},
		{DialectSQLServer, "SELECT * INTO #tmp FROM Student"},
		{DialectSQLServer, "SELECT 1; WAITFOR DELAY '00:00:10'"},
		{DialectSQLServer, "SELECT * FROM OPENROWSET('SQLNCLI', 'x', 'SELECT 1')"},
		{DialectSQLServer, "SHOW TABLES"},
		{"oracle", "SELECT 1 FROM dual"},
	}

	for _, tc := range cases {
		t.Run(tc.dialect+"/"+tc.query, func(t *testing.T) {
			assert.Error(t, ValidateReadOnlyQuery(tc.dialect, tc.query))
		})
	}
}

func TestRemoveStringsAndComments(t *testing.T) {
	got := RemoveStringsAndComments(DialectSQLite, "SELECT 'a;b' /* c */ FROM t -- d")
	assert.Equal(t, "SELECT ''   FROM t  ", got)

	got = RemoveStringsAndComments(DialectMySQL, `SELECT "x" # note`)
	assert.Equal(t, `SELECT ""  `, got)

	got = RemoveStringsAndComments(DialectSQLite, "SELECT 'it''s'")
	assert.Equal(t, "SELECT ''", got)
}

func TestRemoveStringsAndComments_MySQLExecutableComment(t *testing.T) {
	got := RemoveStringsAndComments(DialectMySQL, "SELECT 1 /*!50000 INTO OUTFILE '/tmp/x' */")
	assert.Equal(t, "SELECT 1 /*! ", got)

	got = RemoveStringsAndComments(DialectSQLite, "SELECT 1 /*! x */")
	assert.Equal(t, "SELECT 1  ", got)

	err := ValidateReadOnlyQuery(DialectMySQL, "SELECT 1 /*! , SLEEP(30) */")
	assert.EqualError(t, err, "executable comments are not allowed")
}
