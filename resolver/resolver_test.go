package resolver

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chakri0176/genAI-chatbot-with-sqldb/service"
)

// recordingOpener counts open calls and serves every driver with an in-memory SQLite pool.
type recordingOpener struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (o *recordingOpener) open(driverName, dsn string) (*sql.DB, error) {
	o.mu.Lock()
	o.calls = append(o.calls, driverName+" "+dsn)
	o.mu.Unlock()
	if o.err != nil {
		return nil, o.err
	}
	return sql.Open("sqlite", ":memory:")
}

func (o *recordingOpener) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.calls)
}

func seededLocalPath(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "student.db")
	require.NoError(t, service.SeedStudentDB(context.Background(), path))
	return path
}

func TestResolve_InvalidCredentialsNeverConnect(t *testing.T) {
	opener := &recordingOpener{}
	r := New(Options{LocalPath: filepath.Join(t.TempDir(), "student.db"), Open: opener.open})
	defer r.Close()

	invalid := []Credentials{
		MySQL{Host: "", User: "a", Password: "b", Database: "c"},
		MySQL{Host: "h", User: "a", Password: "", Database: "c"},
		SQLServer{Server: "s", Database: "", Driver: "d"},
		SQLServer{Server: "s", Database: "d", Driver: "d", Auth: AuthSQLLogin},
		SQLServer{Server: "s", Database: "d", Driver: "d", Auth: AuthSQLLogin, User: "u"},
	}
	for _, creds := range invalid {
		db, err := r.Resolve(context.Background(), creds)
		assert.Nil(t, db)
		assert.True(t, IsValidation(err), "%T: %v", creds, err)
	}

	assert.Equal(t, 0, opener.count())
	assert.Equal(t, 0, r.HandleCount())
}

func TestResolve_NilCredentials(t *testing.T) {
	r := New(Options{})
	defer r.Close()

	_, err := r.Resolve(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, IsConfiguration(err))
	assert.Contains(t, err.Error(), "unsupported database choice")
}

func TestResolve_SQLLoginScenario(t *testing.T) {
	r := New(Options{Open: (&recordingOpener{}).open})
	defer r.Close()

	_, err := r.Resolve(context.Background(), SQLServer{
		Server: "s", Database: "d", Driver: "ODBC Driver 18 for SQL Server",
		Auth: AuthSQLLogin, User: "", Password: "",
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "login and password")
}

func TestResolve_LocalMissingFile(t *testing.T) {
	opener := &recordingOpener{}
	r := New(Options{LocalPath: filepath.Join(t.TempDir(), "missing.db"), Open: opener.open})
	defer r.Close()

	db, err := r.Resolve(context.Background(), Local{})
	assert.Nil(t, db)
	require.Error(t, err)
	assert.True(t, IsConfiguration(err))
	assert.Equal(t, 0, opener.count())
}

func TestResolve_LocalDirectory(t *testing.T) {
	r := New(Options{LocalPath: t.TempDir()})
	defer r.Close()

	_, err := r.Resolve(context.Background(), Local{})
	assert.True(t, IsConfiguration(err))
}

func TestResolve_LocalIsReadOnlyAndCached(t *testing.T) {
	ctx := context.Background()
	r := New(Options{LocalPath: seededLocalPath(t)})
	defer r.Close()

	first, err := r.Resolve(ctx, Local{})
	require.NoError(t, err)
	second, err := r.Resolve(ctx, Local{})
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, r.HandleCount())
	assert.Equal(t, "sqlite", first.Dialect())

	tables, err := first.ListTables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"STUDENT"}, tables)
}

func TestResolve_LocalExpiresAfterTTL(t *testing.T) {
	ctx := context.Background()
	r := New(Options{LocalPath: seededLocalPath(t), HandleTTL: 50 * time.Millisecond})
	defer r.Close()

	first, err := r.Resolve(ctx, Local{})
	require.NoError(t, err)
	require.NoError(t, first.Release())

	time.Sleep(120 * time.Millisecond)

	second, err := r.Resolve(ctx, Local{})
	require.NoError(t, err)
	defer second.Release()
	assert.NotSame(t, first, second)

	// The expired handle was idle, so it was closed when it was replaced.
	assert.Error(t, first.Ping(ctx))
	assert.NoError(t, second.Ping(ctx))
}

func TestResolve_HeldHandleSurvivesExpiry(t *testing.T) {
	ctx := context.Background()
	r := New(Options{LocalPath: seededLocalPath(t), HandleTTL: 50 * time.Millisecond})
	defer r.Close()

	held, err := r.Resolve(ctx, Local{})
	require.NoError(t, err)
	assert.Equal(t, 1, held.InUse())

	// Long enough for the janitor to evict the expired entry.
	time.Sleep(1500 * time.Millisecond)
	assert.Equal(t, 0, r.HandleCount())

	tables, err := held.ListTables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"STUDENT"}, tables)

	fresh, err := r.Resolve(ctx, Local{})
	require.NoError(t, err)
	defer fresh.Release()
	assert.NotSame(t, held, fresh)
	assert.NoError(t, held.Ping(ctx))

	require.NoError(t, held.Release())
	assert.Error(t, held.Ping(ctx))
	assert.NoError(t, fresh.Ping(ctx))
}

func TestResolve_NetworkKindsCacheByCredentials(t *testing.T) {
	ctx := context.Background()
	opener := &recordingOpener{}
	r := New(Options{Open: opener.open})
	defer r.Close()

	creds := MySQL{Host: "db", User: "u", Password: "p", Database: "school"}
	first, err := r.Resolve(ctx, creds)
	require.NoError(t, err)
	again, err := r.Resolve(ctx, creds)
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Equal(t, 1, opener.count())
	assert.Equal(t, "mysql", first.Dialect())
	assert.Equal(t, "u:****@db/school", first.Descriptor())

	changed := creds
	changed.Password = "other"
	other, err := r.Resolve(ctx, changed)
	require.NoError(t, err)
	assert.NotSame(t, first, other)
	assert.Equal(t, 2, opener.count())

	mssql, err := r.Resolve(ctx, SQLServer{Server: "srv", Database: "school", Driver: "ODBC Driver 18 for SQL Server"})
	require.NoError(t, err)
	assert.Equal(t, "sqlserver", mssql.Dialect())
	assert.Contains(t, opener.calls[2], "sqlserver sqlserver://srv?")
	assert.Equal(t, 3, r.HandleCount())
}

func TestResolve_ConnectivityErrors(t *testing.T) {
	ctx := context.Background()
	creds := MySQL{Host: "127.0.0.1:1", User: "u", Password: "p", Database: "d"}

	broken := New(Options{Open: (&recordingOpener{err: errors.New("driver exploded")}).open})
	defer broken.Close()
	_, err := broken.Resolve(ctx, creds)
	require.Error(t, err)
	assert.True(t, IsConnectivity(err))
	assert.Contains(t, err.Error(), "driver exploded")

	// Nothing listens on port 1, so the ping fails.
	unreachable := New(Options{PingTimeout: 2 * time.Second})
	defer unreachable.Close()
	_, err = unreachable.Resolve(ctx, creds)
	require.Error(t, err)
	assert.True(t, IsConnectivity(err))
	assert.NotContains(t, err.Error(), ":p@")
	assert.Equal(t, 0, unreachable.HandleCount())
}

func TestResolver_CloseReleasesHandles(t *testing.T) {
	ctx := context.Background()
	r := New(Options{LocalPath: seededLocalPath(t)})

	db, err := r.Resolve(ctx, Local{})
	require.NoError(t, err)
	require.NoError(t, r.Close())

	assert.Equal(t, 0, r.HandleCount())
	assert.NoError(t, db.Ping(ctx), "a held handle stays open until released")

	require.NoError(t, db.Release())
	assert.Error(t, db.Ping(ctx))
}

func TestSQLiteReadOnlyDSN(t *testing.T) {
	assert.Equal(t, "file:///tmp/a%20b/student.db?mode=ro", sqliteReadOnlyDSN("/tmp/a b/student.db"))
}
