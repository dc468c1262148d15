package resolver

import (
	"context"
	"database/sql"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/chakri0176/genAI-chatbot-with-sqldb/cache"
	"github.com/chakri0176/genAI-chatbot-with-sqldb/service"
)

const DefaultHandleTTL = 2 * time.Hour

// Opener opens a connection pool. sql.Open is the default.
type Opener func(driverName, dsn string) (*sql.DB, error)

type Options struct {
	// LocalPath is the SQLite file served for KindLocal.
	LocalPath string
	// HandleTTL bounds how long a resolved handle is reused. Defaults to DefaultHandleTTL.
	HandleTTL   time.Duration
	PingTimeout time.Duration
	Open        Opener
}

// Resolver turns credentials into cached database handles. Identical
// credentials share one handle until it expires; expired handles are closed once no caller holds them.
type Resolver struct {
	localPath   string
	pingTimeout time.Duration
	open        Opener
	handles     *cache.Cache

	mu sync.Mutex
}

func New(opts Options) *Resolver {
	if opts.HandleTTL <= 0 {
		opts.HandleTTL = DefaultHandleTTL
	}
	if opts.PingTimeout <= 0 {
		opts.PingTimeout = 15 * time.Second
	}
	if opts.Open == nil {
		opts.Open = sql.Open
	}

	cleanup := opts.HandleTTL / 4
	if cleanup < time.Second {
		cleanup = time.Second
	}

	r := &Resolver{
		localPath:   opts.LocalPath,
		pingTimeout: opts.PingTimeout,
		open:        opts.Open,
		handles:     cache.New(opts.HandleTTL, cleanup),
	}
	r.handles.OnEvicted(func(key string, value interface{}) {
		if db, ok := value.(*service.Database); ok {
			if err := db.Retire(); err != nil {
				log.Printf("Error closing expired database handle %s: %v", db.Descriptor(), err)
			}
		}
	})
	return r
}

// Resolve validates creds and returns a live handle. Invalid credentials are
// rejected before any file or network access. The returned handle is acquired
// for the caller, who must Release it when done.
func (r *Resolver) Resolve(ctx context.Context, creds Credentials) (*service.Database, error) {
	if creds == nil {
		return nil, configurationf(nil, "unsupported database choice")
	}
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	key := cacheKey(creds)
	if creds.Kind() == KindLocal {
		key = cacheKey(creds, r.localPath)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if value, ok := r.handles.Get(key); ok {
		if db := value.(*service.Database); db.Acquire() {
			return db, nil
		}
	}
	// An expired handle may still sit in the cache; deleting it retires it.
	r.handles.Delete(key)

	db, err := r.connect(ctx, creds)
	if err != nil {
		return nil, err
	}
	db.Acquire()
	r.handles.SetDefault(key, db)
	log.Printf("Connected to %s database: %s", creds.Kind(), db.Descriptor())
	return db, nil
}

// HandleCount reports how many handles are currently cached.
func (r *Resolver) HandleCount() int {
	return r.handles.ItemCount()
}

// Close retires every cached handle. Handles still held are closed on their
// last Release.
func (r *Resolver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handles.Purge()
	return nil
}

func (r *Resolver) connect(ctx context.Context, creds Credentials) (*service.Database, error) {
	switch c := creds.(type) {
	case Local:
		return r.openLocal(ctx)
	case MySQL:
		return r.openPool(ctx, service.MySQL, c.DriverDSN(), c.Redacted())
	case SQLServer:
		return r.openPool(ctx, service.SQLServer, c.DriverDSN(), c.Redacted())
	default:
		return nil, configurationf(nil, "unsupported database choice: %s", creds.Kind())
	}
}

func (r *Resolver) openLocal(ctx context.Context) (*service.Database, error) {
	if r.localPath == "" {
		return nil, configurationf(nil, "local database path is not configured")
	}
	path, err := filepath.Abs(r.localPath)
	if err != nil {
		return nil, configurationf(err, "invalid local database path %s", r.localPath)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, configurationf(err, "local database %s is missing or unreadable", path)
	}
	info, err := f.Stat()
	f.Close()
	if err != nil {
		return nil, configurationf(err, "local database %s is unreadable", path)
	}
	if info.IsDir() {
		return nil, configurationf(nil, "local database %s is a directory", path)
	}

	return r.openPool(ctx, service.SQLite, sqliteReadOnlyDSN(path), path)
}

func (r *Resolver) openPool(ctx context.Context, dialect service.Dialect, dsn, descriptor string) (*service.Database, error) {
	db, err := r.open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, connectivityf(err, "failed to open %s connection", dialect.Name())
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	pingCtx, cancel := context.WithTimeout(ctx, r.pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, connectivityf(err, "failed to connect to %s", descriptor)
	}

	return service.New(db, dialect, descriptor), nil
}

// sqliteReadOnlyDSN builds a SQLite URI filename that opens path read-only.
func sqliteReadOnlyDSN(path string) string {
	slashed := filepath.ToSlash(path)
	if !strings.HasPrefix(slashed, "/") {
		slashed = "/" + slashed
	}
	u := url.URL{Scheme: "file", Path: slashed, RawQuery: "mode=ro"}
	return u.String()
}
