package db

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/chakri0176/genAI-chatbot-with-sqldb/models"
)

var ErrSessionNotFound = errors.New("session not found")

const maxConflictRetries = 3

// DB keeps chat sessions in an in-memory badger store. Every write refreshes
// the session TTL, so idle sessions disappear and nothing reaches disk.
type DB struct {
	badgerDB *badger.DB
	ttl      time.Duration
	greeting string
}

type storedSession struct {
	ID         string                     `json:"id"`
	Connection *models.ConnectionSettings `json:"connection,omitempty"`
	APIKey     string                     `json:"api_key,omitempty"`
	Messages   []models.ChatTurn          `json:"messages"`
	CreatedAt  time.Time                  `json:"created_at"`
	UpdatedAt  time.Time                  `json:"updated_at"`
}

func New(ttl time.Duration, greeting string) (*DB, error) {
	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithMemTableSize(16 << 20)
	opts.Logger = nil // Disable badger logging for cleaner output

	badgerDB, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	return &DB{badgerDB: badgerDB, ttl: ttl, greeting: greeting}, nil
}

func (d *DB) Close() error {
	return d.badgerDB.Close()
}

func sessionKey(id string) []byte {
	return []byte(fmt.Sprintf("session:%s", id))
}

func (d *DB) seedTurn() models.ChatTurn {
	return models.ChatTurn{Role: models.RoleAssistant, Content: d.greeting, CreatedAt: time.Now()}
}

// CreateSession starts a session whose history holds only the greeting.
func (d *DB) CreateSession() (*models.Session, error) {
	now := time.Now()
	s := &storedSession{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := d.badgerDB.Update(func(txn *badger.Txn) error {
		return d.put(txn, s)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	if err := d.InitHistory(s.ID); err != nil {
		return nil, fmt.Errorf("failed to seed session history: %w", err)
	}
	return s.session(), nil
}

func (d *DB) GetSession(id string) (*models.Session, error) {
	var s *storedSession
	err := d.badgerDB.View(func(txn *badger.Txn) error {
		var err error
		s, err = get(txn, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.session(), nil
}

// SaveSession stores the connection settings and API key of sess.
func (d *DB) SaveSession(sess *models.Session) error {
	return d.update(sess.ID, func(s *storedSession) error {
		s.Connection = sess.Connection
		s.APIKey = sess.APIKey
		return nil
	})
}

// DeleteSession drops the session and its history.
func (d *DB) DeleteSession(id string) error {
	return d.badgerDB.Update(func(txn *badger.Txn) error {
		if _, err := get(txn, id); err != nil {
			return err
		}
		return txn.Delete(sessionKey(id))
	})
}

// InitHistory seeds the greeting if the session has no turns yet.
func (d *DB) InitHistory(id string) error {
	return d.update(id, func(s *storedSession) error {
		if len(s.Messages) == 0 {
			s.Messages = []models.ChatTurn{d.seedTurn()}
		}
		return nil
	})
}

// AppendTurn adds a turn at the end of the history.
func (d *DB) AppendTurn(id, role, content string) (models.ChatTurn, error) {
	if role != models.RoleUser && role != models.RoleAssistant {
		return models.ChatTurn{}, fmt.Errorf("invalid chat role %q", role)
	}
	turn := models.ChatTurn{Role: role, Content: content, CreatedAt: time.Now()}
	err := d.update(id, func(s *storedSession) error {
		s.Messages = append(s.Messages, turn)
		return nil
	})
	return turn, err
}

// ClearHistory replaces the whole history with the greeting.
func (d *DB) ClearHistory(id string) error {
	return d.update(id, func(s *storedSession) error {
		s.Messages = []models.ChatTurn{d.seedTurn()}
		return nil
	})
}

func (d *DB) History(id string) ([]models.ChatTurn, error) {
	var s *storedSession
	err := d.badgerDB.View(func(txn *badger.Txn) error {
		var err error
		s, err = get(txn, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.Messages, nil
}

func (d *DB) update(id string, fn func(*storedSession) error) error {
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		err = d.badgerDB.Update(func(txn *badger.Txn) error {
			s, err := get(txn, id)
			if err != nil {
				return err
			}
			if err := fn(s); err != nil {
				return err
			}
			s.UpdatedAt = time.Now()
			return d.put(txn, s)
		})
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}

func (d *DB) put(txn *badger.Txn, s *storedSession) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	entry := badger.NewEntry(sessionKey(s.ID), data)
	if d.ttl > 0 {
		entry = entry.WithTTL(d.ttl)
	}
	return txn.SetEntry(entry)
}

func get(txn *badger.Txn, id string) (*storedSession, error) {
	item, err := txn.Get(sessionKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var s storedSession
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &s)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", id, err)
	}
	return &s, nil
}

func (s *storedSession) session() *models.Session {
	return &models.Session{
		ID:         s.ID,
		Connection: s.Connection,
		APIKey:     s.APIKey,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}
