package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/conduit-lang/typestream/internal/compiler/types"
)

// Store persists encoded units on disk. Blobs live under objects/ named by
// content hash, and a SQLite index maps unit names to blob hashes along with
// size and provenance metadata.
type Store struct {
	dir     string
	db      *sql.DB
	log     *zap.Logger
	hasher  *ContentHasher
	session uuid.UUID
	metrics StoreMetrics
}

// Entry describes one indexed unit.
type Entry struct {
	Name      string
	Hash      string
	Kind      UnitKind
	Size      int64
	Session   uuid.UUID
	CreatedAt time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS units (
	name       TEXT PRIMARY KEY,
	hash       TEXT NOT NULL,
	kind       INTEGER NOT NULL,
	size       INTEGER NOT NULL,
	session    TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS alloc_ids (
	stable INTEGER PRIMARY KEY,
	local  INTEGER NOT NULL
);
`

// Open creates or opens a store rooted at dir. A nil logger disables logging.
func Open(dir string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Join(dir, "objects"), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	db, err := sql.Open("sqlite3", filepath.Join(dir, "index.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open store index: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize store schema: %w", err)
	}
	s := &Store{
		dir:     dir,
		db:      db,
		log:     logger,
		hasher:  NewContentHasher(),
		session: uuid.New(),
	}
	s.log.Debug("opened unit store",
		zap.String("dir", dir),
		zap.String("session", s.session.String()))
	return s, nil
}

// Session returns the session id stamped onto units saved by this store.
func (s *Store) Session() uuid.UUID {
	return s.session
}

// Save indexes a unit blob under name. The blob must carry a valid unit
// envelope; its content hash decides the on-disk object path, so identical
// payloads share a single object file.
func (s *Store) Save(name string, blob []byte) error {
	start := time.Now()
	unit, err := ParseUnit(blob)
	if err != nil {
		return fmt.Errorf("failed to save unit %q: %w", name, err)
	}
	hash := s.hasher.HashBlob(blob)
	path := s.objectPath(hash)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create object directory: %w", err)
		}
		if err := os.WriteFile(path, blob, 0o644); err != nil {
			return fmt.Errorf("failed to write object %s: %w", hash, err)
		}
	}
	_, err = s.db.Exec(
		`INSERT INTO units (name, hash, kind, size, session, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
		   hash = excluded.hash,
		   kind = excluded.kind,
		   size = excluded.size,
		   session = excluded.session,
		   created_at = excluded.created_at`,
		name, hash, int(unit.Kind), len(blob), unit.Session.String(), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to index unit %q: %w", name, err)
	}
	s.metrics.UnitsSaved++
	s.metrics.BytesSaved += int64(len(blob))
	s.metrics.SaveDuration += time.Since(start)
	s.log.Debug("saved unit",
		zap.String("name", name),
		zap.String("kind", unit.Kind.String()),
		zap.String("hash", hash[:12]),
		zap.Int("size", len(blob)))
	return nil
}

// Load returns the blob indexed under name. The second result reports whether
// the unit was found; a miss is not an error.
func (s *Store) Load(name string) ([]byte, bool, error) {
	start := time.Now()
	s.metrics.Lookups++
	var hash string
	err := s.db.QueryRow(`SELECT hash FROM units WHERE name = ?`, name).Scan(&hash)
	if err == sql.ErrNoRows {
		s.metrics.Misses++
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up unit %q: %w", name, err)
	}
	blob, err := os.ReadFile(s.objectPath(hash))
	if err != nil {
		return nil, false, fmt.Errorf("failed to read object %s: %w", hash, err)
	}
	s.metrics.Hits++
	s.metrics.BytesLoaded += int64(len(blob))
	s.metrics.LoadDuration += time.Since(start)
	s.log.Debug("loaded unit",
		zap.String("name", name),
		zap.Int("size", len(blob)))
	return blob, true, nil
}

// Entries lists all indexed units, newest first.
func (s *Store) Entries() ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT name, hash, kind, size, session, created_at
		 FROM units ORDER BY created_at DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var kind int
		var session string
		if err := rows.Scan(&e.Name, &e.Hash, &kind, &e.Size, &session, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan unit row: %w", err)
		}
		e.Kind = UnitKind(kind)
		if id, err := uuid.Parse(session); err == nil {
			e.Session = id
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// SaveAllocBridge persists the bridge's stable-id mapping into the index so a
// later session can resume with the same stable ids.
func (s *Store) SaveAllocBridge(b *AllocBridge) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin alloc map transaction: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM alloc_ids`); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to clear alloc map: %w", err)
	}
	for stable, local := range b.snapshot() {
		if _, err := tx.Exec(
			`INSERT INTO alloc_ids (stable, local) VALUES (?, ?)`,
			int64(stable), int64(local),
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to save alloc mapping: %w", err)
		}
	}
	return tx.Commit()
}

// LoadAllocBridge restores a bridge from the persisted stable-id mapping.
func (s *Store) LoadAllocBridge() (*AllocBridge, error) {
	rows, err := s.db.Query(`SELECT stable, local FROM alloc_ids`)
	if err != nil {
		return nil, fmt.Errorf("failed to load alloc map: %w", err)
	}
	defer rows.Close()

	m := make(map[uint64]types.AllocID)
	for rows.Next() {
		var stable, local int64
		if err := rows.Scan(&stable, &local); err != nil {
			return nil, fmt.Errorf("failed to scan alloc mapping: %w", err)
		}
		m[uint64(stable)] = types.AllocID(local)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	b := NewAllocBridge()
	b.restore(m)
	return b, nil
}

// Metrics returns a snapshot of the store's counters.
func (s *Store) Metrics() StoreMetrics {
	return s.metrics
}

// Close closes the underlying index database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) objectPath(hash string) string {
	return filepath.Join(s.dir, "objects", hash[:2], hash[2:])
}
