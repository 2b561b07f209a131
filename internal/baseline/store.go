// internal/baseline/store.go
package baseline

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/saadi-js/SNA/internal/snapshot"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a named baseline does not exist. Callers are
// expected to surface the available names alongside it.
var ErrNotFound = errors.New("baseline not found")

// Baseline is a named, persisted snapshot used as a comparison reference.
type Baseline struct {
	Name      string                  `json:"name"`
	CreatedAt time.Time               `json:"created_at"`
	Snapshot  snapshot.SystemSnapshot `json:"snapshot"`
}

// Store persists baselines in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens or creates the baseline database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// WAL keeps a reader from ever observing a half-written baseline when
	// two invocations overlap.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS baselines (
		name TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		snapshot TEXT NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save persists a snapshot under the given name, overwriting any existing
// baseline of that name. An empty name gets a timestamp-derived identifier.
func (s *Store) Save(name string, snap snapshot.SystemSnapshot) (Baseline, error) {
	now := time.Now().UTC()
	if name == "" {
		name = "baseline_" + now.Format("20060102_150405")
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return Baseline{}, fmt.Errorf("encode baseline %q: %w", name, err)
	}

	// A single upsert; an overwrite keeps the original rowid, so the name
	// stays in its creation-order position in List.
	_, err = s.db.Exec(`
		INSERT INTO baselines (name, created_at, snapshot) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET created_at=excluded.created_at, snapshot=excluded.snapshot
	`, name, now.Format(time.RFC3339Nano), string(data))
	if err != nil {
		return Baseline{}, fmt.Errorf("save baseline %q: %w", name, err)
	}

	return Baseline{Name: name, CreatedAt: now, Snapshot: snap}, nil
}

// Get retrieves a baseline by name, or ErrNotFound.
func (s *Store) Get(name string) (Baseline, error) {
	var createdStr, snapJSON string
	err := s.db.QueryRow(`
		SELECT created_at, snapshot FROM baselines WHERE name = ?
	`, name).Scan(&createdStr, &snapJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return Baseline{}, fmt.Errorf("baseline %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return Baseline{}, fmt.Errorf("load baseline %q: %w", name, err)
	}

	b := Baseline{Name: name}
	b.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	if err := json.Unmarshal([]byte(snapJSON), &b.Snapshot); err != nil {
		return Baseline{}, fmt.Errorf("decode baseline %q: %w", name, err)
	}
	return b, nil
}

// List returns baseline names in creation order.
func (s *Store) List() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM baselines ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Delete removes a baseline by name, or returns ErrNotFound.
func (s *Store) Delete(name string) error {
	res, err := s.db.Exec(`DELETE FROM baselines WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete baseline %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("baseline %q: %w", name, ErrNotFound)
	}
	return nil
}
