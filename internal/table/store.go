package table

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/lox/cardtable/internal/fileutil"
)

// Record is what a session hands to its Store after every transition: a
// snapshot of the engine plus the window of idempotency keys already seen,
// enough to resume the game in another process.
type Record struct {
	GameID  string
	Version uint64
	State   any
	Keys    []string
	Over    bool
	SavedAt time.Time
}

// Store persists session records. Implementations must not retain State
// beyond what they copy.
type Store interface {
	Save(ctx context.Context, rec Record) error
}

// StoreFunc adapts a function to Store.
type StoreFunc func(ctx context.Context, rec Record) error

// Save calls f.
func (f StoreFunc) Save(ctx context.Context, rec Record) error { return f(ctx, rec) }

// MemoryStore keeps the latest record per game in memory.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
	saves   int
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

// Save implements Store. Older versions never overwrite newer ones.
func (m *MemoryStore) Save(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if prev, ok := m.records[rec.GameID]; ok && prev.Version > rec.Version {
		return nil
	}
	rec.Keys = append([]string(nil), rec.Keys...)
	m.records[rec.GameID] = rec
	return nil
}

// Load returns the latest record for gameID.
func (m *MemoryStore) Load(gameID string) (Record, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[gameID]
	return rec, ok
}

// Saves returns how many times Save was called.
func (m *MemoryStore) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

// FileStore writes the latest record of each game to <dir>/<game id>.json.
type FileStore struct {
	dir      string
	mu       sync.Mutex
	versions map[string]uint64
}

// NewFileStore creates dir if needed and returns a store writing into it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create record dir: %w", err)
	}
	return &FileStore{dir: dir, versions: make(map[string]uint64)}, nil
}

// Path returns the file a game's record is written to.
func (f *FileStore) Path(gameID string) string {
	return filepath.Join(f.dir, gameID+".json")
}

// Save implements Store. Each write replaces the file atomically; a version
// older than the last one written is skipped.
func (f *FileStore) Save(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if last, ok := f.versions[rec.GameID]; ok && last > rec.Version {
		return nil
	}
	if err := fileutil.WriteJSONAtomic(f.Path(rec.GameID), rec, 0o644); err != nil {
		return err
	}
	f.versions[rec.GameID] = rec.Version
	return nil
}

// LoadRecord reads a record written by FileStore, decoding its state into
// state, which must be a pointer to the engine type that was saved.
func LoadRecord(path string, state any) (Record, error) {
	var raw struct {
		GameID  string
		Version uint64
		State   json.RawMessage
		Keys    []string
		Over    bool
		SavedAt time.Time
	}
	if err := fileutil.ReadJSON(path, &raw); err != nil {
		return Record{}, err
	}
	if err := json.Unmarshal(raw.State, state); err != nil {
		return Record{}, fmt.Errorf("decode state of %s: %w", raw.GameID, err)
	}
	return Record{
		GameID:  raw.GameID,
		Version: raw.Version,
		State:   state,
		Keys:    raw.Keys,
		Over:    raw.Over,
		SavedAt: raw.SavedAt,
	}, nil
}
