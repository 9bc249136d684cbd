package internal

import (
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists the settings document in a SQLite database, one row
// per top-level document key. Rows owned by other modules are never touched,
// which preserves unknown keys the same way the YAML store does.
type SQLiteStore struct {
	db    *sql.DB
	path  string
	delay time.Duration

	mu       sync.Mutex
	timer    *time.Timer
	settings *Settings
}

// OpenSQLiteStore opens (creating if needed) a SQLite-backed settings store.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &SettingsError{Path: path, Op: "open", Err: err}
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &SettingsError{Path: path, Op: "open", Err: err}
	}

	schema := `
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, &SettingsError{Path: path, Op: "open", Err: err}
	}

	return &SQLiteStore{
		db:    db,
		path:  path,
		delay: DefaultSaveDelay,
	}, nil
}

// Load reads this module's settings row, returning defaults when absent.
func (s *SQLiteStore) Load() (*Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = DefaultSettings()

	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", ModuleKey).Scan(&value)
	if err == sql.ErrNoRows {
		return s.settings, nil
	}
	if err != nil {
		return nil, &SettingsError{Path: s.path, Op: "open", Err: err}
	}

	settings := &Settings{}
	if err := json.Unmarshal([]byte(value), settings); err != nil {
		return nil, &SettingsError{Path: s.path, Op: "parse", Err: err}
	}
	settings.FillDefaults()
	s.settings = settings
	return settings, nil
}

// ScheduleSave arms (or re-arms) the debounced flush.
func (s *SQLiteStore) ScheduleSave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, func() {
		if err := s.Flush(); err != nil {
			LogError("debounced settings save failed: %v", err)
		}
	})
}

// Flush writes the settings row now, cancelling any pending debounced save.
func (s *SQLiteStore) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.settings == nil {
		return nil
	}

	s.settings.Lock()
	value, err := json.Marshal(s.settings)
	s.settings.Unlock()
	if err != nil {
		return &SettingsError{Path: s.path, Op: "write", Err: err}
	}

	query := `
	INSERT OR REPLACE INTO settings (key, value, updated_at)
	VALUES (?, ?, ?)
	`
	if _, err := s.db.Exec(query, ModuleKey, string(value), time.Now()); err != nil {
		return &SettingsError{Path: s.path, Op: "write", Err: err}
	}
	return nil
}

// Close flushes pending state and closes the database.
func (s *SQLiteStore) Close() error {
	if err := s.Flush(); err != nil {
		LogWarn("flush on close failed: %v", err)
	}
	return s.db.Close()
}
