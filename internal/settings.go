package internal

import (
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultSaveDelay is the coalescing window for debounced settings saves.
const DefaultSaveDelay = time.Second

// SettingsStore persists this module's settings inside the host's settings
// document. ScheduleSave is fire-and-forget with a coalesced asynchronous
// flush; callers that need durability call Flush.
type SettingsStore interface {
	Load() (*Settings, error)
	ScheduleSave()
	Flush() error
}

// FileStore persists the settings document as a YAML file. The document may
// carry keys owned by other modules; they are read, kept and written back
// untouched, while missing keys in our own section are backfilled from
// defaults.
type FileStore struct {
	path  string
	delay time.Duration

	mu       sync.Mutex
	timer    *time.Timer
	doc      map[string]interface{}
	settings *Settings
}

// NewFileStore creates a YAML-backed settings store at the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path:  path,
		delay: DefaultSaveDelay,
	}
}

// Load reads the settings document and returns this module's section,
// creating defaults when the file or the section is absent.
func (fs *FileStore) Load() (*Settings, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.doc = make(map[string]interface{})
	fs.settings = DefaultSettings()

	data, err := os.ReadFile(fs.path)
	if os.IsNotExist(err) {
		return fs.settings, nil
	}
	if err != nil {
		return nil, &SettingsError{Path: fs.path, Op: "open", Err: err}
	}

	if err := yaml.Unmarshal(data, &fs.doc); err != nil {
		return nil, &SettingsError{Path: fs.path, Op: "parse", Err: err}
	}
	if fs.doc == nil {
		fs.doc = make(map[string]interface{})
	}

	section, ok := fs.doc[ModuleKey]
	if !ok {
		return fs.settings, nil
	}

	// Round-trip the section through YAML to decode it into the typed
	// settings root, then backfill whatever keys the stored copy predates.
	raw, err := yaml.Marshal(section)
	if err != nil {
		return nil, &SettingsError{Path: fs.path, Op: "parse", Err: err}
	}
	settings := &Settings{}
	if err := yaml.Unmarshal(raw, settings); err != nil {
		return nil, &SettingsError{Path: fs.path, Op: "parse", Err: err}
	}
	settings.FillDefaults()
	fs.settings = settings
	return settings, nil
}

// ScheduleSave arms (or re-arms) the debounced flush. Bursts of mutations
// collapse into one write.
func (fs *FileStore) ScheduleSave() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.timer != nil {
		fs.timer.Stop()
	}
	fs.timer = time.AfterFunc(fs.delay, func() {
		if err := fs.Flush(); err != nil {
			LogError("debounced settings save failed: %v", err)
		}
	})
}

// Flush writes the settings document now, cancelling any pending debounced
// save.
func (fs *FileStore) Flush() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.timer != nil {
		fs.timer.Stop()
		fs.timer = nil
	}
	if fs.settings == nil {
		return nil
	}
	if fs.doc == nil {
		fs.doc = make(map[string]interface{})
	}

	fs.settings.Lock()
	section, err := sectionValue(fs.settings)
	fs.settings.Unlock()
	if err != nil {
		return &SettingsError{Path: fs.path, Op: "write", Err: err}
	}
	fs.doc[ModuleKey] = section

	data, err := yaml.Marshal(fs.doc)
	if err != nil {
		return &SettingsError{Path: fs.path, Op: "write", Err: err}
	}
	if err := os.WriteFile(fs.path, data, 0644); err != nil {
		return &SettingsError{Path: fs.path, Op: "write", Err: err}
	}
	return nil
}

// sectionValue converts the typed settings root into a plain document value.
func sectionValue(s *Settings) (interface{}, error) {
	raw, err := yaml.Marshal(s)
	if err != nil {
		return nil, err
	}
	var value map[string]interface{}
	if err := yaml.Unmarshal(raw, &value); err != nil {
		return nil, err
	}
	return value, nil
}
