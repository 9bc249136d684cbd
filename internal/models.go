package internal

import "sync"

// ModuleKey is the fixed key under which this module's settings live inside
// the host's settings document. Sibling keys belong to other modules and are
// preserved untouched.
const ModuleKey = "tooManyChats"

// SettingsVersion is written into newly created settings.
const SettingsVersion = "1.0"

// DefaultFolderName is used when a folder is created with a blank name.
const DefaultFolderName = "New Folder"

// UncategorizedID is the synthetic bucket for chats not assigned to any
// folder. It never has a Folder record.
const UncategorizedID = "uncategorized"

// EventChatChanged is the host event emitted whenever the active chat list
// may have changed.
const EventChatChanged = "chat_id_changed"

// Element vocabulary of the host's chat-selection dialog and of the overlay
// this module injects next to it.
const (
	DialogID     = "select_chat_popup"
	TitleClass   = "popup_title"
	ItemClass    = "select_chat_block"
	IdentityAttr = "file_name"

	OverlayID      = "tmc_folder_view"
	CreateFolderID = "tmc_create_folder"
	MenuID         = "tmc_folder_menu"
	HiddenClass    = "tmc_hidden"
	CloneClass     = "tmc_clone"
)

// Folder is one user-defined chat folder. Chats holds item identities, not
// element references; identities that no longer exist upstream are simply
// skipped at projection time.
type Folder struct {
	ID        string   `json:"id" yaml:"id"`
	Name      string   `json:"name" yaml:"name"`
	Chats     []string `json:"chats" yaml:"chats"`
	Collapsed bool     `json:"collapsed" yaml:"collapsed"`
	Order     int      `json:"order" yaml:"order"`
}

// Settings is the persisted root of this module's state: folder records plus
// the per-character ordering of folder ids. Every folder id in
// CharacterFolders has a record in Folders, and appears in exactly one
// character's list.
//
// The maps are shared between the folder store's mutations and the debounced
// persistence flush that marshals them from a timer goroutine; both sides
// hold the lock.
type Settings struct {
	mu sync.Mutex

	Folders          map[string]*Folder  `json:"folders" yaml:"folders"`
	CharacterFolders map[string][]string `json:"characterFolders" yaml:"characterFolders"`
	Version          string              `json:"version" yaml:"version"`
}

// Lock acquires the settings lock.
func (s *Settings) Lock() {
	s.mu.Lock()
}

// Unlock releases the settings lock.
func (s *Settings) Unlock() {
	s.mu.Unlock()
}

// DefaultSettings returns a fresh settings root.
func DefaultSettings() *Settings {
	return &Settings{
		Folders:          make(map[string]*Folder),
		CharacterFolders: make(map[string][]string),
		Version:          SettingsVersion,
	}
}

// FillDefaults backfills any missing top-level key so older persisted
// settings keep working as the schema grows.
func (s *Settings) FillDefaults() {
	if s.Folders == nil {
		s.Folders = make(map[string]*Folder)
	}
	if s.CharacterFolders == nil {
		s.CharacterFolders = make(map[string][]string)
	}
	if s.Version == "" {
		s.Version = SettingsVersion
	}
}
