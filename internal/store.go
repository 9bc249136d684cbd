package internal

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// FolderStore is the pure data layer over the persisted folder state. It has
// no element-tree awareness: mutations persist through the injected save
// trigger and signal the injected rebuild hook, nothing more.
//
// Every operation needs an active owner (character) key; with none
// resolvable, mutations warn and no-op. The settings lock is held while the
// maps are touched and released before the persistence hooks run.
type FolderStore struct {
	settings *Settings
	owner    func() (string, bool)
	persist  func()
	schedule func()
	warn     func(string)
	newID    func() string
}

// NewFolderStore creates a folder store over the given settings root.
// persist is the (debounced) save trigger, schedule requests a shadow-view
// rebuild, warn surfaces a non-blocking user notification. Any of the three
// may be nil.
func NewFolderStore(settings *Settings, owner func() (string, bool), persist, schedule func(), warn func(string)) *FolderStore {
	settings.FillDefaults()
	return &FolderStore{
		settings: settings,
		owner:    owner,
		persist:  persist,
		schedule: schedule,
		warn:     warn,
		newID:    uuid.NewString,
	}
}

// Settings returns the settings root the store operates on.
func (fs *FolderStore) Settings() *Settings {
	return fs.settings
}

func (fs *FolderStore) activeOwner() (string, bool) {
	if fs.owner == nil {
		return "", false
	}
	key, ok := fs.owner()
	if !ok || key == "" {
		return "", false
	}
	return key, true
}

func (fs *FolderStore) warnf(msg string) {
	LogWarn("%s", msg)
	if fs.warn != nil {
		fs.warn(msg)
	}
}

func (fs *FolderStore) saved() {
	if fs.persist != nil {
		fs.persist()
	}
}

func (fs *FolderStore) changed() {
	fs.saved()
	if fs.schedule != nil {
		fs.schedule()
	}
}

// CreateFolder allocates a new folder for the current owner and returns its
// id. A blank name becomes DefaultFolderName; the new folder sorts after all
// existing ones.
func (fs *FolderStore) CreateFolder(name string) (string, bool) {
	owner, ok := fs.activeOwner()
	if !ok {
		fs.warnf("select a character before creating folders")
		return "", false
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultFolderName
	}
	id := fs.newID()

	fs.settings.Lock()
	fs.settings.Folders[id] = &Folder{
		ID:    id,
		Name:  name,
		Chats: []string{},
		Order: len(fs.settings.CharacterFolders[owner]),
	}
	fs.settings.CharacterFolders[owner] = append(fs.settings.CharacterFolders[owner], id)
	fs.settings.Unlock()

	LogDebug("created folder %q (%s) for %s", name, id, owner)
	fs.changed()
	return id, true
}

// RenameFolder updates a folder's name. Unknown ids and blank names are
// no-ops.
func (fs *FolderStore) RenameFolder(id, name string) {
	if _, ok := fs.activeOwner(); !ok {
		fs.warnf("select a character before renaming folders")
		return
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}

	fs.settings.Lock()
	f, ok := fs.settings.Folders[id]
	if !ok {
		fs.settings.Unlock()
		return
	}
	f.Name = name
	fs.settings.Unlock()
	fs.changed()
}

// DeleteFolder removes a folder record and its entry in the current owner's
// list. Its chats are not reassigned; with no owning folder left they fall
// back to uncategorized at the next projection.
func (fs *FolderStore) DeleteFolder(id string) {
	owner, ok := fs.activeOwner()
	if !ok {
		fs.warnf("select a character before deleting folders")
		return
	}

	fs.settings.Lock()
	ids := fs.settings.CharacterFolders[owner]
	for i, fid := range ids {
		if fid == id {
			fs.settings.CharacterFolders[owner] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	delete(fs.settings.Folders, id)
	fs.settings.Unlock()
	fs.changed()
}

// ToggleCollapse flips a folder's collapsed state and persists it. No
// rebuild is scheduled: the renderer patches the existing header and body
// directly, and the state here keeps any later full rebuild consistent.
func (fs *FolderStore) ToggleCollapse(id string) bool {
	if _, ok := fs.activeOwner(); !ok {
		fs.warnf("select a character before collapsing folders")
		return false
	}

	fs.settings.Lock()
	f, ok := fs.settings.Folders[id]
	if !ok {
		fs.settings.Unlock()
		return false
	}
	f.Collapsed = !f.Collapsed
	collapsed := f.Collapsed
	fs.settings.Unlock()
	fs.saved()
	return collapsed
}

// MoveChatToFolder reassigns one item identity: it is removed from every
// folder the current owner has, then appended to the target if that is a
// real, existing folder. Passing UncategorizedID (or any unknown id) leaves
// the item unassigned. At most one folder per owner ever claims an identity.
func (fs *FolderStore) MoveChatToFolder(identity, targetID string) {
	owner, ok := fs.activeOwner()
	if !ok {
		fs.warnf("select a character before assigning chats")
		return
	}

	fs.settings.Lock()
	for _, fid := range fs.settings.CharacterFolders[owner] {
		f, ok := fs.settings.Folders[fid]
		if !ok {
			continue
		}
		for i := 0; i < len(f.Chats); i++ {
			if f.Chats[i] == identity {
				f.Chats = append(f.Chats[:i], f.Chats[i+1:]...)
				i--
			}
		}
	}

	if target, ok := fs.settings.Folders[targetID]; ok && targetID != UncategorizedID {
		target.Chats = append(target.Chats, identity)
	}
	fs.settings.Unlock()

	fs.changed()
}

// FoldersForOwner returns the current owner's folders sorted ascending by
// order. The sort is stable, so equal orders keep their stored relative
// position. Records missing from Folders or carrying an empty name are
// dropped.
func (fs *FolderStore) FoldersForOwner() []*Folder {
	owner, ok := fs.activeOwner()
	if !ok {
		LogDebug("no active character; folder list is empty")
		return nil
	}

	fs.settings.Lock()
	defer fs.settings.Unlock()

	var folders []*Folder
	for _, fid := range fs.settings.CharacterFolders[owner] {
		f, ok := fs.settings.Folders[fid]
		if !ok || f.Name == "" {
			continue
		}
		folders = append(folders, f)
	}
	sort.SliceStable(folders, func(i, j int) bool {
		return folders[i].Order < folders[j].Order
	})
	return folders
}

// FolderOf returns the id of the first folder in the owner's stored list
// that contains the identity.
func (fs *FolderStore) FolderOf(identity string) (string, bool) {
	owner, ok := fs.activeOwner()
	if !ok {
		return "", false
	}

	fs.settings.Lock()
	defer fs.settings.Unlock()

	for _, fid := range fs.settings.CharacterFolders[owner] {
		f, ok := fs.settings.Folders[fid]
		if !ok {
			continue
		}
		for _, chat := range f.Chats {
			if chat == identity {
				return fid, true
			}
		}
	}
	return "", false
}
