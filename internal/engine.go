package internal

import (
	"github.com/chaaruze/too-many-chats/internal/hosttree"
)

// Host is the surface this module consumes from the embedding application:
// its element tree, the active character, a named-event subscription
// mechanism, and modal prompts. The module reads the host's dialog subtree
// and prepends to it, but never reorders or removes what the host rendered.
type Host interface {
	Document() *hosttree.Document
	ActiveCharacter() (Character, bool)
	Subscribe(event string, fn func())
	Prompter
}

// Engine wires the folder store, projection, shadow renderer, scheduler,
// watcher and context menu over a host and a settings store.
type Engine struct {
	host     Host
	doc      *hosttree.Document
	storage  SettingsStore
	folders  *FolderStore
	menu     *ContextMenu
	renderer *ShadowRenderer
	rebuild  *Rebuilder
	watcher  *ChangeWatcher
}

// NewEngine loads settings from the store and assembles the components. The
// engine does nothing until Attach is called.
func NewEngine(host Host, storage SettingsStore) (*Engine, error) {
	settings, err := storage.Load()
	if err != nil {
		return nil, err
	}

	e := &Engine{
		host:    host,
		doc:     host.Document(),
		storage: storage,
	}

	owner := func() (string, bool) {
		ch, ok := host.ActiveCharacter()
		if !ok {
			return "", false
		}
		key := OwnerKey(ch)
		return key, key != ""
	}

	e.folders = NewFolderStore(settings, owner, storage.ScheduleSave, func() { e.rebuild.Request() }, host.Notify)
	e.menu = NewContextMenu(e.doc, e.folders, host)
	e.renderer = NewShadowRenderer(e.doc, e.folders, e.menu, host)
	e.rebuild = NewRebuilder(e.renderer.Rebuild)
	e.watcher = NewChangeWatcher(e.doc, e.rebuild)
	return e, nil
}

// Attach subscribes the change watcher to both trigger sources and requests
// the initial rebuild.
func (e *Engine) Attach() {
	e.watcher.Start(e.host.Subscribe)
	e.rebuild.Request()
	LogInfo("folder overlay attached")
}

// Detach cancels any pending rebuild. In-flight passes run to completion;
// they cannot be cancelled, only awaited.
func (e *Engine) Detach() {
	e.rebuild.Stop()
	e.menu.Close()
}

// Folders exposes the folder store, for programmatic use alongside the
// overlay (the CLI manages folders through it).
func (e *Engine) Folders() *FolderStore {
	return e.folders
}

// Menu exposes the context-menu controller.
func (e *Engine) Menu() *ContextMenu {
	return e.menu
}

// RequestRebuild schedules a debounced rebuild, same as any other trigger.
func (e *Engine) RequestRebuild() {
	e.rebuild.Request()
}

// RebuildNow runs a rebuild pass synchronously, bypassing the debounce but
// not the single-flight guard.
func (e *Engine) RebuildNow() {
	e.rebuild.Rebuild()
}

// Scheduler exposes the rebuild scheduler's state machine.
func (e *Engine) Scheduler() *Rebuilder {
	return e.rebuild
}
