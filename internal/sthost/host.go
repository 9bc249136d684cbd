// Package sthost simulates the embedding chat application for tests and the
// watch command: it renders a chat-selection dialog from a directory of
// .jsonl chat files exactly the way the host would (flat raw rows, rewritten
// wholesale on every render), emits the chat-changed event, and answers the
// engine's prompts.
package sthost

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/chaaruze/too-many-chats/internal"
	"github.com/chaaruze/too-many-chats/internal/hosttree"
)

// Host implements internal.Host over a chats directory laid out as
// <dir>/<character>/<chat>.jsonl.
type Host struct {
	mu        sync.Mutex
	doc       *hosttree.Document
	chatsDir  string
	character internal.Character
	handlers  map[string][]func()

	dialog    *hosttree.Node
	container *hosttree.Node
	selected  string
	notices   []string

	// PromptFunc and ConfirmFunc script the modal surface. Unset, prompts
	// are declined and confirmations accepted.
	PromptFunc  func(title, initial string) (string, bool)
	ConfirmFunc func(message string) bool
}

// New creates a host over the given chats directory and active character.
// The dialog starts closed.
func New(chatsDir string, character internal.Character) *Host {
	h := &Host{
		doc:       hosttree.NewDocument(),
		chatsDir:  chatsDir,
		character: character,
		handlers:  make(map[string][]func()),
	}

	h.dialog = hosttree.NewElement("div")
	h.dialog.SetAttr("id", internal.DialogID)
	h.dialog.Hide()

	title := hosttree.NewElement("div")
	title.AddClass(internal.TitleClass)
	title.SetText("Select Chat")

	h.container = hosttree.NewElement("div")
	h.container.AddClass("chat_block_container")

	h.dialog.Append(title)
	h.dialog.Append(h.container)
	h.doc.Root().Append(h.dialog)
	return h
}

// Document returns the host's element tree.
func (h *Host) Document() *hosttree.Document {
	return h.doc
}

// ActiveCharacter returns the current character.
func (h *Host) ActiveCharacter() (internal.Character, bool) {
	if h.character.Name == "" && h.character.Avatar == "" {
		return internal.Character{}, false
	}
	return h.character, true
}

// SetActiveCharacter switches the character, re-renders the list and emits
// the chat-changed event, as the host does on a character switch.
func (h *Host) SetActiveCharacter(character internal.Character) {
	h.character = character
	if h.dialog.Visible() {
		h.RenderChatList()
	}
	h.Emit(internal.EventChatChanged)
}

// Subscribe registers a handler for a named host event.
func (h *Host) Subscribe(event string, fn func()) {
	h.handlers[event] = append(h.handlers[event], fn)
}

// Emit fires a named host event.
func (h *Host) Emit(event string) {
	for _, fn := range h.handlers[event] {
		fn()
	}
}

// Prompt asks for text input through the scripted prompt.
func (h *Host) Prompt(title, initial string) (string, bool) {
	if h.PromptFunc != nil {
		return h.PromptFunc(title, initial)
	}
	return "", false
}

// Confirm asks for confirmation through the scripted confirmer.
func (h *Host) Confirm(message string) bool {
	if h.ConfirmFunc != nil {
		return h.ConfirmFunc(message)
	}
	return true
}

// Notify records a non-blocking warning notification.
func (h *Host) Notify(message string) {
	internal.LogWarn("host notice: %s", message)
	h.notices = append(h.notices, message)
}

// Notices returns the notifications shown so far.
func (h *Host) Notices() []string {
	out := make([]string, len(h.notices))
	copy(out, h.notices)
	return out
}

// OpenChatDialog shows the dialog and renders the raw chat list into it.
func (h *Host) OpenChatDialog() error {
	h.dialog.Show()
	return h.RenderChatList()
}

// CloseChatDialog hides the dialog.
func (h *Host) CloseChatDialog() {
	h.dialog.Hide()
}

// DialogOpen reports whether the dialog is shown.
func (h *Host) DialogOpen() bool {
	return h.dialog.Visible()
}

// RenderChatList rewrites the raw chat rows from the chats directory, the
// way the host re-renders: all rows fresh and visible, previous contents
// (including any overlay) discarded.
func (h *Host) RenderChatList() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	chats, err := h.ScanChats()
	if err != nil {
		return err
	}

	// The watcher calls this from its own goroutine while rebuild passes
	// mutate the same tree from timer goroutines.
	h.doc.Lock()
	defer h.doc.Unlock()

	h.container.RemoveChildren()
	for _, chat := range chats {
		fileName := chat
		row := hosttree.NewElement("div")
		row.AddClass(internal.ItemClass)
		row.SetAttr(internal.IdentityAttr, fileName)
		row.SetText(strings.TrimSuffix(fileName, ".jsonl"))
		row.SetOnClick(func() {
			h.selected = fileName
		})
		h.container.Append(row)
	}
	return nil
}

// ScanChats lists the active character's chat file names, sorted.
func (h *Host) ScanChats() ([]string, error) {
	dir := filepath.Join(h.chatsDir, h.character.Name)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read chats dir: %w", err)
	}

	var chats []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".jsonl") {
			continue
		}
		chats = append(chats, entry.Name())
	}
	sort.Strings(chats)
	return chats, nil
}

// Selected returns the chat most recently activated through a row click,
// the one the real host would have opened.
func (h *Host) Selected() string {
	return h.selected
}
