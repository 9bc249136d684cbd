package sthost

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/chaaruze/too-many-chats/internal"
)

// Watch mirrors filesystem changes in the active character's chat directory
// into host behavior: any .jsonl create, write, rename or removal re-renders
// the raw chat list and emits the chat-changed event. Blocks until the
// context is cancelled or the watcher fails.
func (h *Host) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Join(h.chatsDir, h.character.Name)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	internal.LogInfo("watching %s", dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(event.Name, ".jsonl") {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			internal.LogDebug("chat file event: %s", event)
			if err := h.RenderChatList(); err != nil {
				internal.LogWarn("re-render after file event failed: %v", err)
				continue
			}
			h.Emit(internal.EventChatChanged)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			internal.LogWarn("watch error: %v", err)
		}
	}
}
