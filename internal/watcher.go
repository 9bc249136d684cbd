package internal

import (
	"github.com/chaaruze/too-many-chats/internal/hosttree"
)

// ChangeWatcher translates the two independent trigger sources into rebuild
// requests: the host's chat-changed event, and mutations anywhere in the
// document. The mutation path is guarded against feedback loops: a correctly
// completed rebuild leaves every raw row hidden and every overlay row marked
// as a clone, so its own mutations observe a stable tree and stop the cycle.
// Only a genuine host re-render, which resets raw rows to visible, re-arms
// it.
type ChangeWatcher struct {
	doc       *hosttree.Document
	rebuilder *Rebuilder
}

// NewChangeWatcher creates a watcher feeding the given scheduler.
func NewChangeWatcher(doc *hosttree.Document, rebuilder *Rebuilder) *ChangeWatcher {
	return &ChangeWatcher{
		doc:       doc,
		rebuilder: rebuilder,
	}
}

// Start subscribes both trigger sources. subscribe registers a handler for a
// named host event, the way the host's event bus does.
func (w *ChangeWatcher) Start(subscribe func(event string, fn func())) {
	if subscribe != nil {
		subscribe(EventChatChanged, w.rebuilder.Request)
	}
	w.doc.Observe(func() {
		if w.NeedsRebuild() {
			w.rebuilder.Request()
		}
	})
}

// NeedsRebuild reports whether the dialog currently shows raw, unshadowed
// state: it is open and either the overlay is missing or some raw non-clone
// row is visible.
func (w *ChangeWatcher) NeedsRebuild() bool {
	dialog := w.doc.FindByID(DialogID)
	if dialog == nil || !dialog.Visible() {
		return false
	}
	if w.doc.FindByID(OverlayID) == nil {
		return true
	}
	visibleRaw := dialog.Find(func(n *hosttree.Node) bool {
		return n.HasClass(ItemClass) && !n.HasClass(CloneClass) && n.Visible()
	})
	return visibleRaw != nil
}
