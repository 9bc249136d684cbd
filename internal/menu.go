package internal

import (
	"github.com/chaaruze/too-many-chats/internal/hosttree"
)

const activeMark = "● "

// ContextMenu is the transient folder-assignment menu opened from a cloned
// chat row. Only one instance exists at a time; any earlier one is removed
// before a new one opens. It dismisses itself on the first click outside its
// bounds. That listener is attached after the opening dispatch, so the click
// that opened the menu cannot immediately close it.
type ContextMenu struct {
	doc    *hosttree.Document
	store  *FolderStore
	prompt Prompter

	node        *hosttree.Node
	removeClick func()
}

// NewContextMenu creates the menu controller.
func NewContextMenu(doc *hosttree.Document, store *FolderStore, prompt Prompter) *ContextMenu {
	return &ContextMenu{
		doc:    doc,
		store:  store,
		prompt: prompt,
	}
}

// Open shows the assignment menu for one item identity: every folder of the
// current owner (the one holding the item marked), uncategorized, and a
// "new folder" action that creates a folder and assigns the item in one go.
func (m *ContextMenu) Open(identity string) {
	m.Close()

	menu := hosttree.NewElement("div")
	menu.SetAttr("id", MenuID)
	menu.SetAttr(IdentityAttr, identity)

	current, assigned := m.store.FolderOf(identity)

	for _, f := range m.store.FoldersForOwner() {
		folderID := f.ID
		label := "  " + f.Name
		if assigned && folderID == current {
			label = activeMark + f.Name
		}
		item := menuItem(label, func() {
			m.store.MoveChatToFolder(identity, folderID)
			m.Close()
		})
		menu.Append(item)
	}

	uncatLabel := "  Uncategorized"
	if !assigned {
		uncatLabel = activeMark + "Uncategorized"
	}
	menu.Append(menuItem(uncatLabel, func() {
		m.store.MoveChatToFolder(identity, UncategorizedID)
		m.Close()
	}))

	menu.Append(menuItem("  + New folder", func() {
		if name, ok := m.prompt.Prompt("New folder name", ""); ok {
			if id, created := m.store.CreateFolder(name); created {
				m.store.MoveChatToFolder(identity, id)
			}
		}
		m.Close()
	}))

	m.doc.Root().Append(menu)
	m.node = menu
	m.removeClick = m.doc.OnAnyClick(func(target *hosttree.Node) {
		if !within(menu, target) {
			m.Close()
		}
	})
}

// Close removes the menu, if open, and its outside-click listener.
func (m *ContextMenu) Close() {
	if m.removeClick != nil {
		m.removeClick()
		m.removeClick = nil
	}
	if m.node != nil {
		m.node.Detach()
		m.node = nil
	}
}

// IsOpen reports whether a menu instance is currently shown.
func (m *ContextMenu) IsOpen() bool {
	return m.node != nil
}

func menuItem(label string, onClick func()) *hosttree.Node {
	item := hosttree.NewElement("div")
	item.AddClass("tmc_menu_item")
	item.SetText(label)
	item.SetOnClick(onClick)
	return item
}

// within reports whether target is the node or one of its descendants.
func within(node, target *hosttree.Node) bool {
	for n := target; n != nil; n = n.Parent() {
		if n == node {
			return true
		}
	}
	return false
}
