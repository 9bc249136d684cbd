package internal

import (
	"github.com/chaaruze/too-many-chats/internal/hosttree"
)

// Test fixtures shared by the package tests. They build the same dialog
// shape the host simulator renders, without going through the filesystem.

// BuildChatDialog creates a document holding an open chat-selection dialog
// with one raw, visible row per identity.
func BuildChatDialog(identities ...string) (*hosttree.Document, *hosttree.Node) {
	doc := hosttree.NewDocument()

	dialog := hosttree.NewElement("div")
	dialog.SetAttr("id", DialogID)

	title := hosttree.NewElement("div")
	title.AddClass(TitleClass)
	title.SetText("Select Chat")
	dialog.Append(title)

	container := hosttree.NewElement("div")
	container.AddClass("chat_block_container")
	dialog.Append(container)

	for _, identity := range identities {
		container.Append(RawChatRow(identity))
	}

	doc.Root().Append(dialog)
	return doc, dialog
}

// RawChatRow creates one host-style raw chat row.
func RawChatRow(identity string) *hosttree.Node {
	row := hosttree.NewElement("div")
	row.AddClass(ItemClass)
	row.SetAttr(IdentityAttr, identity)
	row.SetText(identity)
	return row
}

// RerenderChatList rewrites the dialog's rows the way the host re-renders:
// everything fresh and visible, overlay and all previous children discarded.
func RerenderChatList(dialog *hosttree.Node, identities ...string) {
	container := dialog.Find(func(n *hosttree.Node) bool {
		return n.HasClass("chat_block_container")
	})
	container.RemoveChildren()
	for _, identity := range identities {
		container.Append(RawChatRow(identity))
	}
}
