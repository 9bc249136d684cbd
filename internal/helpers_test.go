package internal

import (
	"fmt"
	"strings"

	"github.com/chaaruze/too-many-chats/internal/hosttree"
)

// scriptedPrompter is a Prompter with canned answers.
type scriptedPrompter struct {
	promptText string
	promptOK   bool
	confirmOK  bool
	notices    []string
}

func (p *scriptedPrompter) Prompt(title, initial string) (string, bool) {
	return p.promptText, p.promptOK
}

func (p *scriptedPrompter) Confirm(message string) bool {
	return p.confirmOK
}

func (p *scriptedPrompter) Notify(message string) {
	p.notices = append(p.notices, message)
}

// fixedOwner returns an owner resolver that always yields the given key.
func fixedOwner(key string) func() (string, bool) {
	return func() (string, bool) { return key, key != "" }
}

// noOwner is an owner resolver with no active character.
func noOwner() (string, bool) {
	return "", false
}

// fakeHost implements Host over a fixture dialog.
type fakeHost struct {
	doc       *hosttree.Document
	character Character
	handlers  map[string][]func()
	scriptedPrompter
}

func newFakeHost(doc *hosttree.Document, character Character) *fakeHost {
	return &fakeHost{
		doc:       doc,
		character: character,
		handlers:  make(map[string][]func()),
	}
}

func (h *fakeHost) Document() *hosttree.Document { return h.doc }

func (h *fakeHost) ActiveCharacter() (Character, bool) {
	if h.character.Name == "" && h.character.Avatar == "" {
		return Character{}, false
	}
	return h.character, true
}

func (h *fakeHost) Subscribe(event string, fn func()) {
	h.handlers[event] = append(h.handlers[event], fn)
}

func (h *fakeHost) emit(event string) {
	for _, fn := range h.handlers[event] {
		fn()
	}
}

// overlaySnapshot renders the overlay subtree into a comparable string:
// one line per folder header (name, count, caret) and one per row identity.
func overlaySnapshot(doc *hosttree.Document) string {
	overlay := doc.FindByID(OverlayID)
	if overlay == nil {
		return "<no overlay>"
	}

	var b strings.Builder
	for _, section := range overlay.Children() {
		switch {
		case section.HasClass("tmc_folder"):
			var header, body *hosttree.Node
			for _, child := range section.Children() {
				if child.HasClass("tmc_folder_header") {
					header = child
				}
				if child.HasClass("tmc_folder_body") {
					body = child
				}
			}
			var caret, name, count string
			for _, part := range header.Children() {
				switch {
				case part.HasClass("tmc_caret"):
					caret = part.Text()
				case part.HasClass("tmc_folder_name"):
					name = part.Text()
				case part.HasClass("tmc_count"):
					count = part.Text()
				}
			}
			fmt.Fprintf(&b, "folder %s %s %s visible=%v\n", name, count, caret, body.Visible())
			for _, row := range body.Children() {
				fmt.Fprintf(&b, "  row %s\n", row.Attr(IdentityAttr))
			}
		case section.HasClass("tmc_uncategorized"):
			b.WriteString("uncategorized\n")
			for _, row := range section.Children() {
				fmt.Fprintf(&b, "  row %s\n", row.Attr(IdentityAttr))
			}
		}
	}
	return b.String()
}

// rawRows returns the dialog's raw (non-clone) chat rows.
func rawRows(dialog *hosttree.Node) []*hosttree.Node {
	return dialog.FindAll(func(n *hosttree.Node) bool {
		return n.HasClass(ItemClass) && !n.HasClass(CloneClass)
	})
}

// cloneRows returns the overlay's cloned chat rows.
func cloneRows(doc *hosttree.Document) []*hosttree.Node {
	overlay := doc.FindByID(OverlayID)
	if overlay == nil {
		return nil
	}
	return overlay.FindAll(func(n *hosttree.Node) bool {
		return n.HasClass(CloneClass)
	})
}

// newTestRig assembles store, menu and renderer over a fixture dialog.
func newTestRig(owner string, identities ...string) (*hosttree.Document, *hosttree.Node, *FolderStore, *ShadowRenderer, *ContextMenu, *scriptedPrompter) {
	doc, dialog := BuildChatDialog(identities...)
	prompt := &scriptedPrompter{confirmOK: true}
	store := NewFolderStore(DefaultSettings(), fixedOwner(owner), nil, nil, prompt.Notify)
	menu := NewContextMenu(doc, store, prompt)
	renderer := NewShadowRenderer(doc, store, menu, prompt)
	return doc, dialog, store, renderer, menu, prompt
}
