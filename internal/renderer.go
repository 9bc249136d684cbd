package internal

import (
	"fmt"

	"github.com/chaaruze/too-many-chats/internal/hosttree"
)

// Prompter is the host's modal input surface: text prompts, confirmations
// and non-blocking notices.
type Prompter interface {
	Prompt(title, initial string) (string, bool)
	Confirm(message string) bool
	Notify(message string)
}

// Caret glyphs on folder headers.
const (
	caretCollapsed = "▶"
	caretExpanded  = "▼"
)

// ShadowRenderer builds the folder-grouped overlay over the host's raw chat
// list. The raw rows stay exactly where the host put them, hidden in place;
// the overlay is a separate subtree of cloned rows that forward interaction
// back to the originals. Rebuilding is wholesale: cheap enough to redo on
// every trigger, idempotent, and self-healing after an aborted pass.
type ShadowRenderer struct {
	doc    *hosttree.Document
	store  *FolderStore
	menu   *ContextMenu
	prompt Prompter
}

// NewShadowRenderer creates a renderer over the given document and store.
func NewShadowRenderer(doc *hosttree.Document, store *FolderStore, menu *ContextMenu, prompt Prompter) *ShadowRenderer {
	return &ShadowRenderer{
		doc:    doc,
		store:  store,
		menu:   menu,
		prompt: prompt,
	}
}

// Rebuild runs one full shadow pass. With the dialog closed or no raw items
// rendered it is a silent no-op, leaving any existing overlay as-is. Errors
// surface to the scheduler boundary and are suppressed there.
//
// The pass holds the document lock throughout: rebuilds run on the
// scheduler's timer goroutine while the host may rewrite the tree from its
// own.
func (r *ShadowRenderer) Rebuild() error {
	r.doc.Lock()
	defer r.doc.Unlock()

	dialog := r.doc.FindByID(DialogID)
	if dialog == nil || !dialog.Visible() {
		return nil
	}

	raws := dialog.FindAll(func(n *hosttree.Node) bool {
		return n.HasClass(ItemClass) && !n.HasClass(CloneClass)
	})
	if len(raws) == 0 {
		return nil
	}

	// The host keeps references and handlers on these exact nodes: hide
	// them in place, never detach.
	byIdentity := make(map[string]*hosttree.Node, len(raws))
	var order []string
	for _, raw := range raws {
		identity := ItemIdentity(raw)
		if identity == "" {
			continue
		}
		if _, seen := byIdentity[identity]; !seen {
			byIdentity[identity] = raw
			order = append(order, identity)
		}
		raw.AddClass(HiddenClass)
		raw.Hide()
	}
	if len(order) == 0 {
		return &RebuildError{Step: "collect", Err: fmt.Errorf("no identifiable chat rows")}
	}

	container := byIdentity[order[0]].Parent()
	if container == nil {
		return &RebuildError{Step: "collect", Err: fmt.Errorf("chat rows have no container")}
	}

	overlay := r.doc.FindByID(OverlayID)
	if overlay == nil {
		overlay = hosttree.NewElement("div")
		overlay.SetAttr("id", OverlayID)
		container.Prepend(overlay)
	} else {
		overlay.RemoveChildren()
	}

	proj := BuildProjection(r.store.FoldersForOwner(), order)
	for _, pf := range proj.Folders {
		r.renderFolderSection(overlay, pf, byIdentity)
	}
	if len(proj.Uncategorized) > 0 {
		r.renderUncategorized(overlay, proj.Uncategorized, byIdentity)
	}

	r.injectCreateControl(dialog)
	return nil
}

// renderFolderSection renders one folder: a header with caret, name, member
// count and rename/delete affordances, and a body of cloned member rows.
func (r *ShadowRenderer) renderFolderSection(overlay *hosttree.Node, pf ProjectedFolder, byIdentity map[string]*hosttree.Node) {
	folderID := pf.ID

	section := hosttree.NewElement("div")
	section.AddClass("tmc_folder")

	header := hosttree.NewElement("div")
	header.AddClass("tmc_folder_header")
	header.SetAttr("folder_id", folderID)

	caret := hosttree.NewElement("span")
	caret.AddClass("tmc_caret")
	if pf.Collapsed {
		caret.SetText(caretCollapsed)
	} else {
		caret.SetText(caretExpanded)
	}

	name := hosttree.NewElement("span")
	name.AddClass("tmc_folder_name")
	name.SetText(pf.Name)

	count := hosttree.NewElement("span")
	count.AddClass("tmc_count")
	count.SetText(fmt.Sprintf("(%d)", len(pf.Members)))

	body := hosttree.NewElement("div")
	body.AddClass("tmc_folder_body")
	if pf.Collapsed {
		body.Hide()
	}
	for _, identity := range pf.Members {
		raw, ok := byIdentity[identity]
		if !ok {
			continue
		}
		body.Append(r.cloneRow(raw, identity))
	}

	// Collapse toggles patch the caret and body directly; the persisted flip
	// keeps the next full rebuild consistent with what is on screen.
	header.SetOnClick(func() {
		collapsed := r.store.ToggleCollapse(folderID)
		if collapsed {
			caret.SetText(caretCollapsed)
			body.Hide()
		} else {
			caret.SetText(caretExpanded)
			body.Show()
		}
	})

	rename := hosttree.NewElement("span")
	rename.AddClass("tmc_rename")
	rename.SetText("✎")
	rename.SetOnClick(func() {
		if newName, ok := r.prompt.Prompt("Rename folder", pf.Name); ok {
			r.store.RenameFolder(folderID, newName)
		}
	})

	del := hosttree.NewElement("span")
	del.AddClass("tmc_delete")
	del.SetText("\U0001f5d1") // 🗑
	del.SetOnClick(func() {
		if r.prompt.Confirm(fmt.Sprintf("Delete folder %q? Its chats become uncategorized.", pf.Name)) {
			r.store.DeleteFolder(folderID)
		}
	})

	header.Append(caret)
	header.Append(name)
	header.Append(count)
	header.Append(rename)
	header.Append(del)
	section.Append(header)
	section.Append(body)
	overlay.Append(section)
}

// renderUncategorized renders the synthetic bucket of unassigned rows.
func (r *ShadowRenderer) renderUncategorized(overlay *hosttree.Node, identities []string, byIdentity map[string]*hosttree.Node) {
	section := hosttree.NewElement("div")
	section.AddClass("tmc_uncategorized")
	for _, identity := range identities {
		raw, ok := byIdentity[identity]
		if !ok {
			continue
		}
		section.Append(r.cloneRow(raw, identity))
	}
	overlay.Append(section)
}

// cloneRow builds the overlay's stand-in for one raw row: a structural copy
// keeping the host's styling, with interaction rewired. Primary activation
// forwards to the hidden original so the host's own selection logic runs;
// secondary activation opens the folder-assignment menu instead of any host
// default.
func (r *ShadowRenderer) cloneRow(raw *hosttree.Node, identity string) *hosttree.Node {
	clone := raw.Clone()
	clone.RemoveClass(HiddenClass)
	clone.AddClass(CloneClass)
	clone.Show()
	clone.SetOnClick(func() {
		raw.Click()
	})
	clone.SetOnContextMenu(func() {
		r.menu.Open(identity)
	})
	return clone
}

// injectCreateControl adds the "create folder" affordance to the dialog
// title once per dialog instance.
func (r *ShadowRenderer) injectCreateControl(dialog *hosttree.Node) {
	if r.doc.FindByID(CreateFolderID) != nil {
		return
	}
	title := dialog.Find(func(n *hosttree.Node) bool { return n.HasClass(TitleClass) })
	if title == nil {
		LogDebug("dialog has no title region; create-folder control not injected")
		return
	}

	btn := hosttree.NewElement("span")
	btn.SetAttr("id", CreateFolderID)
	btn.AddClass("tmc_create")
	btn.SetText("\U0001f4c1+") // 📁+
	btn.SetOnClick(func() {
		if name, ok := r.prompt.Prompt("New folder name", ""); ok {
			r.store.CreateFolder(name)
		}
	})
	title.Append(btn)
}
