package sthost

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/chaaruze/too-many-chats/internal"
	"github.com/chaaruze/too-many-chats/internal/hosttree"
	"github.com/chaaruze/too-many-chats/testutil"
)

func alice() internal.Character {
	return internal.Character{Name: "Alice", Avatar: "alice.png"}
}

func chatRows(h *Host) []*hosttree.Node {
	return h.Document().Root().FindAll(func(n *hosttree.Node) bool {
		return n.HasClass(internal.ItemClass)
	})
}

func TestScanChats(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	testutil.WriteChatFiles(t, dir, "Alice", "beta.jsonl", "alpha.jsonl", "notes.txt")

	h := New(dir, alice())
	chats, err := h.ScanChats()
	if err != nil {
		t.Fatalf("ScanChats() error: %v", err)
	}
	// Sorted, non-chat files skipped.
	want := []string{"alpha.jsonl", "beta.jsonl"}
	if len(chats) != len(want) {
		t.Fatalf("ScanChats() = %v, want %v", chats, want)
	}
	for i := range want {
		if chats[i] != want[i] {
			t.Errorf("chats[%d] = %q, want %q", i, chats[i], want[i])
		}
	}
}

func TestScanChatsMissingCharacterDir(t *testing.T) {
	h := New(testutil.CreateTempDir(t), alice())
	chats, err := h.ScanChats()
	if err != nil {
		t.Fatalf("ScanChats() error: %v", err)
	}
	if len(chats) != 0 {
		t.Errorf("ScanChats() = %v for character with no directory", chats)
	}
}

func TestOpenChatDialogRendersRows(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	testutil.WriteChatFiles(t, dir, "Alice", "chat_1.jsonl")

	h := New(dir, alice())
	if h.DialogOpen() {
		t.Fatal("dialog starts open")
	}
	if err := h.OpenChatDialog(); err != nil {
		t.Fatalf("OpenChatDialog() error: %v", err)
	}
	if !h.DialogOpen() {
		t.Fatal("dialog not open")
	}

	rows := chatRows(h)
	if len(rows) != 1 {
		t.Fatalf("rendered %d rows, want 1", len(rows))
	}
	if got := rows[0].Attr(internal.IdentityAttr); got != "chat_1.jsonl" {
		t.Errorf("row identity = %q", got)
	}
	if got := rows[0].Text(); got != "chat_1" {
		t.Errorf("row text = %q, want extension stripped", got)
	}

	h.CloseChatDialog()
	if h.DialogOpen() {
		t.Error("dialog still open after close")
	}
}

func TestRenderChatListDiscardsForeignNodes(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	testutil.WriteChatFiles(t, dir, "Alice", "chat_1.jsonl")

	h := New(dir, alice())
	if err := h.OpenChatDialog(); err != nil {
		t.Fatal(err)
	}

	// Anything placed inside the container is gone after a re-render,
	// exactly like the host's wholesale rewrite.
	overlay := hosttree.NewElement("div")
	overlay.SetAttr("id", internal.OverlayID)
	chatRows(h)[0].Parent().Prepend(overlay)

	if err := h.RenderChatList(); err != nil {
		t.Fatal(err)
	}
	if h.Document().FindByID(internal.OverlayID) != nil {
		t.Error("re-render kept a foreign node")
	}
	if len(chatRows(h)) != 1 {
		t.Errorf("re-render produced %d rows, want 1", len(chatRows(h)))
	}
}

func TestRowClickSelectsChat(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	testutil.WriteChatFiles(t, dir, "Alice", "a.jsonl", "b.jsonl")

	h := New(dir, alice())
	if err := h.OpenChatDialog(); err != nil {
		t.Fatal(err)
	}

	chatRows(h)[1].Click()
	if got := h.Selected(); got != "b.jsonl" {
		t.Errorf("Selected() = %q, want b.jsonl", got)
	}
}

func TestSetActiveCharacterEmitsChange(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	testutil.WriteChatFiles(t, dir, "Bob", "bob_1.jsonl")

	h := New(dir, alice())
	events := 0
	h.Subscribe(internal.EventChatChanged, func() { events++ })
	if err := h.OpenChatDialog(); err != nil {
		t.Fatal(err)
	}

	h.SetActiveCharacter(internal.Character{Name: "Bob", Avatar: "bob.png"})
	if events != 1 {
		t.Errorf("emitted %d chat-changed events, want 1", events)
	}
	rows := chatRows(h)
	if len(rows) != 1 || rows[0].Attr(internal.IdentityAttr) != "bob_1.jsonl" {
		t.Errorf("rows after switch: %d", len(rows))
	}
}

func TestPromptDefaults(t *testing.T) {
	h := New(testutil.CreateTempDir(t), alice())

	if _, ok := h.Prompt("name", ""); ok {
		t.Error("unscripted prompt should decline")
	}
	if !h.Confirm("sure?") {
		t.Error("unscripted confirmation should accept")
	}

	h.PromptFunc = func(title, initial string) (string, bool) { return "Arcs", true }
	h.ConfirmFunc = func(message string) bool { return false }
	if got, ok := h.Prompt("name", ""); !ok || got != "Arcs" {
		t.Errorf("scripted prompt = %q, %v", got, ok)
	}
	if h.Confirm("sure?") {
		t.Error("scripted confirmation should decline")
	}

	h.Notify("no character")
	if got := h.Notices(); len(got) != 1 || got[0] != "no character" {
		t.Errorf("Notices() = %v", got)
	}
}

func TestWatchReactsToChatFiles(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	charDir := filepath.Join(dir, "Alice")
	testutil.WriteChatFiles(t, dir, "Alice", "a.jsonl")

	h := New(dir, alice())
	if err := h.OpenChatDialog(); err != nil {
		t.Fatal(err)
	}
	events := make(chan struct{}, 16)
	h.Subscribe(internal.EventChatChanged, func() { events <- struct{}{} })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- h.Watch(ctx) }()

	// Give the watcher a moment to arm before touching the directory.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(charDir, "b.jsonl"), []byte("{}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-events:
	case <-time.After(3 * time.Second):
		t.Fatal("no chat-changed event after file creation")
	}
	if len(chatRows(h)) != 2 {
		t.Errorf("rendered %d rows after file creation, want 2", len(chatRows(h)))
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Watch() returned %v, want context.Canceled", err)
	}
}

func TestConcurrentRenderAndRebuild(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	testutil.WriteChatFiles(t, dir, "Alice", "chat_1.jsonl", "chat_2.jsonl", "chat_3.jsonl")

	h := New(dir, alice())
	store := internal.NewFileStore(filepath.Join(testutil.CreateTempDir(t), "settings.yaml"))
	engine, err := internal.NewEngine(h, store)
	if err != nil {
		t.Fatalf("NewEngine() error: %v", err)
	}
	defer engine.Detach()

	if err := h.OpenChatDialog(); err != nil {
		t.Fatal(err)
	}
	id, _ := engine.Folders().CreateFolder("Arcs")
	engine.Folders().MoveChatToFolder("chat_1.jsonl", id)

	// Rebuild passes run on timer goroutines while the host rewrites the
	// same tree from its own. Every side serializes on the document lock,
	// so this must stay clean under the race detector.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			engine.RebuildNow()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			if err := h.RenderChatList(); err != nil {
				t.Errorf("RenderChatList() error: %v", err)
				return
			}
		}
	}()

	doc := h.Document()
	for i := 0; i < 50; i++ {
		doc.Lock()
		rows := doc.Root().FindAll(func(n *hosttree.Node) bool {
			return n.HasClass(internal.ItemClass)
		})
		doc.Unlock()
		if len(rows) == 0 {
			t.Fatal("chat rows vanished mid-flight")
		}
	}
	wg.Wait()

	engine.RebuildNow()
	doc.Lock()
	rows := len(chatRows(h))
	doc.Unlock()
	if rows == 0 {
		t.Error("no chat rows after concurrent rebuilds and re-renders")
	}
}
