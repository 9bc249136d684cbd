package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/chaaruze/too-many-chats/internal"
	"github.com/chaaruze/too-many-chats/testutil"
)

// runCommand executes the root command with the given args against a
// settings file under a temp dir, resetting flag state afterwards.
func runCommand(t *testing.T, settings string, args ...string) (string, error) {
	t.Helper()

	full := append([]string{"--settings", settings}, args...)
	rootCmd.SetArgs(full)
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)

	err := rootCmd.Execute()

	// Persistent flags keep their values between Execute calls; reset the
	// ones tests vary.
	settingsPath = ""
	characterKey = ""
	storeBackend = "yaml"
	return stdout.String() + stderr.String(), err
}

func TestRootCommand(t *testing.T) {
	settings := filepath.Join(testutil.CreateTempDir(t), "settings.yaml")

	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{
			name:    "version flag",
			args:    []string{"--version"},
			wantErr: false,
		},
		{
			name:    "help flag",
			args:    []string{"--help"},
			wantErr: false,
		},
		{
			name:    "unknown backend",
			args:    []string{"--store", "postgres", "-c", "alice", "list"},
			wantErr: true,
		},
		{
			name:    "missing character",
			args:    []string{"list"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCommand(t, settings, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Errorf("Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateAssignListWorkflow(t *testing.T) {
	settings := filepath.Join(testutil.CreateTempDir(t), "settings.yaml")

	if _, err := runCommand(t, settings, "-c", "alice", "create", "Story", "Arcs"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := runCommand(t, settings, "-c", "alice", "assign", "c1.jsonl", "Story Arcs"); err != nil {
		t.Fatalf("assign: %v", err)
	}

	// The layout survived both invocations through the settings file.
	store := internal.NewFileStore(settings)
	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	ids := loaded.CharacterFolders["alice"]
	if len(ids) != 1 {
		t.Fatalf("alice owns %d folders, want 1", len(ids))
	}
	f := loaded.Folders[ids[0]]
	if f.Name != "Story Arcs" {
		t.Errorf("folder name = %q", f.Name)
	}
	if len(f.Chats) != 1 || f.Chats[0] != "c1.jsonl" {
		t.Errorf("folder chats = %v", f.Chats)
	}

	if _, err := runCommand(t, settings, "-c", "alice", "list"); err != nil {
		t.Errorf("list: %v", err)
	}
}

func TestAssignToUncategorized(t *testing.T) {
	settings := filepath.Join(testutil.CreateTempDir(t), "settings.yaml")

	if _, err := runCommand(t, settings, "-c", "alice", "create", "Arcs"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := runCommand(t, settings, "-c", "alice", "assign", "c1.jsonl", "Arcs"); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if _, err := runCommand(t, settings, "-c", "alice", "assign", "c1.jsonl", "uncategorized"); err != nil {
		t.Fatalf("unassign: %v", err)
	}

	loaded, err := internal.NewFileStore(settings).Load()
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range loaded.Folders {
		if len(f.Chats) != 0 {
			t.Errorf("folder %q still claims %v", f.Name, f.Chats)
		}
	}
}

func TestRenameAndDeleteCommands(t *testing.T) {
	settings := filepath.Join(testutil.CreateTempDir(t), "settings.yaml")

	if _, err := runCommand(t, settings, "-c", "alice", "create", "Old"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := runCommand(t, settings, "-c", "alice", "rename", "Old", "New"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if _, err := runCommand(t, settings, "-c", "alice", "delete", "New", "--force"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	loaded, err := internal.NewFileStore(settings).Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Folders) != 0 {
		t.Errorf("folders after delete: %v", loaded.Folders)
	}
}

func TestSQLiteBackendWorkflow(t *testing.T) {
	settings := filepath.Join(testutil.CreateTempDir(t), "settings.db")

	if _, err := runCommand(t, settings, "--store", "sqlite", "-c", "alice", "create", "Arcs"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := runCommand(t, settings, "--store", "sqlite", "-c", "alice", "list"); err != nil {
		t.Fatalf("list: %v", err)
	}

	store, err := internal.OpenSQLiteStore(settings)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	loaded, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.CharacterFolders["alice"]) != 1 {
		t.Errorf("alice owns %d folders, want 1", len(loaded.CharacterFolders["alice"]))
	}
}

func TestResolveFolder(t *testing.T) {
	folders := internal.NewFolderStore(internal.DefaultSettings(),
		func() (string, bool) { return "alice", true }, nil, nil, nil)
	arcsID, _ := folders.CreateFolder("Arcs")
	folders.CreateFolder("Ideas")

	if f, err := resolveFolder(folders, arcsID); err != nil || f.ID != arcsID {
		t.Errorf("exact id: %v, %v", f, err)
	}
	if f, err := resolveFolder(folders, arcsID[:8]); err != nil || f.ID != arcsID {
		t.Errorf("id prefix: %v, %v", f, err)
	}
	if f, err := resolveFolder(folders, "Arcs"); err != nil || f.ID != arcsID {
		t.Errorf("exact name: %v, %v", f, err)
	}
	if _, err := resolveFolder(folders, "nope"); err == nil {
		t.Error("unknown argument resolved")
	}
}
