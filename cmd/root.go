package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/chaaruze/too-many-chats/internal"
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	settingsPath string
	storeBackend string
	characterKey string
	version      string = "dev"
	commit       string = "unknown"
	date         string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "too-many-chats",
	Short: "Organize chat sessions into collapsible folders",
	Long: `Group a character's flat chat list into user-defined collapsible folders,
without touching the chats themselves.

The folder layout lives in its own settings document (YAML file or SQLite
database); chats stay wherever the host application keeps them. The watch
command shadows a live chat directory: the raw list is hidden in place and a
folder-grouped overlay is rebuilt whenever the list changes.

Quick Start:
  too-many-chats --character alice create "Story Arcs"   # Create a folder
  too-many-chats --character alice assign c1.jsonl Story  # File a chat
  too-many-chats --character alice list                   # Show the layout
  too-many-chats --character alice watch ./chats          # Live overlay`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "", "Settings location (default ~/.too-many-chats/settings.yaml or .db)")
	rootCmd.PersistentFlags().StringVar(&storeBackend, "store", "yaml", "Settings backend: yaml or sqlite")
	rootCmd.PersistentFlags().StringVarP(&characterKey, "character", "c", "", "Character owning the folders")

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// openSettingsStore opens the configured settings backend. The returned
// closer flushes pending writes.
func openSettingsStore() (internal.SettingsStore, func() error, error) {
	path := settingsPath
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dir := filepath.Join(home, ".too-many-chats")
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create settings dir: %w", err)
		}
		if storeBackend == "sqlite" {
			path = filepath.Join(dir, "settings.db")
		} else {
			path = filepath.Join(dir, "settings.yaml")
		}
	}

	switch storeBackend {
	case "sqlite":
		store, err := internal.OpenSQLiteStore(path)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case "yaml":
		store := internal.NewFileStore(path)
		return store, store.Flush, nil
	default:
		return nil, nil, fmt.Errorf("unknown settings backend %q (want yaml or sqlite)", storeBackend)
	}
}

// requireCharacter resolves the owner key from the --character flag.
func requireCharacter() (func() (string, bool), error) {
	if characterKey == "" {
		return nil, fmt.Errorf("--character is required")
	}
	key := internal.OwnerKey(internal.Character{Name: characterKey})
	return func() (string, bool) { return key, true }, nil
}

// openFolderStore loads settings and builds a folder store for CLI use:
// persistence is explicit (flush on exit), no rebuild scheduling.
func openFolderStore() (*internal.FolderStore, func() error, error) {
	owner, err := requireCharacter()
	if err != nil {
		return nil, nil, err
	}
	store, closer, err := openSettingsStore()
	if err != nil {
		return nil, nil, err
	}
	settings, err := store.Load()
	if err != nil {
		closer()
		return nil, nil, err
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, msg) }
	folders := internal.NewFolderStore(settings, owner, nil, nil, warn)
	return folders, closer, nil
}

// resolveFolder matches a CLI argument against the owner's folders: exact
// id, then unique id prefix, then exact name.
func resolveFolder(folders *internal.FolderStore, arg string) (*internal.Folder, error) {
	owned := folders.FoldersForOwner()

	for _, f := range owned {
		if f.ID == arg {
			return f, nil
		}
	}

	var prefixed []*internal.Folder
	for _, f := range owned {
		if len(arg) >= 4 && len(f.ID) > len(arg) && f.ID[:len(arg)] == arg {
			prefixed = append(prefixed, f)
		}
	}
	if len(prefixed) == 1 {
		return prefixed[0], nil
	}
	if len(prefixed) > 1 {
		return nil, fmt.Errorf("folder id prefix %q is ambiguous", arg)
	}

	for _, f := range owned {
		if f.Name == arg {
			return f, nil
		}
	}
	return nil, fmt.Errorf("no folder matching %q", arg)
}
