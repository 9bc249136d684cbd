package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/chaaruze/too-many-chats/internal"
	"github.com/chaaruze/too-many-chats/internal/hosttree"
	"github.com/chaaruze/too-many-chats/internal/sthost"
	"github.com/spf13/cobra"
)

var folderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("214"))

var watchCmd = &cobra.Command{
	Use:   "watch <chats-dir>",
	Short: "Shadow a live chat directory with the folder overlay",
	Long: `Run the full overlay engine against a chat directory laid out as
<chats-dir>/<character>/<chat>.jsonl.

The simulated host renders the character's raw chat list and re-renders it
whenever files change; the engine hides the raw list in place and rebuilds
the folder-grouped overlay on every change. The current overlay is printed
whenever it settles into a new state. Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if characterKey == "" {
			return fmt.Errorf("--character is required")
		}

		store, closer, err := openSettingsStore()
		if err != nil {
			return err
		}
		defer closer()

		host := sthost.New(args[0], internal.Character{Name: characterKey})
		engine, err := internal.NewEngine(host, store)
		if err != nil {
			return err
		}

		if err := host.OpenChatDialog(); err != nil {
			return err
		}
		engine.Attach()
		defer engine.Detach()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		// Print the overlay whenever it settles into a new shape.
		go func() {
			var last string
			ticker := time.NewTicker(250 * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					snapshot := renderOverlay(host.Document())
					if snapshot != last && snapshot != "" {
						fmt.Println(snapshot)
						last = snapshot
					}
				}
			}
		}()

		err = host.Watch(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

// renderOverlay formats the current overlay subtree for the terminal. It
// holds the document lock while walking the tree; rebuilds run concurrently.
func renderOverlay(doc *hosttree.Document) string {
	doc.Lock()
	defer doc.Unlock()

	overlay := doc.FindByID(internal.OverlayID)
	if overlay == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("📂 Folder view"))
	b.WriteString("\n")

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
			if header == nil || body == nil {
				continue
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
			b.WriteString(fmt.Sprintf("%s %s %s\n", caret, folderStyle.Render(name), countStyle.Render(count)))
			if body.Visible() {
				for _, row := range body.Children() {
					b.WriteString("   " + chatStyle.Render(row.Text()) + "\n")
				}
			}
		case section.HasClass("tmc_uncategorized"):
			b.WriteString(folderStyle.Render("Uncategorized") + "\n")
			for _, row := range section.Children() {
				b.WriteString("   " + chatStyle.Render(row.Text()) + "\n")
			}
		}
	}
	return b.String()
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
