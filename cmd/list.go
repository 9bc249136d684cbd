package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/chaaruze/too-many-chats/internal"
	"github.com/spf13/cobra"
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	chatStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	collapsedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Italic(true)
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List a character's folders and their chats",
	Long:  `List every folder the character owns, in display order, with its chats.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		folders, closer, err := openFolderStore()
		if err != nil {
			return err
		}
		defer closer()

		displayFolders(folders.FoldersForOwner())
		return nil
	},
}

func displayFolders(folders []*internal.Folder) {
	if len(folders) == 0 {
		fmt.Println(headerStyle.Render("📂 No folders yet"))
		fmt.Println(idStyle.Render("💡 Tip: create one with `too-many-chats -c <character> create <name>`"))
		return
	}

	header := headerStyle.Render(fmt.Sprintf("📂 %d folder(s)", len(folders)))
	fmt.Println(header)
	fmt.Println()

	w := tabwriter.NewWriter(lipgloss.DefaultRenderer().Output(), 0, 0, 3, ' ', tabwriter.AlignRight)

	_, _ = fmt.Fprintln(w, titleStyle.Render("ID")+"\t"+titleStyle.Render("Name")+"\t"+titleStyle.Render("Chats")+"\t"+titleStyle.Render("State")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 80))

	for _, f := range folders {
		shortID := f.ID
		if len(shortID) > 8 {
			shortID = shortID[:8]
		}
		id := idStyle.Render(shortID)

		name := f.Name
		if len(name) > 40 {
			name = name[:37] + "..."
		}

		count := countStyle.Render(fmt.Sprintf("%d", len(f.Chats)))

		state := "open"
		if f.Collapsed {
			state = collapsedStyle.Render("collapsed")
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", id, name, count, state)

		for _, chat := range f.Chats {
			_, _ = fmt.Fprintf(w, "\t%s\t\t\t\n", chatStyle.Render("· "+chat))
		}
	}

	_ = w.Flush()
}

func init() {
	rootCmd.AddCommand(listCmd)
}
