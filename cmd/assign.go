package cmd

import (
	"fmt"

	"github.com/chaaruze/too-many-chats/internal"
	"github.com/spf13/cobra"
)

var assignCmd = &cobra.Command{
	Use:   "assign <chat> <folder>",
	Short: "Move a chat into a folder",
	Long: `Assign a chat (by its file name) to a folder. A chat belongs to at most
one folder per character; assigning moves it. Use "uncategorized" as the
folder to unassign.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		folders, closer, err := openFolderStore()
		if err != nil {
			return err
		}
		defer closer()

		chat := args[0]
		target := args[1]

		if target == internal.UncategorizedID {
			folders.MoveChatToFolder(chat, internal.UncategorizedID)
			fmt.Printf("Moved %q to uncategorized\n", chat)
			return nil
		}

		folder, err := resolveFolder(folders, target)
		if err != nil {
			return err
		}
		folders.MoveChatToFolder(chat, folder.ID)
		fmt.Printf("Moved %q into %q\n", chat, folder.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(assignCmd)
}
