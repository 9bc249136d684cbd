package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete <folder>",
	Short: "Delete a folder",
	Long: `Delete a folder. Its chats are not touched; they just become
uncategorized.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		folders, closer, err := openFolderStore()
		if err != nil {
			return err
		}
		defer closer()

		folder, err := resolveFolder(folders, args[0])
		if err != nil {
			return err
		}

		if !deleteForce {
			fmt.Printf("Delete folder %q? Its %d chat(s) become uncategorized. [y/N] ", folder.Name, len(folder.Chats))
			reader := bufio.NewReader(os.Stdin)
			answer, _ := reader.ReadString('\n')
			if strings.TrimSpace(strings.ToLower(answer)) != "y" {
				fmt.Println("Aborted")
				return nil
			}
		}

		folders.DeleteFolder(folder.ID)
		fmt.Printf("Deleted folder %q\n", folder.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Delete without confirmation")
}
