package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var renameCmd = &cobra.Command{
	Use:   "rename <folder> <new-name>",
	Short: "Rename a folder",
	Long:  `Rename a folder, addressed by id, unique id prefix or exact name.`,
	Args:  cobra.MinimumNArgs(2),
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

		oldName := folder.Name
		newName := strings.Join(args[1:], " ")
		folders.RenameFolder(folder.ID, newName)
		fmt.Printf("Renamed %q to %q\n", oldName, folder.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)
}
