package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var createCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a folder for the character",
	Long:  `Create a new folder. With no name given the folder is called "New Folder".`,
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		folders, closer, err := openFolderStore()
		if err != nil {
			return err
		}
		defer closer()

		name := strings.Join(args, " ")
		id, ok := folders.CreateFolder(name)
		if !ok {
			return fmt.Errorf("folder not created")
		}

		created := folders.Settings().Folders[id]
		fmt.Printf("Created folder %q (%s)\n", created.Name, id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createCmd)
}
