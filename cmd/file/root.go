package file

import (
	"github.com/ValentinKolb/localdata/cmd/util"
	"github.com/ValentinKolb/localdata/lib/localdata"
	"github.com/spf13/cobra"
)

var (
	ld *localdata.LocalData

	// FileCommands represents the save file command group
	FileCommands = &cobra.Command{
		Use:               "file",
		Short:             "Manage the save file",
		PersistentPreRunE: openLocalData,
	}
)

func init() {
	// Add subcommands
	FileCommands.AddCommand(pathCmd)
	FileCommands.AddCommand(saveCmd)
	FileCommands.AddCommand(deleteCmd)
	FileCommands.AddCommand(statsCmd)
	FileCommands.AddCommand(configCmd)
}

// openLocalData loads (or creates) the save file described by the flags
func openLocalData(cmd *cobra.Command, _ []string) error {
	var err error
	ld, err = util.OpenLocalData(cmd)
	return err
}
