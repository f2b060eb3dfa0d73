package kv

import (
	"github.com/ValentinKolb/localdata/cmd/util"
	"github.com/ValentinKolb/localdata/lib/localdata"
	"github.com/spf13/cobra"
)

var (
	ld *localdata.LocalData

	// KeyValueCommands represents the KV command group
	KeyValueCommands = &cobra.Command{
		Use:                "kv",
		Short:              "Perform typed key-value operations on a save file",
		PersistentPreRunE:  openLocalData,
		PersistentPostRunE: saveLocalData,
	}
)

func init() {
	// Every value belongs to exactly one typed store
	KeyValueCommands.PersistentFlags().StringP("type", "t", "string", util.WrapString("Value type (string, bool, int, float, vector2, vector3)"))

	// Add subcommands
	KeyValueCommands.AddCommand(setCmd)
	KeyValueCommands.AddCommand(getCmd)
	KeyValueCommands.AddCommand(delCmd)
	KeyValueCommands.AddCommand(hasCmd)
	KeyValueCommands.AddCommand(renameCmd)
	KeyValueCommands.AddCommand(keysCmd)
	KeyValueCommands.AddCommand(valuesCmd)
	KeyValueCommands.AddCommand(countCmd)
	KeyValueCommands.AddCommand(findCmd)
	KeyValueCommands.AddCommand(removeValueCmd)
	KeyValueCommands.AddCommand(clearCmd)
	KeyValueCommands.AddCommand(perfTestCmd)
}

// openLocalData loads the save file described by the flags
func openLocalData(cmd *cobra.Command, _ []string) error {
	var err error
	ld, err = util.OpenLocalData(cmd)
	return err
}

// saveLocalData writes pending changes, regardless of the file's AutoSave flag
func saveLocalData(_ *cobra.Command, _ []string) error {
	if ld == nil {
		return nil
	}
	return ld.Save()
}
