package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/localdata/cmd/file"
	"github.com/ValentinKolb/localdata/cmd/kv"
	"github.com/ValentinKolb/localdata/cmd/util"
	"github.com/spf13/cobra"
)

const (
	Version = "1.0.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "ldata",
		Short: "typed local key-value persistence",
		Long: fmt.Sprintf(`ldata (v%s)

Inspect and edit the typed key-value save files of applications
using the localdata library, optionally encrypted at rest.`, Version),
		SilenceUsage: true,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of ldata",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("ldata v%s\n", Version)
		},
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add Commands
	RootCmd.AddCommand(kv.KeyValueCommands)
	RootCmd.AddCommand(file.FileCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	util.SetupStoreFlags(RootCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
