package file

import (
	"fmt"
	"os"
	"sort"

	"github.com/ValentinKolb/localdata/cmd/util"
	"github.com/ValentinKolb/localdata/lib/db"
	"github.com/ValentinKolb/localdata/lib/persist"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	pathCmd = &cobra.Command{
		Use:   "path",
		Short: "Prints the path of the save file in use",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(ld.Path())
		},
	}
	saveCmd = &cobra.Command{
		Use:   "save",
		Short: "Rewrites the save file in the configured mode",
		Long:  util.WrapString("Rewrites the save file in the mode selected by --encrypt and removes the file of the other mode. Use it to switch an encrypted save file back to plaintext, or to re-encrypt with another key after loading with the old one."),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			encrypt := viper.GetBool("encrypt")
			if key := viper.GetString("new-key"); key != "" {
				ld.Engine().Settings().Key = key
			}
			if err := ld.SaveWith(encrypt); err != nil {
				return err
			}
			fmt.Printf("saved %s\n", ld.Path())
			return nil
		},
	}
	deleteCmd = &cobra.Command{
		Use:   "delete",
		Short: "Deletes the save file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if force, _ := cmd.Flags().GetBool("force"); !force {
				return fmt.Errorf("refusing to delete %s without --force", ld.Path())
			}
			removed, err := ld.DeleteFile()
			if err != nil {
				return err
			}
			fmt.Printf("path=%s, deleted=%t\n", ld.Path(), removed)
			return nil
		},
	}
	statsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Prints key counts and persistence metrics",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if prom, _ := cmd.Flags().GetBool("prometheus"); prom {
				persist.WritePrometheus(os.Stdout)
				return
			}

			fmt.Printf("path=%s, encrypted=%t, auto-save=%t\n", ld.Path(), ld.EncryptionEnabled(), ld.AutoSave())
			fmt.Println()
			for _, id := range db.SupportedTypes {
				fmt.Printf("  %-22s: %d keys\n", id, ld.KeyCount(id))
			}
			fmt.Println()
			printStats(ld.Engine().Stats())
		},
	}
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Prints the resolved configuration",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(ld.Engine().Settings().String())
		},
	}
)

func init() {
	saveCmd.Flags().String("new-key", "", util.WrapString("Key to encrypt with instead of --key"))
	deleteCmd.Flags().Bool("force", false, util.WrapString("Confirm the deletion"))
	statsCmd.Flags().Bool("prometheus", false, util.WrapString("Print the process metrics in Prometheus text format"))
}

// printStats prints the engine metrics sorted by name
func printStats(stats *persist.Stats) {
	type line struct{ name, value string }
	var lines []line
	stats.Each(func(name string, metric interface{}) {
		switch m := metric.(type) {
		case gometrics.Counter:
			lines = append(lines, line{name, fmt.Sprintf("%d", m.Count())})
		case gometrics.Timer:
			lines = append(lines, line{name, fmt.Sprintf("count=%d mean=%.0fns max=%dns", m.Count(), m.Mean(), m.Max())})
		}
	})
	sort.Slice(lines, func(i, j int) bool { return lines[i].name < lines[j].name })
	for _, l := range lines {
		fmt.Printf("  %-22s: %s\n", l.name, l.value)
	}
}
