package kv

import (
	"fmt"
	"strings"

	"github.com/ValentinKolb/localdata/cmd/util"
	"github.com/ValentinKolb/localdata/lib/db"
	"github.com/spf13/cobra"
)

var (
	setCmd = &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Sets the value for a key",
		Long:  "Sets the value for a key. Vectors are written as comma separated components, e.g. 1,2,3",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := util.GetType(cmd)
			if err != nil {
				return err
			}
			value, err := ld.SetParsed(id, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Printf("key=%s, type=%s, value=%v\n", args[0], id, value)
			return nil
		},
	}
	getCmd = &cobra.Command{
		Use:   "get [key]",
		Short: "Reads the value for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := util.GetType(cmd)
			if err != nil {
				return err
			}
			key := args[0]
			found := ld.ContainsKey(id, key)
			fmt.Printf("key=%s, type=%s, found=%t, value=%v\n", key, id, found, ld.Get(id, key, nil))
			return nil
		},
	}
	delCmd = &cobra.Command{
		Use:   "del [key]",
		Short: "Deletes a key value pair",
		Long:  "Deletes a key value pair of the given type, or with --any the first pair with this key regardless of its type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			var removed bool
			if anyType, _ := cmd.Flags().GetBool("any"); anyType {
				removed = ld.DeleteKey(key)
			} else {
				id, err := util.GetType(cmd)
				if err != nil {
					return err
				}
				removed = ld.RemoveKey(id, key)
			}
			fmt.Printf("key=%s, deleted=%t\n", key, removed)
			return nil
		},
	}
	hasCmd = &cobra.Command{
		Use:   "has [key]",
		Short: "Checks if a key exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			var found bool
			if anyType, _ := cmd.Flags().GetBool("any"); anyType {
				found = ld.HasKey(key)
			} else {
				id, err := util.GetType(cmd)
				if err != nil {
					return err
				}
				found = ld.ContainsKey(id, key)
			}
			fmt.Printf("key=%s, found=%t\n", key, found)
			return nil
		},
	}
	renameCmd = &cobra.Command{
		Use:   "rename [old-key] [new-key]",
		Short: "Moves a value to a new key, overwriting an existing value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if all, _ := cmd.Flags().GetBool("all-types"); all {
				fmt.Printf("key=%s\n", ld.RenameKeyAll(args[0], args[1]))
				return nil
			}
			id, err := util.GetType(cmd)
			if err != nil {
				return err
			}
			fmt.Printf("key=%s\n", ld.RenameKey(id, args[0], args[1]))
			return nil
		},
	}
	keysCmd = &cobra.Command{
		Use:   "keys",
		Short: "Lists all keys of a type in insertion order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := util.GetType(cmd)
			if err != nil {
				return err
			}
			for _, key := range ld.AllKeys(id) {
				fmt.Println(key)
			}
			return nil
		},
	}
	valuesCmd = &cobra.Command{
		Use:   "values",
		Short: "Lists all key value pairs of a type in insertion order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := util.GetType(cmd)
			if err != nil {
				return err
			}
			keys, values := ld.AllKeys(id), ld.AllValues(id)
			for i := range keys {
				fmt.Printf("%s=%v\n", keys[i], values[i])
			}
			return nil
		},
	}
	countCmd = &cobra.Command{
		Use:   "count",
		Short: "Prints the number of keys of a type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := util.GetType(cmd)
			if err != nil {
				return err
			}
			fmt.Println(ld.KeyCount(id))
			return nil
		},
	}
	findCmd = &cobra.Command{
		Use:   "find [value]",
		Short: "Finds the first key (or with --all every key) holding a value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, value, err := parseValueArg(cmd, args[0])
			if err != nil {
				return err
			}
			if all, _ := cmd.Flags().GetBool("all"); all {
				fmt.Printf("keys=[%s]\n", strings.Join(ld.AllKeysForValue(id, value), ", "))
				return nil
			}
			key, found := ld.FirstKeyForValue(id, value)
			fmt.Printf("key=%s, found=%t\n", key, found)
			return nil
		},
	}
	removeValueCmd = &cobra.Command{
		Use:   "remove-value [value]",
		Short: "Removes the first key (or with --all every key) holding a value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, value, err := parseValueArg(cmd, args[0])
			if err != nil {
				return err
			}
			var removed bool
			if all, _ := cmd.Flags().GetBool("all"); all {
				removed = ld.RemoveKeysByValue(id, value)
			} else {
				removed = ld.RemoveKeyByValue(id, value)
			}
			fmt.Printf("removed=%t\n", removed)
			return nil
		},
	}
	clearCmd = &cobra.Command{
		Use:   "clear",
		Short: "Deletes every key of a type, or with --all-types every key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if all, _ := cmd.Flags().GetBool("all-types"); all {
				ld.DeleteAll()
				fmt.Println("cleared all types")
				return nil
			}
			id, err := util.GetType(cmd)
			if err != nil {
				return err
			}
			ld.DeleteAllOf(id)
			fmt.Printf("cleared type=%s\n", id)
			return nil
		},
	}
)

func init() {
	delCmd.Flags().Bool("any", false, util.WrapString("Ignore --type and delete the key from the first store holding it"))
	hasCmd.Flags().Bool("any", false, util.WrapString("Ignore --type and check every store"))
	renameCmd.Flags().Bool("all-types", false, util.WrapString("Rename the key in every store holding it"))
	findCmd.Flags().Bool("all", false, util.WrapString("Print every matching key"))
	removeValueCmd.Flags().Bool("all", false, util.WrapString("Remove every matching key"))
	clearCmd.Flags().Bool("all-types", false, util.WrapString("Clear every store"))
}

// parseValueArg parses a value argument according to the --type flag
func parseValueArg(cmd *cobra.Command, arg string) (db.TypeID, any, error) {
	id, err := util.GetType(cmd)
	if err != nil {
		return db.TypeInvalid, nil, err
	}
	value, err := db.ParseValue(id, arg)
	if err != nil {
		return db.TypeInvalid, nil, fmt.Errorf("invalid %s value %q: %w", id, arg, err)
	}
	return id, value, nil
}
