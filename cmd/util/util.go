package util

import (
	"fmt"
	"strings"

	"github.com/ValentinKolb/localdata/lib/common"
	"github.com/ValentinKolb/localdata/lib/crypto"
	"github.com/ValentinKolb/localdata/lib/db"
	"github.com/ValentinKolb/localdata/lib/localdata"
	"github.com/ValentinKolb/localdata/lib/persist"
	"github.com/ValentinKolb/localdata/lib/serializer"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupStoreFlags adds the flags describing the save file to a command
func SetupStoreFlags(cmd *cobra.Command) {
	defaults := persist.DefaultSettings()

	key := "dir"
	cmd.PersistentFlags().String(key, defaults.Directory, WrapString("Directory holding the save files"))

	key = "name"
	cmd.PersistentFlags().String(key, defaults.Name, WrapString("Base name of the save file"))

	key = "extension"
	cmd.PersistentFlags().String(key, defaults.Extension, WrapString("Extension of the save file"))

	key = "marker"
	cmd.PersistentFlags().String(key, defaults.Marker, WrapString("Symbol appended to the base name of the encrypted save file"))

	key = "key"
	cmd.PersistentFlags().String(key, "", WrapString("Encryption key. For aes it must be 16, 24 or 32 bytes long, chacha20 accepts any passphrase (prefer the LDATA_KEY environment variable)"))

	key = "encrypt"
	cmd.PersistentFlags().Bool(key, defaults.EnableEncryption, WrapString("Store the data encrypted. An existing plaintext file is migrated on load"))

	key = "auto-save"
	cmd.PersistentFlags().Bool(key, defaults.AutoSave, WrapString("AutoSave flag for a newly created save file"))

	key = "cryptographer"
	cmd.PersistentFlags().String(key, defaults.Cryptographer.Name(), WrapString("Encryption algorithm to use (aes, chacha20)"))

	key = "serializer"
	cmd.PersistentFlags().String(key, defaults.Serializer.Name(), WrapString("Document format to use (json, gob). json writes the structured text document, gob writes a binary file only this tool can read"))

	key = "atomic-write"
	cmd.PersistentFlags().Bool(key, defaults.AtomicWrite, WrapString("Write through a temporary file that replaces the save file"))

	key = "log-level"
	cmd.PersistentFlags().String(key, "warn", WrapString("Log level (debug, info, warn, error, off)"))
}

// InitConfig initializes configuration from environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("ldata")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// GetSettings reads the persistence settings from viper
func GetSettings() (*persist.Settings, error) {
	c, err := crypto.New(viper.GetString("cryptographer"))
	if err != nil {
		return nil, err
	}
	s, err := serializer.New(viper.GetString("serializer"))
	if err != nil {
		return nil, err
	}

	settings := persist.DefaultSettings()
	settings.Directory = viper.GetString("dir")
	settings.Name = viper.GetString("name")
	settings.Extension = viper.GetString("extension")
	settings.Marker = viper.GetString("marker")
	settings.Key = viper.GetString("key")
	settings.EnableEncryption = viper.GetBool("encrypt")
	settings.AutoSave = viper.GetBool("auto-save")
	settings.AtomicWrite = viper.GetBool("atomic-write")
	settings.Cryptographer = c
	settings.Serializer = s

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if settings.EnableEncryption && settings.Key == "" {
		return nil, fmt.Errorf("encryption is enabled but no key is set (use --key or LDATA_KEY, or --encrypt=false)")
	}
	return settings, nil
}

// OpenLocalData configures logging, reads the settings and loads the save file.
func OpenLocalData(cmd *cobra.Command) (*localdata.LocalData, error) {
	if err := BindCommandFlags(cmd); err != nil {
		return nil, err
	}
	if err := common.InitLoggers(viper.GetString("log-level")); err != nil {
		return nil, err
	}

	settings, err := GetSettings()
	if err != nil {
		return nil, err
	}
	ld, err := localdata.New(settings)
	if err != nil {
		return nil, err
	}
	if err := ld.Init(); err != nil {
		return nil, err
	}
	return ld, nil
}

// GetType reads the --type flag of a command
func GetType(cmd *cobra.Command) (db.TypeID, error) {
	name, err := cmd.Flags().GetString("type")
	if err != nil {
		return db.TypeInvalid, err
	}
	return db.ParseTypeID(name)
}
