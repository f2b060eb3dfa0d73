// Package cmd implements the ldata command-line interface for inspecting and editing
// save files written by the localdata library.
//
// The package is organized into several subpackages:
//
//   - kv: Commands for typed key-value operations (get, set, rename, find, etc.)
//   - file: Commands for the save file itself (path, save, delete, stats)
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// Every command loads the save file first, exactly like an application calling Init,
// so pointing ldata at a plaintext file with --encrypt migrates it.
//
// See ldata -help for a list of all commands.
package cmd
