// Package localdata is the entry point for applications: a LocalData context object
// that owns one store.Registry and the persist.Engine saving it.
//
// Construct it once with New, call Init to load the saved state (or create an empty
// document on first start), mutate values through the accessors, and call Shutdown
// from the application's quit hook for the final save.
//
// Values can be addressed three ways:
//
//   - Typed accessors for every supported type: GetInt, SetString, GetVector3, ...
//   - Generic functions restricted to db.Value: Get[T], RenameKeyByValue[T], AllKeys[T], ...
//   - Methods keyed by a runtime db.TypeID: (*LocalData).Get(id, ...), KeyCount(id), ...
//     An unsupported id is logged and answered with a neutral value.
//
// A LocalData is not safe for concurrent use. All calls, including Save and Load, run
// synchronously on the caller's goroutine.
package localdata
