// Package persist saves a store.Registry to disk and loads it back, optionally encrypted
// at rest.
//
// A registry is stored in one of two file variants in the same directory:
//
//	plaintext: {directory}/{name}.{extension}
//	encrypted: {directory}/{name}{marker}.{extension}
//
// Save writes the variant for the requested mode and removes the other one. Load
// resolves which variant to use and recovers from files whose content does not match
// their name: an encrypted document under the plaintext name is decrypted, a plaintext
// document under the encrypted name is parsed as is. A plaintext document found while
// encryption is wanted is migrated to the encrypted variant. When neither file exists
// the registry starts empty and an initial document is written.
//
// A file that cannot be interpreted never mutates the registry. It is reported as an
// EventLoadError to subscribers and logged, and the last good in-memory state is kept.
//
// Subscribers are called synchronously. Per engine counters and timers are available
// through Stats, process wide counters through WritePrometheus.
package persist
