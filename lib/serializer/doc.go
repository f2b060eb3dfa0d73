// Package serializer converts Snapshot documents to bytes and back. It defines a common
// interface and two implementations with different trade-offs.
//
// Key Components:
//
//   - ISerializer: Core interface that all serializer implementations must satisfy.
//
//   - jsonSerializerImpl: Indented, human readable JSON. This is the default document
//     format. Decoding is strict: the input must be a single JSON object whose fields
//     all belong to the Snapshot. Any other JSON document (for instance an encryption
//     envelope) is rejected instead of silently decoding to an empty snapshot, which
//     the persistence engine relies on to detect mislabeled files.
//
//   - gobSerializerImpl: Go's gob encoding. More compact and faster to decode, but the
//     file is binary rather than a text document, not human readable and only usable
//     from Go programs. It is opt-in; nothing selects it by default.
//
// Thread Safety:
//
//	All serializer implementations are stateless and safe for concurrent use
//	across multiple goroutines without additional synchronization.
package serializer
