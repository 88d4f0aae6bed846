// Package pattern provides the captured-pattern store for Strand Core.
//
// The controller can run light shows it has no durable name or identity
// for. This package gives captured shows a stable, deterministic identity
// derived from their defining parameters, and keeps them in a bounded,
// ordered, deduplicated store so they can be renamed and reissued later.
//
// # Key Types
//
//   - Params: the protocol parameters needed to reissue a pattern command
//   - Pattern: a captured pattern (stable id, user-editable name, params)
//   - Store: bounded 20-slot collection with capture/rename/delete/resolve
//
// # Identity
//
// The identity is computed from (patternType, direction, speed, colour
// count), appending only non-default descriptors:
//
//	river + direction R + speed 20 + 4 colours  →  "river_dir R_speed20_4colors"
//
// Identical raw records always produce the identical id; the id is the
// sole deduplication key and never changes once assigned.
//
// # Thread Safety
//
// The Store is safe for concurrent use. All operations are protected by
// a read-write mutex.
package pattern
