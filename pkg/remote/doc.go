// Package remote defines persistence-facing contracts for fetching and saving
// entity records, plus a small resolver that drives the store's resolution
// lifecycle around those fetches.
//
// Responsibilities:
//   - Source only fetches/saves individual records for a single Ref.
//   - Resolver orchestrates Start/Finish/FailResolution around Source calls and
//     lands results through the store's Receive mutations.
//   - The core entities package stays transport-agnostic; all I/O lives behind
//     Source implementations supplied by consumers.
//
// Data flow:
//
//	Source -> Resolver -> Store.ReceiveEntityRecords(...) -> selectors
//
// Concurrency control:
//
//	Meta.ETag carries the optimistic-concurrency token. A Save or Delete with a
//	stale ETag fails with ErrETagMismatch and leaves the stored record intact.
package remote
