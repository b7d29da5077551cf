package offsetpager

// Package offsetpager provides an offset-based paging source for GORM.
//
// Overview
//
// A PagingSource turns a countable, offsettable GORM query into a sequence of
// independently loadable pages. Every Load runs a count query and a windowed
// LIMIT/OFFSET query inside one read-only transaction, then derives the page's
// navigation keys and surrounding-item counts from the offset arithmetic.
// A source subscribed to a Notifier becomes permanently invalid on the first
// relevant table change; the consumer is expected to discard it and build a
// fresh one.
//
// Key concepts
//   - PagingSource: orchestrates count, window retrieval, key arithmetic and
//     invalidation for one paged view of a query.
//   - Page: one bounded slice of the dataset plus PrevKey/NextKey navigation
//     keys and ItemsBefore/ItemsAfter counts.
//   - Notifier: an in-process table-change channel feeding invalidation;
//     TrackWrites wires it to GORM's write callbacks.
//   - Orderings: deterministic multi-column ordering, required for stable
//     offsets.
//
// See README for examples and usage details.
