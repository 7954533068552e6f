package blocklist

import "time"

// RepoStats exposes repository-level counters for the ops surface.
// All fields are best-effort snapshots and may be updated concurrently.
type RepoStats struct {
	Entries     int    // cardinality of the live snapshot
	Hits        uint64 // verdict cache hits since construction
	Misses      uint64 // verdict cache misses since construction
	Evictions   uint64 // verdict cache evictions since construction
	LastReplace int64  // unix seconds of the last Replace (0 if never)
}

// nowUnix is a seam for tests.
var nowUnix = func() int64 { return time.Now().Unix() }
