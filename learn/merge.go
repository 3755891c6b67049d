// File: merge.go
// Role: deterministic end-of-generation archive merge (§5).

package learn

import "github.com/katalvlaran/tpglearn/archive"

// mergeArchives folds n per-job archives into dst, walking jobIdx
// ascending and reinserting every recording forced (bypassing dst's own
// archiving-probability draw, since each recording already passed its
// job archive's draw once). dst is itself FIFO-bounded at its own
// capacity, so inserting in ascending jobIdx order naturally leaves only
// the tail-most recordings once every job has been folded in — the same
// guarantee §5 describes as "trimming the prefix", reached here via the
// Archive's existing eviction policy rather than a separate trim step.
func mergeArchives(dst *archive.Archive, jobArchives map[int]*archive.Archive, n int) {
	for idx := 0; idx < n; idx++ {
		jobArchive, ok := jobArchives[idx]
		if !ok {
			continue
		}
		for _, rec := range jobArchive.Recordings() {
			handlers := jobArchive.DataHandlers(rec.DataHash)
			dst.AddRecording(rec.Program, handlers, rec.Result, true)
		}
	}
}
