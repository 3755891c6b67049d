// File: job.go
// Role: Job / AdversarialJob — the work units §4.I's makeJobs builds.
//       Supplemented from original_source's gegelatilib/include/learn/job.h.

package learn

import "github.com/katalvlaran/tpglearn/tpg"

// Job is one base-variant evaluation unit: evaluate Root for
// Config.NbIterationsPerPolicyEvaluation iterations, recording into a
// private archive seeded by ArchiveSeed. Idx is the job's position in
// makeJobs' output, the key every result/archive map is indexed by.
type Job struct {
	Root        tpg.VertexID
	ArchiveSeed uint64
	Idx         int
}

// AdversarialJob is one adversarial-variant evaluation unit: a seated
// match between len(Roots) policies, one per seat, with the policy
// under study sitting at StudiedPos.
type AdversarialJob struct {
	Roots       []tpg.VertexID
	ArchiveSeed uint64
	Idx         int
	StudiedPos  int
}
