package fusion

import "github.com/poiesic/domus/core"

// SearchMonitor provides hooks to observe the fusion process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(question string)
	AfterGraphSearch(records []core.GraphRecord, err error)
	AfterVectorSearch(candidates []core.Candidate, err error)
	OverlapHit(id string, candidate core.Candidate)
	BackfillHit(id string, candidate core.Candidate)
	BackfillFailed(ids []string, err error)
	FallbackHit(candidate core.Candidate)
	AfterSelection(candidates []core.Candidate)
	Finish(result *Result)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                            {}
func (n *noopMonitor) AfterGraphSearch(_ []core.GraphRecord, _ error)  {}
func (n *noopMonitor) AfterVectorSearch(_ []core.Candidate, _ error)   {}
func (n *noopMonitor) OverlapHit(_ string, _ core.Candidate)     {}
func (n *noopMonitor) BackfillHit(_ string, _ core.Candidate)    {}
func (n *noopMonitor) BackfillFailed(_ []string, _ error)        {}
func (n *noopMonitor) FallbackHit(_ core.Candidate)              {}
func (n *noopMonitor) AfterSelection(_ []core.Candidate)         {}
func (n *noopMonitor) Finish(_ *Result)                          {}
