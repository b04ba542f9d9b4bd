package search

// SearchMonitor provides hooks to observe the search pipeline.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	MethodResolved(method string, downgraded bool)
	AfterExpansion(expansion *Expansion)
	AfterRetrieval(results []*RankedResult)
	AfterClassification(results []*RankedResult)
	AfterYoungFilter(results []*RankedResult)
	Finish(response *Response)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                        {}
func (n *noopMonitor) MethodResolved(_ string, _ bool)       {}
func (n *noopMonitor) AfterExpansion(_ *Expansion)           {}
func (n *noopMonitor) AfterRetrieval(_ []*RankedResult)      {}
func (n *noopMonitor) AfterClassification(_ []*RankedResult) {}
func (n *noopMonitor) AfterYoungFilter(_ []*RankedResult)    {}
func (n *noopMonitor) Finish(_ *Response)                    {}
