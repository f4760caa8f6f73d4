package core

// Result is the outcome of one region's firing.
type Result[S comparable] struct {
	State S
	Err   error
}

// Parallel fans one event out across independent engines ("regions").
// Regions share no history, metrics or hooks, and there is no
// synchronization point between them.
//
// Regions are added at construction time; AddRegion must not race with FireEvent.
type Parallel[S, E comparable, C any] struct {
	regions []*Engine[S, E, C]
}

// NewParallel creates a coordinator over regions, in order.
func NewParallel[S, E comparable, C any](regions ...*Engine[S, E, C]) *Parallel[S, E, C] {
	p := &Parallel[S, E, C]{}
	for _, r := range regions {
		p.AddRegion(r)
	}
	return p
}

// AddRegion appends a region. Nil engines are ignored.
func (p *Parallel[S, E, C]) AddRegion(r *Engine[S, E, C]) {
	if r != nil {
		p.regions = append(p.regions, r)
	}
}

// Region returns the region at index i.
func (p *Parallel[S, E, C]) Region(i int) (*Engine[S, E, C], bool) {
	if i < 0 || i >= len(p.regions) {
		return nil, false
	}
	return p.regions[i], true
}

// RegionCount returns the number of regions.
func (p *Parallel[S, E, C]) RegionCount() int { return len(p.regions) }

// FireEvent fires event in every region against the state at the same
// position. States or regions beyond the shorter of the two are ignored.
// Results come back in region order.
func (p *Parallel[S, E, C]) FireEvent(states []S, event E, c C) []Result[S] {
	n := min(len(states), len(p.regions))
	results := make([]Result[S], n)
	for i := range n {
		to, err := p.regions[i].FireEvent(states[i], event, c)
		results[i] = Result[S]{State: to, Err: err}
	}
	return results
}
