package system

// Phase defines execution ordering within a single tick. All Animate
// systems finish before any Move system runs, so a state transition
// that gates movement is always seen fresh within the same tick.
type Phase int

const (
	PhaseAnimate Phase = iota // advance animation machines
	PhaseMove                 // evaluate movement behaviors
)

// Context carries the tick's shared clock. One now per tick keeps
// every timer comparison within the tick consistent.
type Context struct {
	NowMs        int64
	DeltaSeconds float64
}

// System is one pass over the visible NPC set. Update reports
// whether anything observable changed, so the caller can skip
// redundant redraws.
type System interface {
	Phase() Phase
	Update(ctx Context) bool
}
