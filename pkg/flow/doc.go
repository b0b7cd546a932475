// Package flow verifies a parsed recipe and turns it into a tree rooted at
// the sink, ready for grid layout.
//
// # Overview
//
// [Analyze] splits every rule into paths: contiguous runs of steps between a
// chain start, a join point, and the sink. Paths are grouped by the join point
// they feed (or [Sink]), preserving the order in which they were found. The
// analysis never fails; anything wrong with the graph is recorded as a
// [Problem]:
//
//   - [NoTerminal]: no rule reaches `<>`
//   - [DanglingChain]: a rule ends with steps that feed nothing
//   - [UndefinedJoin]: a rule starts at a join point nothing feeds
//   - [Cycle]: a join point is reached twice while walking back from the sink
//
// [Analysis.IntoTree] refuses to build a tree while any problem is recorded.
// Otherwise it drains the path map into a [BackwardTree], computing each
// node's Size (ingredient lines under it) and MaxDepth (longest chain of steps
// into it) on the way.
//
//	a := flow.Analyze(store, r)
//	tree, err := a.IntoTree()
//	if err != nil {
//	    var perr *flow.ProblemsError
//	    if errors.As(err, &perr) {
//	        for _, p := range perr.Problems {
//	            fmt.Println(p.Describe(store))
//	        }
//	    }
//	    return err
//	}
//
// # Limitations
//
// The cycle walk starts from the join points the sink consumes and stops at
// the first join point it reaches twice. Join points that cannot be reached
// from the sink are never visited, so their cycles go unreported; they also
// never make it into the tree.
//
// Both the cycle walk and tree materialization use explicit stacks, so deep
// recipes cannot exhaust the goroutine stack.
package flow
