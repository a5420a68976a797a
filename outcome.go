package cagd

import (
	"errors"
	"fmt"
	"sync"
)

// Outcome is the result of a per-node operation.
type Outcome struct {
	Index int
	Err   error
}

// Outcomes collects the result of an operation attempted on every node.
type Outcomes []Outcome

// OK reports whether every node succeeded.
func (o Outcomes) OK() bool {
	for _, r := range o {
		if r.Err != nil {
			return false
		}
	}
	return true
}

// Failed returns the indices of the nodes that failed.
func (o Outcomes) Failed() []int {
	var idx []int
	for _, r := range o {
		if r.Err != nil {
			idx = append(idx, r.Index)
		}
	}
	return idx
}

// Err joins the per-node failures, or returns nil if there are none.
func (o Outcomes) Err() error {
	var errs []error
	for _, r := range o {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("node %d: %w", r.Index, r.Err))
		}
	}
	return errors.Join(errs...)
}

// forEachNode runs fn for every index in [0, n) and records each result.
// When parallel is set the calls run concurrently; forEachNode returns
// only after all of them have finished.
func forEachNode(n int, parallel bool, fn func(i int) error) Outcomes {
	out := make(Outcomes, n)

	if !parallel || n <= 1 {
		for i := range n {
			out[i] = Outcome{Index: i, Err: fn(i)}
		}
		return out
	}

	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func(node int) {
			defer wg.Done()
			out[node] = Outcome{Index: node, Err: fn(node)}
		}(i)
	}
	wg.Wait()

	return out
}
