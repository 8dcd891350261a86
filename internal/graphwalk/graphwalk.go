// Package graphwalk provides a generic, concurrent, topologically-ordered DAG walker.
package graphwalk

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Walk visits each node and edge of the DAG reachable from start exactly once, in topological
// order. nodeVisit's return value controls whether the node's outgoing edges are visited (true) or
// skipped (false); either callback may be nil.
//
// Nodes and edges are visited concurrently, except no edgeVisit call for a pair of nodes happens
// before the nodeVisit calls for both have returned, which yields the topological ordering. The
// walk stops at the first error returned by either callback and that error is returned from Walk.
//
// The zero value for N must not be a valid node value; it is used internally to mark the start
// node's synthetic parent.
func Walk[N comparable, E any](ctx context.Context, start N,
	nodeVisit func(ctx context.Context, n N) (bool, error),
	edges func(n N) iter.Seq2[N, E],
	edgeVisit func(ctx context.Context, p, n N, label E) error) (retErr error) {

	zeroN := *new(N)
	slog.DebugContext(ctx, "graphwalk: start")
	nNodes, nEdges := 0, 0
	var nDescends atomic.Int32
	defer func() {
		slog.DebugContext(ctx, "graphwalk: done",
			"nodes", nNodes, "edges", nEdges, "descends", nDescends.Load(), "err", retErr)
	}()
	seen := map[N]<-chan struct{}{}
	type qEnt struct {
		p     N
		n     N
		label E
	}
	q := make(chan qEnt)
	var inflight atomic.Int32
	inflightDone := func() {
		if n := inflight.Add(-1); n == 0 {
			close(q)
		}
	}
	gr, ctx := errgroup.WithContext(ctx)
	enqueue := func(qe qEnt) {
		inflight.Add(1)
		gr.Go(func() error {
			select {
			case <-ctx.Done():
				inflightDone()
				return context.Cause(ctx)
			case q <- qe:
				return nil
			}
		})
	}
	// process runs synchronously in the main select loop below, so seen needs no lock.
	process := func(qe qEnt) error {
		defer inflightDone()
		nEdges++
		readyCh := seen[qe.n]
		if readyCh == nil {
			nNodes++
			bidiReadyCh := make(chan struct{})
			readyCh = bidiReadyCh
			seen[qe.n] = readyCh
			inflight.Add(1)
			gr.Go(func() error {
				defer inflightDone()
				descend := true
				if nodeVisit != nil {
					var err error
					descend, err = nodeVisit(ctx, qe.n)
					if err != nil {
						return err
					}
				}
				close(bidiReadyCh)
				if descend {
					nDescends.Add(1)
					for child, label := range edges(qe.n) {
						enqueue(qEnt{p: qe.n, n: child, label: label})
					}
				}
				return nil
			})
		}
		if edgeVisit != nil && qe.p != zeroN {
			inflight.Add(1)
			parentReadyCh := seen[qe.p]
			gr.Go(func() error {
				defer inflightDone()
				select {
				case <-ctx.Done():
					return context.Cause(ctx)
				case <-readyCh:
					select {
					case <-parentReadyCh:
					default:
						panic(fmt.Errorf("graphwalk: parent %v not visited before edge to %v", qe.p, qe.n))
					}
					return edgeVisit(ctx, qe.p, qe.n, qe.label)
				}
			})
		}
		return nil
	}
	enqueue(qEnt{p: zeroN, n: start})
	gr.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return context.Cause(ctx)
			case qe, ok := <-q:
				if !ok {
					return nil
				}
				if err := process(qe); err != nil {
					return err
				}
			}
		}
	})
	return gr.Wait()
}

type stopError struct{}

func (stopError) Error() string { return "stop" }

var errStop error = stopError{}

// All walks the DAG reachable from start and yields every node. The returned done callback must be
// called when finished iterating; it returns the first error the walk encountered.
func All[N comparable, E any](ctx context.Context, start N, edges func(n N) iter.Seq2[N, E]) (iter.Seq[N], func() error) {
	stop := false
	var retErr error
	var mu sync.Mutex
	return func(yield func(N) bool) {
			retErr = Walk(ctx, start,
				func(ctx context.Context, n N) (bool, error) {
					mu.Lock()
					defer mu.Unlock()
					if stop || !yield(n) {
						stop = true
						return false, errStop
					}
					return true, nil
				},
				edges, nil)
			if errors.Is(retErr, errStop) {
				retErr = nil
			}
		}, func() error { return retErr }
}
