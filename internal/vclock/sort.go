package vclock

import (
	"container/heap"
	"time"
)

// Causal is implemented by anything that carries a vector clock and the
// deterministic tiebreak keys used to order concurrent items.
type Causal interface {
	CausalClock() VectorClock
	CausalTimestamp() time.Time
	CausalID() string
}

// SortCausally returns a new slice holding items in a deterministic linear
// extension of the happened-before order: if a's clock is Before b's clock,
// a comes first. Among items whose predecessors have all been emitted, the
// one with the earliest timestamp (then smallest ID) is emitted next.
//
// The input slice is not modified.
func SortCausally[T Causal](items []T) []T {
	n := len(items)
	if n < 2 {
		return append([]T(nil), items...)
	}

	// successors[i] lists j such that items[i] happened before items[j].
	successors := make([][]int, n)
	indegree := make([]int, n)
	for i := 0; i < n; i++ {
		ci := items[i].CausalClock()
		for j := i + 1; j < n; j++ {
			switch Compare(ci, items[j].CausalClock()) {
			case Before:
				successors[i] = append(successors[i], j)
				indegree[j]++
			case After:
				successors[j] = append(successors[j], i)
				indegree[i]++
			}
		}
	}

	ready := &readyQueue{less: func(a, b int) bool { return tiebreakLess(items[a], items[b]) }}
	for i := 0; i < n; i++ {
		if indegree[i] == 0 {
			ready.idx = append(ready.idx, i)
		}
	}
	heap.Init(ready)

	out := make([]T, 0, n)
	for ready.Len() > 0 {
		i := heap.Pop(ready).(int)
		out = append(out, items[i])
		for _, j := range successors[i] {
			indegree[j]--
			if indegree[j] == 0 {
				heap.Push(ready, j)
			}
		}
	}

	return out
}

func tiebreakLess(a, b Causal) bool {
	ta, tb := a.CausalTimestamp(), b.CausalTimestamp()
	if !ta.Equal(tb) {
		return ta.Before(tb)
	}
	return a.CausalID() < b.CausalID()
}

type readyQueue struct {
	idx  []int
	less func(a, b int) bool
}

func (q *readyQueue) Len() int           { return len(q.idx) }
func (q *readyQueue) Less(i, j int) bool { return q.less(q.idx[i], q.idx[j]) }
func (q *readyQueue) Swap(i, j int)      { q.idx[i], q.idx[j] = q.idx[j], q.idx[i] }
func (q *readyQueue) Push(x any)         { q.idx = append(q.idx, x.(int)) }
func (q *readyQueue) Pop() any {
	old := q.idx
	n := len(old)
	x := old[n-1]
	q.idx = old[:n-1]
	return x
}
